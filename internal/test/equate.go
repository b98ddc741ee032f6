package test

import (
	"fmt"
	"reflect"
	"testing"
)

// Equate fails the test if value is not equal to expected. Integer values of
// any type are compared by value, so a register can be checked against a
// literal without a conversion:
//
//	test.Equate(t, cpu.PC, 0x0150)
//
// Anything else must be deeply equal.
func Equate(t testing.TB, value, expected interface{}) {
	t.Helper()
	if !equal(value, expected) {
		t.Errorf("got %s, want %s", show(value), show(expected))
	}
}

func equal(value, expected interface{}) bool {
	v, e := reflect.ValueOf(value), reflect.ValueOf(expected)
	if !v.IsValid() || !e.IsValid() {
		return v.IsValid() == e.IsValid()
	}
	if vi, ok := integer(v); ok {
		if ei, ok := integer(e); ok {
			return vi == ei
		}
	}
	return reflect.DeepEqual(value, expected)
}

// wide holds an integer of any kind. A negative number keeps its sign
// separately so that it never equals a large unsigned value.
type wide struct {
	mag uint64
	neg bool
}

func integer(v reflect.Value) (wide, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i < 0 {
			return wide{mag: uint64(-i), neg: true}, true
		}
		return wide{mag: uint64(i)}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return wide{mag: v.Uint()}, true
	}
	return wide{}, false
}

func show(x interface{}) string {
	v := reflect.ValueOf(x)
	switch {
	case !v.IsValid():
		return "nil"
	case v.Kind() >= reflect.Uint8 && v.Kind() <= reflect.Uint64:
		return fmt.Sprintf("%#x (%T)", v.Uint(), x)
	case v.Kind() == reflect.String:
		return fmt.Sprintf("%q", x)
	}
	return fmt.Sprintf("%v (%T)", x, x)
}
