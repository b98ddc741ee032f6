// Package test has helpers that take the boilerplate out of package tests.
// ExpectedSuccess and ExpectedFailure accept a bool or an error. A nil value
// counts as success because that is what a nil error means.
package test

import "testing"

// outcome classifies v. ok is false for types the helpers do not understand.
func outcome(v interface{}) (success bool, detail string, ok bool) {
	switch v := v.(type) {
	case nil:
		return true, "nil", true
	case bool:
		return v, "bool", true
	case error:
		return false, v.Error(), true
	}
	return false, "", false
}

// ExpectedFailure fails the test unless v is false or a non-nil error.
func ExpectedFailure(t testing.TB, v interface{}) bool {
	t.Helper()
	success, detail, ok := outcome(v)
	if !ok {
		t.Fatalf("cannot judge failure of %T", v)
	}
	if success {
		t.Errorf("expected failure, got success (%s)", detail)
		return false
	}
	return true
}

// ExpectedSuccess fails the test unless v is true, nil or a nil error.
func ExpectedSuccess(t testing.TB, v interface{}) bool {
	t.Helper()
	success, detail, ok := outcome(v)
	if !ok {
		t.Fatalf("cannot judge success of %T", v)
	}
	if !success {
		t.Errorf("expected success, got failure (%s)", detail)
		return false
	}
	return true
}
