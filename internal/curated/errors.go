// Package curated provides errors that carry the format pattern they were
// built from. A caller decides what kind of failure it is looking at by
// comparing patterns, while the message keeps the detail.
//
// Patterns are exported string constants of the package that produces the
// error:
//
//	const LoadError = "cart: %v"
//	...
//	return curated.Errorf(LoadError, err)
//	...
//	if curated.Is(err, cart.LoadError) { ... }
package curated

import (
	"errors"
	"fmt"
	"strings"
)

// Error is created by Errorf. Args are formatted lazily.
type Error struct {
	Pattern string
	Args    []interface{}
}

// Errorf creates a new curated error.
func Errorf(pattern string, args ...interface{}) error {
	return &Error{Pattern: pattern, Args: args}
}

// Error formats the message. A prefix repeated by nested errors from the same
// package is only shown once, "cart: cart: missing" reads "cart: missing".
func (e *Error) Error() string {
	msg := fmt.Sprintf(e.Pattern, e.Args...)
	i := strings.Index(msg, ": ")
	if i <= 0 {
		return msg
	}
	prefix := msg[:i+2]
	for strings.HasPrefix(msg[len(prefix):], prefix) {
		msg = msg[len(prefix):]
	}
	return msg
}

// Unwrap exposes every error argument to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	var errs []error
	for _, a := range e.Args {
		if err, ok := a.(error); ok {
			errs = append(errs, err)
		}
	}
	return errs
}

// Is reports whether the outermost curated error in err's chain was made
// with pattern.
func Is(err error, pattern string) bool {
	var e *Error
	return errors.As(err, &e) && e.Pattern == pattern
}
