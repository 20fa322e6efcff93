// Package utils holds small invariant-checking helpers shared across the
// allocator packages.
package utils

import "fmt"

// Assert panics with message if condition is false.
func Assert(condition bool, message string) {
	if !condition {
		panic(message)
	}
}

// Assertf is Assert with a formatted message, for checks whose failure
// needs the offending values to be debuggable.
func Assertf(condition bool, format string, args ...any) {
	if !condition {
		panic(fmt.Sprintf(format, args...))
	}
}

// AssertNoErr panics if err is non-nil, annotating it with context. It suits
// call sites where every operation is expected to succeed, so a returned
// error indicates a bug rather than a recoverable condition.
func AssertNoErr(err error, context string) {
	if err != nil {
		panic(fmt.Sprintf("%s: %v", context, err))
	}
}
