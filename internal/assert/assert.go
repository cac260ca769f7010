// Package assert carries the programmer-error preconditions the core relies
// on. Every call site here is documented by spec.md §7 as undefined behavior
// in a release build and a loud failure in a debug one; this package always
// fails loudly, since the host language has no separate debug/release mode.
package assert

import "fmt"

// True panics with msg if cond is false.
func True(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

// Truef panics with a formatted message if cond is false.
func Truef(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
