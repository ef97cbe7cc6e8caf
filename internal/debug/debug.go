// Package debug carries the runtime debug log toggle and the build-time
// invariant checks used across the module.
//
// Debug logs are enabled at runtime with Toggle (the ptools --debug flag does
// this). Invariant checks are compiled in with the "invariants" build tag:
//
//	go test -tags invariants ./...
package debug

import (
	"log"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

var enabled int32 = 0

// Toggle turns on/off debug mode
func Toggle(on bool) {
	val := int32(0)
	if on {
		val = 1
	}
	atomic.StoreInt32(&enabled, val)
}

// Enabled reports whether debug mode is on.
func Enabled() bool { return atomic.LoadInt32(&enabled) == 1 }

// Do executes a function if debug is enabled, usually for side effects.
func Do(f func()) {
	if atomic.LoadInt32(&enabled) != 1 {
		return
	}
	f()
}

// Format a log line and writes it to stderr if debug is enabled
func Format(format string, args ...interface{}) {
	if atomic.LoadInt32(&enabled) != 1 {
		return
	}
	log.Printf(format, args...)
}

// Assertf panics with an assertion failure when the module was built with
// the invariants tag and cond is false. It is a no-op otherwise.
func Assertf(cond bool, format string, args ...interface{}) {
	if Invariants && !cond {
		panic(errors.AssertionFailedf(format, args...))
	}
}
