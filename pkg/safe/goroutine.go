package safe

import (
	"runtime/debug"

	"github.com/lunabeam/lunabeam/pkg/log"
)

// Go starts f in a new goroutine and recovers any panic it raises.
func Go(f func()) {
	go Do(f)
}

// Do runs f and recovers from any panic, logging the stack trace.
// It reports whether f returned normally.
func Do(f func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("recovered from panic", "panic", r, "stack", string(debug.Stack()))
			ok = false
		}
	}()
	f()
	return true
}
