//go:build !unix

package core

import "github.com/kolkov/urcu/internal/rcu/reader"

// signalCoercionSupported is false on non-unix builds: there is no
// portable single-process-signal mechanism to approximate SIGURCU with, so
// SetMode(ModeSignalCoerced) panics rather than silently degrading.
const signalCoercionSupported = false

func startFenceService(m *manager) {}

func signalCoerceFenceAll(readers []*reader.State) {
	panic("urcu: signal-coerced mode is not supported on this platform")
}

func signalCoerceFenceOne(st *reader.State) {
	panic("urcu: signal-coerced mode is not supported on this platform")
}
