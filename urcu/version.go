package urcu

import "github.com/kolkov/urcu/internal/rcu/core"

// protocolVersion identifies the grace-period protocol this package
// implements, independent of the module's own release tag (set by the
// VCS/module proxy, not tracked in source). Bump it only if the ten-step
// SynchronizeRCU protocol itself changes in a way that affects callers
// relying on its ordering guarantees.
const protocolVersion = "rcu-1"

// BuildInfo reports the fence-forcing configuration a program is running
// under, for logging at startup or exposing on a debug endpoint.
type BuildInfo struct {
	// ProtocolVersion identifies the grace-period protocol in use.
	ProtocolVersion string

	// Mode is the active fence-forcing strategy (see Mode, SetMode).
	Mode string

	// SignalCoercionAvailable reports whether ModeSignalCoerced could be
	// selected on this platform, regardless of which mode is active.
	SignalCoercionAvailable bool
}

// Inspect returns the current BuildInfo. Typical use is logging it once
// at process startup, after any SetMode call and before the first
// Register:
//
//	info := urcu.Inspect()
//	log.Printf("urcu %s: mode=%s signal-coercion-available=%v",
//		info.ProtocolVersion, info.Mode, info.SignalCoercionAvailable)
func Inspect() BuildInfo {
	return BuildInfo{
		ProtocolVersion:         protocolVersion,
		Mode:                    CurrentMode().String(),
		SignalCoercionAvailable: core.SignalCoercionSupported(),
	}
}
