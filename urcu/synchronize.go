package urcu

import (
	"os"

	"github.com/kolkov/urcu/internal/rcu/core"
)

// Mode selects how SynchronizeRCU forces a fence across registered
// readers. See ModeExplicitFence and ModeSignalCoerced.
type Mode = core.Mode

const (
	// ModeExplicitFence issues a single local full fence in place of each
	// cross-reader fence step of SynchronizeRCU; no signal is ever sent. This is the
	// default and the only mode available on non-unix platforms. Only
	// SynchronizeRCU pays for it — ReadLock/ReadUnlock are unaffected.
	ModeExplicitFence = core.ModeExplicitFence

	// ModeSignalCoerced approximates the original's per-reader SIGURCU
	// coercion with a process-wide signal broadcast plus a per-reader
	// need_mb flag (unix builds only). See SPEC_FULL.md §4.4 and
	// DESIGN.md for why this is an approximation rather than a literal
	// translation: Go cannot target a signal at one goroutine.
	ModeSignalCoerced = core.ModeSignalCoerced
)

// SetMode selects the fence-forcing strategy for the remainder of the
// process's lifetime. It must be called before the first Register;
// calling it afterward, or selecting ModeSignalCoerced on a platform that
// does not support it, panics.
func SetMode(mode Mode) {
	core.SetMode(mode)
}

// CurrentMode reports the active fence-forcing strategy.
func CurrentMode() Mode {
	return core.CurrentMode()
}

// SynchronizeRCU blocks until every read-side critical section active at
// the time of the call has completed. A writer calls this after swapping
// out a pointer (see XchgPointer) and before reclaiming the old value;
// PublishContent does both in one call.
//
// This never returns early: a reader that never calls ReadUnlock stalls
// SynchronizeRCU, and every future call to it, indefinitely.
func SynchronizeRCU() {
	core.SynchronizeRCU()
}

func init() {
	switch os.Getenv("URCU_MODE") {
	case "signal-coerced":
		SetMode(ModeSignalCoerced)
	case "", "explicit-fence":
		// default; nothing to do.
	}
}
