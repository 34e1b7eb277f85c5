package core

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// loggingEnabled gates every diagnostic log call the same way the teacher
// gates its own detector with an enabled atomic.Bool: a relaxed load on a
// path that is never itself the hot path (registration, registry growth,
// grace-period bookkeeping), but that must never force an allocation or a
// write when logging is off.
var loggingEnabled atomic.Bool

var (
	loggerOnce sync.Once
	logger     zerolog.Logger
)

func initLogger() {
	loggerOnce.Do(func() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	})
}

// EnableLogging turns on structured diagnostic logging of registry growth,
// grace-period phase transitions, and signal-coercion broadcasts. Off by
// default; also enabled by URCU_DEBUG=1 at package init.
func EnableLogging() {
	initLogger()
	loggingEnabled.Store(true)
}

// DisableLogging turns diagnostic logging back off.
func DisableLogging() {
	loggingEnabled.Store(false)
}

func init() {
	if os.Getenv("URCU_DEBUG") == "1" {
		EnableLogging()
	}
}

func logEvent() *zerolog.Event {
	if !loggingEnabled.Load() {
		return nil
	}
	return logger.Info()
}

func logRegistryGrowth(oldCap, newCap int) {
	if ev := logEvent(); ev != nil {
		ev.Int("old_capacity", oldCap).Int("new_capacity", newCap).Msg("registry grown")
	}
}

func logGracePeriod(phase string, readersWaited int) {
	if ev := logEvent(); ev != nil {
		ev.Str("phase", phase).Int("readers_waited", readersWaited).Msg("grace period phase complete")
	}
}

func logFenceBroadcast(pending int) {
	if ev := logEvent(); ev != nil {
		ev.Int("readers_pending", pending).Msg("signal-coerced fence broadcast")
	}
}
