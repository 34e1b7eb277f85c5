//go:build unix

package core

import (
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"
)

// urcuTestHelperEnv selects the re-exec helper path in TestMain. SetMode
// panics once any reader has registered, and the package's manager is a
// single process-wide singleton, so signal-coerced mode cannot be
// selected from within the same test binary as the other tests in this
// package, which already register readers under the default mode. This
// re-execs the test binary as a child process that runs under the
// signal-coerced mode exclusively, mirroring the helper-process pattern
// used elsewhere in the corpus for testing process-wide state.
const urcuTestHelperEnv = "URCU_TEST_SIGNAL_COERCED_HELPER"

func TestMain(m *testing.M) {
	if os.Getenv(urcuTestHelperEnv) == "1" {
		runSignalCoercedHelper()
		return
	}
	os.Exit(m.Run())
}

// TestSignalCoercedSynchronizeRCU exercises SynchronizeRCU end-to-end
// under ModeSignalCoerced: the writer's SIGUSR1 broadcast, the
// fence-service goroutine's need_mb clearing, and the resend/back-off
// loop in waitForFenceClear. It re-execs this test binary with
// urcuTestHelperEnv set, checking the same blocks-until-exit property
// TestSynchronizeRCUBlocksUntilReaderExits checks for the default mode.
func TestSignalCoercedSynchronizeRCU(t *testing.T) {
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), urcuTestHelperEnv+"=1")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("signal-coerced helper process failed: %v\n%s", err, out)
	}
}

// runSignalCoercedHelper is the body executed in the re-exec'd child. It
// selects ModeSignalCoerced before the process's first RegisterThread,
// then runs the same blocks-until-reader-exits scenario
// TestSynchronizeRCUBlocksUntilReaderExits covers for the default mode.
func runSignalCoercedHelper() {
	fail := func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
		os.Exit(1)
	}

	SetMode(ModeSignalCoerced)
	if CurrentMode() != ModeSignalCoerced {
		fail("CurrentMode() = %v, want %v", CurrentMode(), ModeSignalCoerced)
	}

	st := RegisterThread()
	st.Enter(GPCounter())

	done := make(chan struct{})
	go func() {
		SynchronizeRCU()
		close(done)
	}()

	select {
	case <-done:
		fail("SynchronizeRCU returned before the reader exited its critical section")
	case <-time.After(50 * time.Millisecond):
	}

	st.Exit()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		fail("SynchronizeRCU did not return after the reader exited under signal-coerced mode")
	}

	UnregisterThread(st)
	os.Exit(0)
}
