package reader

import "testing"

func TestEnterOutermostSnapshotsParity(t *testing.T) {
	s := New(1)
	s.Enter(1 << 63) // gp_ctr with phase bit set
	if !s.InCriticalSection() {
		t.Fatalf("expected in critical section after Enter")
	}
	if s.Depth().Phase() == 0 {
		t.Fatalf("expected snapshot to carry the phase bit")
	}
}

func TestEnterNestedPreservesSnapshot(t *testing.T) {
	s := New(1)
	s.Enter(1 << 63)
	before := s.Depth().Phase()
	// A second Enter with a different gp_ctr (phase flipped) must not
	// change the snapshot captured at outermost entry.
	s.Enter(0)
	if s.Depth().Phase() != before {
		t.Fatalf("nested Enter changed the outermost phase snapshot")
	}
}

func TestExitToZero(t *testing.T) {
	s := New(1)
	s.Enter(0)
	s.Enter(0)
	s.Exit()
	if !s.InCriticalSection() {
		t.Fatalf("expected still in critical section after one Exit of two Enters")
	}
	s.Exit()
	if s.InCriticalSection() {
		t.Fatalf("expected depth zero after matching Exit")
	}
}

func TestQuiescentWhenNeverEntered(t *testing.T) {
	s := New(1)
	if !s.Quiescent(1 << 63) {
		t.Fatalf("a reader that never entered must always be quiescent")
	}
}

func TestExitUnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from Exit without a matching Enter")
		}
	}()
	s := New(1)
	s.Exit()
}

func TestFenceFlag(t *testing.T) {
	s := New(1)
	if s.FenceRequested() {
		t.Fatalf("new state must not have a fence pending")
	}
	s.RequestFence()
	if !s.FenceRequested() {
		t.Fatalf("expected fence requested after RequestFence")
	}
	s.ClearFence()
	if s.FenceRequested() {
		t.Fatalf("expected fence cleared after ClearFence")
	}
}
