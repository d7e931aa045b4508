package server

import (
	"testing"
)

func TestLifecycleGuard_HappyPath(t *testing.T) {
	g := NewLifecycleGuard()

	// Init → Ready (Handshake)
	g.AcquireHandshake()
	g.CompleteHandshake()

	if !g.IsReady() {
		t.Fatal("expected Ready after handshake")
	}

	// Ready → Executing → Ready (ExecuteBlock)
	g.AcquireExecute()
	if g.State() != "Executing" {
		t.Fatalf("expected Executing, got %s", g.State())
	}
	g.CompleteExecute()

	if !g.IsReady() {
		t.Fatal("expected Ready after execute")
	}

	// Should be able to cycle again.
	g.AcquireExecute()
	g.CompleteExecute()

	if !g.IsReady() {
		t.Fatal("expected Ready after second cycle")
	}
}

func TestLifecycleGuard_ConcurrentAfterHandshake(t *testing.T) {
	g := NewLifecycleGuard()
	g.AcquireHandshake()
	g.CompleteHandshake()

	// CheckConcurrent should not panic after handshake.
	g.CheckConcurrent()
}

func TestLifecycleGuard_ConcurrentBeforeHandshake(t *testing.T) {
	g := NewLifecycleGuard()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for concurrent call before handshake")
		}
	}()

	g.CheckConcurrent()
}

func TestLifecycleGuard_DoubleHandshake(t *testing.T) {
	g := NewLifecycleGuard()
	g.AcquireHandshake()
	g.CompleteHandshake()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for double handshake")
		}
	}()

	g.AcquireHandshake()
}

func TestLifecycleGuard_ExecuteBeforeHandshake(t *testing.T) {
	g := NewLifecycleGuard()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for execute before handshake")
		}
	}()

	g.AcquireExecute()
}

func TestLifecycleGuard_ExecuteSerialized(t *testing.T) {
	g := NewLifecycleGuard()
	g.AcquireHandshake()
	g.CompleteHandshake()

	g.AcquireExecute()

	acquired := make(chan struct{})
	go func() {
		g.AcquireExecute()
		close(acquired)
		g.CompleteExecute()
	}()

	select {
	case <-acquired:
		t.Fatal("second execute acquired while first still running")
	default:
	}

	g.CompleteExecute()
	<-acquired
}

func TestLifecycleGuard_FailHandshake(t *testing.T) {
	g := NewLifecycleGuard()
	g.AcquireHandshake()
	g.FailHandshake()

	// Should be back in Init; can handshake again.
	g.AcquireHandshake()
	g.CompleteHandshake()

	if !g.IsReady() {
		t.Fatal("expected Ready after successful retry")
	}
}

func TestLifecycleGuard_State(t *testing.T) {
	g := NewLifecycleGuard()

	if g.State() != "Init" {
		t.Errorf("expected Init, got %s", g.State())
	}

	g.AcquireHandshake()
	g.CompleteHandshake()

	if g.State() != "Ready" {
		t.Errorf("expected Ready, got %s", g.State())
	}
}
