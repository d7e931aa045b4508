// Package server provides the engine-side wrapper that enforces the
// application lifecycle and serializes block execution.
package server

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// lifecycleState represents a state in the lifecycle state machine.
type lifecycleState uint32

const (
	// stateInit: Waiting for Handshake. No other calls allowed.
	stateInit lifecycleState = iota
	// stateReady: Handshake complete. Concurrent calls allowed:
	// CheckTx, Query, Simulate. ExecuteBlock may start.
	stateReady
	// stateExecuting: ExecuteBlock has been called. Waiting for it
	// to return. No new ExecuteBlock until complete.
	stateExecuting
)

func (s lifecycleState) String() string {
	switch s {
	case stateInit:
		return "Init"
	case stateReady:
		return "Ready"
	case stateExecuting:
		return "Executing"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// LifecycleGuard enforces the lifecycle state machine.
// The engine wraps the application with this guard to ensure
// correct call ordering.
type LifecycleGuard struct {
	state atomic.Uint32
	// Serializes ExecuteBlock calls.
	seqMu sync.Mutex
	// Tracks whether Handshake has completed (for concurrent
	// call gating).
	handshakeDone atomic.Bool
}

// NewLifecycleGuard creates a guard in the Init state.
func NewLifecycleGuard() *LifecycleGuard {
	g := &LifecycleGuard{}
	g.state.Store(uint32(stateInit))
	return g
}

// State returns the current lifecycle state.
func (g *LifecycleGuard) State() string {
	return lifecycleState(g.state.Load()).String()
}

// AcquireHandshake transitions Init → Ready.
// Panics if not in Init state.
func (g *LifecycleGuard) AcquireHandshake() {
	if !g.state.CompareAndSwap(uint32(stateInit), uint32(stateReady)) {
		panic(fmt.Sprintf("pallet: Handshake called in state %s (expected Init)",
			lifecycleState(g.state.Load())))
	}
}

// CompleteHandshake marks handshake as done, enabling concurrent calls.
func (g *LifecycleGuard) CompleteHandshake() {
	g.handshakeDone.Store(true)
}

// FailHandshake rolls back state to Init if handshake fails.
func (g *LifecycleGuard) FailHandshake() {
	g.state.Store(uint32(stateInit))
}

// AcquireExecute transitions Ready → Executing.
// Blocks while another block is executing.
// Panics if Handshake has not completed.
func (g *LifecycleGuard) AcquireExecute() {
	g.seqMu.Lock()
	if state := lifecycleState(g.state.Load()); state != stateReady || !g.handshakeDone.Load() {
		g.seqMu.Unlock()
		panic(fmt.Sprintf("pallet: ExecuteBlock called in state %s (expected Ready)", state))
	}
	g.state.Store(uint32(stateExecuting))
}

// CompleteExecute transitions Executing → Ready. It is used both for
// executed and for rejected blocks; a rejected block does not wedge the
// ledger.
func (g *LifecycleGuard) CompleteExecute() {
	g.state.Store(uint32(stateReady))
	g.seqMu.Unlock()
}

// CheckConcurrent verifies that concurrent calls are allowed
// (any state after Handshake). Panics if handshake has not completed.
func (g *LifecycleGuard) CheckConcurrent() {
	if !g.handshakeDone.Load() {
		panic("pallet: concurrent call before Handshake completed")
	}
}

// IsReady returns true if the guard is in the Ready state.
func (g *LifecycleGuard) IsReady() bool {
	return lifecycleState(g.state.Load()) == stateReady
}
