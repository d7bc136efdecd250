package runner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalManager cancels a context on SIGINT or SIGTERM and remembers which
// signal arrived.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc
	ch     chan os.Signal
	done   chan struct{}

	mu       sync.Mutex
	received os.Signal
	stopOnce sync.Once
}

// NewSignalManager creates a new manager and immediately starts listening for signals.
func NewSignalManager(parent context.Context) *SignalManager {
	ctx, cancel := context.WithCancel(parent)
	sm := &SignalManager{
		ctx:    ctx,
		cancel: cancel,
		ch:     make(chan os.Signal, 1),
		done:   make(chan struct{}),
	}
	signal.Notify(sm.ch, os.Interrupt, syscall.SIGTERM)
	go sm.wait()
	return sm
}

func (sm *SignalManager) wait() {
	select {
	case sig := <-sm.ch:
		sm.mu.Lock()
		sm.received = sig
		sm.mu.Unlock()
		sm.cancel()
	case <-sm.done:
	}
}

// Context returns the context canceled by the first signal.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Received returns the signal that canceled the context, or nil.
func (sm *SignalManager) Received() os.Signal {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.received
}

// Stop permanently stops the signal listener and cancels the context.
func (sm *SignalManager) Stop() {
	sm.stopOnce.Do(func() {
		signal.Stop(sm.ch)
		close(sm.done)
		sm.cancel()
	})
}
