package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAlreadyRunning is returned by Start while a loop is active.
var ErrAlreadyRunning = errors.New("session: scheduler already running")

// Scheduler runs one periodic loop at a time: wait one interval, then tick,
// until stopped. Stop joins the loop.
type Scheduler struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches the loop. tick is called on the loop goroutine with a
// context that is cancelled by Stop; it must not call Stop itself.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration, tick func(context.Context)) error {
	if interval <= 0 {
		return errors.New("session: interval must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		select {
		case <-s.done:
			// previous loop ended with its parent context; reap it
			s.cancel()
		default:
			return ErrAlreadyRunning
		}
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	go func() {
		defer close(done)
		timer := time.NewTimer(interval)
		defer timer.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-timer.C:
			}
			if loopCtx.Err() != nil {
				return
			}
			tick(loopCtx)
			timer.Reset(interval)
		}
	}()
	return nil
}

// Stop cancels the loop and waits until it has exited. Safe to call when
// nothing is running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether a loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}
