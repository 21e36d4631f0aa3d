package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Polling defaults: a fixed interval with a hard ceiling. The ceiling turns
// a hung generation into a recoverable error instead of waiting forever.
const (
	DefaultPollInterval = 3 * time.Second
	DefaultPollCeiling  = 45 * time.Second
)

// ErrTimedOut is returned when polling exceeds the ceiling without the read
// endpoint producing content. The pending flag is cleared before returning;
// the caller may retry manually.
var ErrTimedOut = errors.New("generation timed out")

// Phase is the lifecycle state of one tracked resource.
type Phase string

// Resource phases.
const (
	PhaseIdle     Phase = "idle"
	PhasePending  Phase = "pending"
	PhaseResolved Phase = "resolved"
	PhaseTimedOut Phase = "timed_out"
)

// ReadFunc checks the read endpoint for a resource and returns how many
// items exist for it. Polling resolves the instant the count is positive.
type ReadFunc func(ctx context.Context, resourceID string) (int, error)

// Poller drives the pending state machine for generation resources:
// idle -> pending(start) -> resolved | timed_out.
type Poller struct {
	Interval time.Duration
	Ceiling  time.Duration
	Pending  *PendingStore
	Read     ReadFunc
}

// NewPoller creates a poller with the default interval and ceiling.
func NewPoller(pending *PendingStore, read ReadFunc) *Poller {
	return &Poller{
		Interval: DefaultPollInterval,
		Ceiling:  DefaultPollCeiling,
		Pending:  pending,
		Read:     read,
	}
}

// Wait marks the resource pending and polls the read endpoint until content
// appears, the ceiling elapses, or ctx is canceled. The pending flag is
// cleared on every exit path except context cancellation, where the flag
// stays so a resumed watcher can pick the resource back up.
func (p *Poller) Wait(ctx context.Context, resourceID, feature string) error {
	if p.Read == nil {
		return fmt.Errorf("poller has no read function")
	}

	p.Pending.Begin(resourceID, feature)

	deadline := time.NewTimer(p.Ceiling)
	defer deadline.Stop()
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	check := func() (bool, error) {
		count, err := p.Read(ctx, resourceID)
		if err != nil {
			// Transient read failures do not abort the wait; the next tick
			// or the ceiling decides.
			log.Printf("[POLL] read failed for %s/%s: %v", resourceID, feature, err)
			return false, nil
		}
		return count > 0, nil
	}

	// First check is immediate so an already-resolved resource never waits
	// a full interval.
	if done, _ := check(); done {
		p.Pending.Resolve(resourceID, feature)
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			p.Pending.Resolve(resourceID, feature)
			return ErrTimedOut
		case <-ticker.C:
			if done, _ := check(); done {
				p.Pending.Resolve(resourceID, feature)
				return nil
			}
		}
	}
}

// Session tracks generation phases per resource id and guarantees that a
// superseded resource's late result never overwrites the state of the
// current one: phases are keyed by resource id, and starting a watch for a
// different id cancels the in-flight poll first.
type Session struct {
	poller *Poller

	mu        sync.Mutex
	phases    map[string]Phase
	currentID string
	cancel    context.CancelFunc
}

// NewSession creates a session over the poller.
func NewSession(poller *Poller) *Session {
	return &Session{
		poller: poller,
		phases: map[string]Phase{},
	}
}

// Phase returns the recorded phase for a resource id.
func (s *Session) Phase(resourceID string) Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	if phase, ok := s.phases[resourceID]; ok {
		return phase
	}
	return PhaseIdle
}

// Watch starts (or switches to) polling for the given resource. Any poll in
// flight for a different resource is canceled before the new one starts, so
// out-of-order completions cannot land in the wrong bucket. Watch blocks
// until the poll finishes and returns nil, ErrTimedOut, or the context error.
func (s *Session) Watch(ctx context.Context, resourceID, feature string) error {
	s.mu.Lock()
	if s.cancel != nil && s.currentID != resourceID {
		s.cancel()
	}
	watchCtx, cancel := context.WithCancel(ctx)
	s.currentID = resourceID
	s.cancel = cancel
	s.phases[resourceID] = PhasePending
	s.mu.Unlock()

	defer cancel()
	err := s.poller.Wait(watchCtx, resourceID, feature)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil:
		s.phases[resourceID] = PhaseResolved
	case errors.Is(err, ErrTimedOut):
		s.phases[resourceID] = PhaseTimedOut
	default:
		// Canceled: superseded by another resource or torn down. The phase
		// stays pending only if this watch is still the current one.
		if s.currentID == resourceID {
			s.phases[resourceID] = PhaseIdle
		}
	}
	return err
}

// Close cancels any in-flight poll.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
