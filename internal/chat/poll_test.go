package chat

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastPoller shrinks the timing constants so tests run in milliseconds.
func fastPoller(pending *PendingStore, read ReadFunc) *Poller {
	p := NewPoller(pending, read)
	p.Interval = 5 * time.Millisecond
	p.Ceiling = 100 * time.Millisecond
	return p
}

func TestPoller_ResolvesImmediatelyWhenContentExists(t *testing.T) {
	pending := NewPendingStore(nil, time.Minute)
	poller := fastPoller(pending, func(ctx context.Context, id string) (int, error) {
		return 1, nil
	})

	err := poller.Wait(context.Background(), "resume-1", "cover_letter")
	require.NoError(t, err)

	_, ok := pending.Pending("resume-1", "cover_letter")
	assert.False(t, ok, "resolution clears the pending flag")
}

func TestPoller_ResolvesAfterContentAppears(t *testing.T) {
	var calls atomic.Int32
	pending := NewPendingStore(nil, time.Minute)
	poller := fastPoller(pending, func(ctx context.Context, id string) (int, error) {
		if calls.Add(1) >= 3 {
			return 2, nil
		}
		return 0, nil
	})

	err := poller.Wait(context.Background(), "resume-1", "skill_map")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestPoller_TimesOutAtCeiling(t *testing.T) {
	pending := NewPendingStore(nil, time.Minute)
	poller := fastPoller(pending, func(ctx context.Context, id string) (int, error) {
		return 0, nil
	})

	start := time.Now()
	err := poller.Wait(context.Background(), "resume-1", "cover_letter")
	assert.ErrorIs(t, err, ErrTimedOut)
	assert.GreaterOrEqual(t, time.Since(start), poller.Ceiling)

	_, ok := pending.Pending("resume-1", "cover_letter")
	assert.False(t, ok, "timeout clears the pending flag")
}

func TestPoller_ReadErrorsAreTransient(t *testing.T) {
	var calls atomic.Int32
	pending := NewPendingStore(nil, time.Minute)
	poller := fastPoller(pending, func(ctx context.Context, id string) (int, error) {
		if calls.Add(1) < 3 {
			return 0, context.DeadlineExceeded
		}
		return 1, nil
	})

	err := poller.Wait(context.Background(), "resume-1", "cover_letter")
	assert.NoError(t, err, "a transient read failure must not abort the wait")
}

func TestPoller_ContextCancellationKeepsFlag(t *testing.T) {
	pending := NewPendingStore(nil, time.Minute)
	poller := fastPoller(pending, func(ctx context.Context, id string) (int, error) {
		return 0, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(15 * time.Millisecond)
		cancel()
	}()

	err := poller.Wait(ctx, "resume-1", "cover_letter")
	assert.ErrorIs(t, err, context.Canceled)

	// The flag survives cancellation so a resumed watcher can pick it up.
	_, ok := pending.Pending("resume-1", "cover_letter")
	assert.True(t, ok)
}

func TestSession_PhaseLifecycle(t *testing.T) {
	pending := NewPendingStore(nil, time.Minute)
	session := NewSession(fastPoller(pending, func(ctx context.Context, id string) (int, error) {
		return 1, nil
	}))

	assert.Equal(t, PhaseIdle, session.Phase("resume-1"))

	err := session.Watch(context.Background(), "resume-1", "cover_letter")
	require.NoError(t, err)
	assert.Equal(t, PhaseResolved, session.Phase("resume-1"))
}

func TestSession_TimeoutPhase(t *testing.T) {
	pending := NewPendingStore(nil, time.Minute)
	session := NewSession(fastPoller(pending, func(ctx context.Context, id string) (int, error) {
		return 0, nil
	}))

	err := session.Watch(context.Background(), "resume-1", "cover_letter")
	assert.ErrorIs(t, err, ErrTimedOut)
	assert.Equal(t, PhaseTimedOut, session.Phase("resume-1"))
}

func TestSession_SupersededResourceDoesNotOverwriteCurrent(t *testing.T) {
	release := make(chan struct{})
	pending := NewPendingStore(nil, time.Minute)
	session := NewSession(fastPoller(pending, func(ctx context.Context, id string) (int, error) {
		if id == "stale" {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-release:
				return 1, nil
			}
		}
		return 1, nil
	}))

	staleDone := make(chan error, 1)
	go func() {
		staleDone <- session.Watch(context.Background(), "stale", "cover_letter")
	}()

	// Wait for the stale watch to park in its read call, then switch.
	time.Sleep(10 * time.Millisecond)
	err := session.Watch(context.Background(), "current", "cover_letter")
	require.NoError(t, err)
	assert.Equal(t, PhaseResolved, session.Phase("current"))

	close(release)
	err = <-staleDone
	assert.Error(t, err, "superseded watch is canceled")
	assert.Equal(t, PhaseResolved, session.Phase("current"), "stale completion must not clobber the current resource")
}
