// Package ratelimit enforces the daily generation cap. Each user gets a
// fixed number of AI generations per feature per UTC day; the counter
// resets at midnight UTC rather than sliding.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/chat"
)

// Counter persists per-user per-feature daily counts. The db package
// implements this against the usage_counters table.
type Counter interface {
	IncrementDailyUsage(ctx context.Context, userID uuid.UUID, feature string) (int, time.Time, error)
	GetDailyUsage(ctx context.Context, userID uuid.UUID, feature string) (int, time.Time, error)
}

// ErrLimitExceeded is returned when a user is over the daily cap.
type ErrLimitExceeded struct {
	Feature string
	Usage   chat.Usage
}

func (e *ErrLimitExceeded) Error() string {
	return fmt.Sprintf("daily %s limit reached (%d/%d), resets at %s",
		e.Feature, e.Usage.Count, e.Usage.MaxCount, e.Usage.ResetAt.Format(time.RFC3339))
}

// Limiter checks and consumes daily generation allowance.
type Limiter struct {
	counter Counter
	max     int // 0 disables the cap
}

// NewLimiter creates a limiter over the given counter. A max of zero
// disables enforcement; Consume still counts usage for reporting.
func NewLimiter(counter Counter, max int) *Limiter {
	return &Limiter{counter: counter, max: max}
}

// Consume spends one generation from the user's daily allowance.
// It returns the usage after the increment, or ErrLimitExceeded without
// incrementing further once the cap is already reached.
func (l *Limiter) Consume(ctx context.Context, userID uuid.UUID, feature string) (chat.Usage, error) {
	if l.max > 0 {
		count, reset, err := l.counter.GetDailyUsage(ctx, userID, feature)
		if err != nil {
			return chat.Usage{}, fmt.Errorf("failed to check usage: %w", err)
		}
		if count >= l.max {
			usage := chat.Usage{Count: count, MaxCount: l.max, ResetAt: reset}
			return usage, &ErrLimitExceeded{Feature: feature, Usage: usage}
		}
	}

	count, reset, err := l.counter.IncrementDailyUsage(ctx, userID, feature)
	if err != nil {
		return chat.Usage{}, fmt.Errorf("failed to consume usage: %w", err)
	}
	return chat.Usage{Count: count, MaxCount: l.max, ResetAt: reset}, nil
}

// Peek reports current usage without consuming.
func (l *Limiter) Peek(ctx context.Context, userID uuid.UUID, feature string) (chat.Usage, error) {
	count, reset, err := l.counter.GetDailyUsage(ctx, userID, feature)
	if err != nil {
		return chat.Usage{}, fmt.Errorf("failed to read usage: %w", err)
	}
	return chat.Usage{Count: count, MaxCount: l.max, ResetAt: reset}, nil
}

// MemoryCounter is an in-process Counter for tests and single-node use.
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[string]int
	day    string
	now    func() time.Time
}

// NewMemoryCounter creates an empty in-memory counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[string]int), now: time.Now}
}

func (c *MemoryCounter) window() (string, time.Time) {
	utc := c.now().UTC()
	day := utc.Format("2006-01-02")
	reset := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return day, reset
}

// rollover clears counts when the UTC day has changed.
func (c *MemoryCounter) rollover(day string) {
	if c.day != day {
		c.counts = make(map[string]int)
		c.day = day
	}
}

// IncrementDailyUsage implements Counter.
func (c *MemoryCounter) IncrementDailyUsage(_ context.Context, userID uuid.UUID, feature string) (int, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	day, reset := c.window()
	c.rollover(day)
	key := userID.String() + "|" + feature
	c.counts[key]++
	return c.counts[key], reset, nil
}

// GetDailyUsage implements Counter.
func (c *MemoryCounter) GetDailyUsage(_ context.Context, userID uuid.UUID, feature string) (int, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	day, reset := c.window()
	c.rollover(day)
	return c.counts[userID.String()+"|"+feature], reset, nil
}
