package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_ConsumeUpToCap(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounter(), 3)
	ctx := context.Background()
	userID := uuid.New()

	for i := 1; i <= 3; i++ {
		usage, err := limiter.Consume(ctx, userID, "cover_letter")
		require.NoError(t, err)
		assert.Equal(t, i, usage.Count)
		assert.Equal(t, 3, usage.MaxCount)
	}

	usage, err := limiter.Consume(ctx, userID, "cover_letter")
	require.Error(t, err)

	var limitErr *ErrLimitExceeded
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 3, usage.Count)
	assert.True(t, usage.ResetAt.After(time.Now()))
}

func TestLimiter_FeaturesAreIndependent(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounter(), 1)
	ctx := context.Background()
	userID := uuid.New()

	_, err := limiter.Consume(ctx, userID, "cover_letter")
	require.NoError(t, err)

	_, err = limiter.Consume(ctx, userID, "skill_map")
	require.NoError(t, err)

	_, err = limiter.Consume(ctx, userID, "cover_letter")
	assert.Error(t, err)
}

func TestLimiter_UsersAreIndependent(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounter(), 1)
	ctx := context.Background()

	_, err := limiter.Consume(ctx, uuid.New(), "chat_edit")
	require.NoError(t, err)
	_, err = limiter.Consume(ctx, uuid.New(), "chat_edit")
	require.NoError(t, err)
}

func TestLimiter_ZeroCapDisablesEnforcement(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounter(), 0)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 50; i++ {
		usage, err := limiter.Consume(ctx, userID, "cover_letter")
		require.NoError(t, err)
		assert.Equal(t, 0, usage.MaxCount)
	}
}

func TestLimiter_Peek(t *testing.T) {
	limiter := NewLimiter(NewMemoryCounter(), 5)
	ctx := context.Background()
	userID := uuid.New()

	usage, err := limiter.Peek(ctx, userID, "cover_letter")
	require.NoError(t, err)
	assert.Equal(t, 0, usage.Count)

	_, err = limiter.Consume(ctx, userID, "cover_letter")
	require.NoError(t, err)

	usage, err = limiter.Peek(ctx, userID, "cover_letter")
	require.NoError(t, err)
	assert.Equal(t, 1, usage.Count)
	assert.Equal(t, 4, usage.Remaining())
}

func TestMemoryCounter_DayRollover(t *testing.T) {
	counter := NewMemoryCounter()
	current := time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)
	counter.now = func() time.Time { return current }
	ctx := context.Background()
	userID := uuid.New()

	count, _, err := counter.IncrementDailyUsage(ctx, userID, "cover_letter")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	current = current.Add(2 * time.Hour) // past midnight UTC

	count, _, err = counter.GetDailyUsage(ctx, userID, "cover_letter")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "counts reset at the UTC day boundary")
}
