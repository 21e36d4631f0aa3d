package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// usageDay returns the UTC day key and the start of the next day. Daily
// windows are fixed to UTC so the reset time is the same for every caller.
func usageDay(now time.Time) (string, time.Time) {
	utc := now.UTC()
	day := utc.Format("2006-01-02")
	reset := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return day, reset
}

// IncrementDailyUsage bumps the user's counter for a feature in today's
// window and returns the new count plus the window reset time.
func (db *DB) IncrementDailyUsage(ctx context.Context, userID uuid.UUID, feature string) (int, time.Time, error) {
	day, reset := usageDay(time.Now())

	var count int
	err := db.pool.QueryRow(ctx,
		`INSERT INTO usage_counters (user_id, feature, day, count)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (user_id, feature, day) DO UPDATE SET count = usage_counters.count + 1
		 RETURNING count`,
		userID, feature, day,
	).Scan(&count)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to increment usage %s: %w", feature, err)
	}
	return count, reset, nil
}

// GetDailyUsage returns the user's counter for a feature in today's window
// without incrementing. A missing row reads as zero.
func (db *DB) GetDailyUsage(ctx context.Context, userID uuid.UUID, feature string) (int, time.Time, error) {
	day, reset := usageDay(time.Now())

	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT count FROM usage_counters WHERE user_id = $1 AND feature = $2 AND day = $3`,
		userID, feature, day,
	).Scan(&count)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, reset, nil
		}
		return 0, time.Time{}, fmt.Errorf("failed to get usage %s: %w", feature, err)
	}
	return count, reset, nil
}
