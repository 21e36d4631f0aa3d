package chat

import (
	"time"
)

// Usage is the rolling daily usage counter a generation endpoint returns.
// Enforcement lives server-side; this type only interprets the counters so
// the client can surface them and stop issuing requests deterministically.
type Usage struct {
	Count    int       `json:"count"`
	MaxCount int       `json:"maxCount"`
	ResetAt  time.Time `json:"resetAt"`
}

// Remaining returns how many generations are left in the current window.
func (u Usage) Remaining() int {
	remaining := u.MaxCount - u.Count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Exhausted reports whether the cap is reached. A zero MaxCount means the
// server communicated no cap.
func (u Usage) Exhausted() bool {
	return u.MaxCount > 0 && u.Count >= u.MaxCount
}

// ResetIn returns the time until the window resets, never negative.
func (u Usage) ResetIn(now time.Time) time.Duration {
	d := u.ResetAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
