package llm

import (
	"errors"
	"fmt"
)

// ErrAPIKeyMissing indicates no provider API key was configured.
var ErrAPIKeyMissing = errors.New("generation API key is missing")

// RateLimitError indicates the provider rejected the call for quota reasons
// and no fallback succeeded.
type RateLimitError struct {
	Model string
	Cause error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("model %s rate limited: %v", e.Model, e.Cause)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// RefusalError indicates the generation service declined the task and
// returned a natural-language refusal instead of the requested output. This
// is a distinct failure kind from a parse error: the caller surfaces it as a
// blocked state and must not retry automatically.
type RefusalError struct {
	Snippet string
}

func (e *RefusalError) Error() string {
	return fmt.Sprintf("generation service declined the request: %q", e.Snippet)
}
