package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/chat"
	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.c"}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"user not found", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound},
		{"resume not found", &ErrResumeNotFound{ResumeID: uuid.New()}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "title", Message: "required"}, http.StatusBadRequest},
		{"refusal", &llm.RefusalError{Snippet: "I cannot help with that"}, http.StatusUnprocessableEntity},
		{"limit exceeded", &ratelimit.ErrLimitExceeded{
			Feature: "cover_letter",
			Usage:   chat.Usage{Count: 20, MaxCount: 20, ResetAt: time.Now()},
		}, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_WrappedErrors(t *testing.T) {
	refusal := fmt.Errorf("generation failed: %w", &llm.RefusalError{Snippet: "no"})
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(refusal))

	limit := fmt.Errorf("cover letter: %w", &ratelimit.ErrLimitExceeded{Feature: "cover_letter"})
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(limit))
}
