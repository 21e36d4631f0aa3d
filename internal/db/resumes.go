package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-studio/internal/types"
)

// Resume is a stored resume record. Data is the resume payload kept as an
// opaque JSONB blob; it is inspected only for top-level shape on load.
type Resume struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Title     string          `json:"title"`
	Variant   string          `json:"variant"`
	Theme     string          `json:"theme"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ResumeSummary is a lightweight view of a resume for listing
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Variant   string    `json:"variant"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateResume stores a new resume and returns its ID
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title, variant, theme string, data json.RawMessage) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, variant, theme, data)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		userID, title, variant, theme, data,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a resume by ID. Returns nil without error when the
// resume does not exist. The stored blob is checked for the expected
// top-level keys; a record that lost them is reported as corrupt.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	var r Resume
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, variant, theme, data, created_at, updated_at
		 FROM resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.Title, &r.Variant, &r.Theme, &r.Data, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if _, err := types.ParseResumeData(r.Data); err != nil {
		return nil, fmt.Errorf("stored resume %s is corrupt: %w", id, err)
	}
	return &r, nil
}

// ListResumes retrieves resume summaries for a user, most recent first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]ResumeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, variant, updated_at
		 FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []ResumeSummary
	for rows.Next() {
		var r ResumeSummary
		if err := rows.Scan(&r.ID, &r.Title, &r.Variant, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	return resumes, nil
}

// UpdateResumeData replaces the resume payload blob
func (db *DB) UpdateResumeData(ctx context.Context, id uuid.UUID, data json.RawMessage) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET data = $1, updated_at = NOW() WHERE id = $2`,
		data, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume data: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", id)
	}
	return nil
}

// UpdateResumeStyle updates the variant and theme selection
func (db *DB) UpdateResumeStyle(ctx context.Context, id uuid.UUID, variant, theme string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET variant = $1, theme = $2, updated_at = NOW() WHERE id = $3`,
		variant, theme, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume style: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", id)
	}
	return nil
}

// DeleteResume deletes a resume and its generated documents (via cascade)
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", id)
	}
	return nil
}
