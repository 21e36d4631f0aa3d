package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Feature constants for generated document kinds
const (
	FeatureCoverLetter = "cover_letter"
	FeatureSkillMap    = "skill_map"
	FeatureChatEdit    = "chat_edit"
	FeatureRewrite     = "rewrite"
	FeatureAnalysis    = "analysis"
)

// Generation is a stored generated document for a resume
type Generation struct {
	ID        uuid.UUID `json:"id"`
	ResumeID  uuid.UUID `json:"resume_id"`
	Feature   string    `json:"feature"`
	Content   string    `json:"content"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is a stored chat turn for a resume conversation
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	ResumeID  uuid.UUID `json:"resume_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveGeneration stores a generated document and returns its ID
func (db *DB) SaveGeneration(ctx context.Context, resumeID uuid.UUID, feature, content, model string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO generations (resume_id, feature, content, model)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		resumeID, feature, content, model,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save generation %s: %w", feature, err)
	}
	return id, nil
}

// GetLatestGeneration retrieves the most recent generated document of a
// feature for a resume. Returns nil without error when none exists.
func (db *DB) GetLatestGeneration(ctx context.Context, resumeID uuid.UUID, feature string) (*Generation, error) {
	var g Generation
	err := db.pool.QueryRow(ctx,
		`SELECT id, resume_id, feature, content, COALESCE(model, ''), created_at
		 FROM generations WHERE resume_id = $1 AND feature = $2
		 ORDER BY created_at DESC LIMIT 1`,
		resumeID, feature,
	).Scan(&g.ID, &g.ResumeID, &g.Feature, &g.Content, &g.Model, &g.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get generation %s: %w", feature, err)
	}
	return &g, nil
}

// CountGenerations returns the number of generated documents of a feature
// for a resume. Pollers compare this against a baseline taken before the
// generation started to detect completion.
func (db *DB) CountGenerations(ctx context.Context, resumeID uuid.UUID, feature string) (int, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM generations WHERE resume_id = $1 AND feature = $2`,
		resumeID, feature,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count generations %s: %w", feature, err)
	}
	return count, nil
}

// SaveChatMessage stores a chat turn and returns its ID
func (db *DB) SaveChatMessage(ctx context.Context, resumeID uuid.UUID, role, content string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO chat_messages (resume_id, role, content)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		resumeID, role, content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save chat message: %w", err)
	}
	return id, nil
}

// ListChatMessages retrieves the chat history for a resume, oldest first
func (db *DB) ListChatMessages(ctx context.Context, resumeID uuid.UUID, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, role, content, created_at
		 FROM chat_messages WHERE resume_id = $1
		 ORDER BY created_at ASC LIMIT $2`,
		resumeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.ResumeID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}
