// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"feedbackboard/internal/models"
)

// CommentStore handles comment persistence in PostgreSQL. The feedback
// reference is checked by lookup before insert; the schema carries no
// foreign key.
type CommentStore struct {
	db        *sql.DB
	feedbacks FeedbackRepository
}

// NewCommentStore creates a new CommentStore. feedbacks is used to confirm
// that the parent item exists.
func NewCommentStore(db *sql.DB, feedbacks FeedbackRepository) *CommentStore {
	return &CommentStore{db: db, feedbacks: feedbacks}
}

const commentColumns = `id, feedback_id, content, created_at`

// scanComment scans a row into a Comment struct.
func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var (
		c              models.Comment
		id, feedbackID uuid.UUID
	)
	if err := scanner.Scan(&id, &feedbackID, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.ID = id.String()
	c.FeedbackID = feedbackID.String()
	return &c, nil
}

// Create inserts a comment for an existing feedback item.
func (s *CommentStore) Create(ctx context.Context, feedbackID, content string) (*models.Comment, error) {
	content, err := models.NormalizeCommentContent(content)
	if err != nil {
		return nil, err
	}
	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (feedback_id, content)
		VALUES ($1, $2)
		RETURNING `+commentColumns,
		fb.ID, content,
	)
	c, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// ListByFeedback returns all comments of an existing item, oldest first.
func (s *CommentStore) ListByFeedback(ctx context.Context, feedbackID string) ([]models.Comment, error) {
	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE feedback_id = $1
		ORDER BY created_at ASC
	`, fb.ID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	items := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}
