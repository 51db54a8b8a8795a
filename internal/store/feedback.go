// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"feedbackboard/internal/models"
	"feedbackboard/internal/query"
)

// FeedbackStore handles feedback persistence in PostgreSQL.
type FeedbackStore struct {
	db *sql.DB
}

// NewFeedbackStore creates a new FeedbackStore with the given database connection.
func NewFeedbackStore(db *sql.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

const feedbackColumns = `id, title, description, category, status, upvotes, created_at`

// scanFeedback scans a row into a Feedback struct.
func scanFeedback(scanner interface{ Scan(...any) error }) (*models.Feedback, error) {
	var (
		fb models.Feedback
		id uuid.UUID
	)
	err := scanner.Scan(
		&id, &fb.Title, &fb.Description, &fb.Category,
		&fb.Status, &fb.Upvotes, &fb.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	fb.ID = id.String()
	return &fb, nil
}

// parseUUID converts a path id to a UUID, reporting malformed input as
// models.ErrInvalidID.
func parseUUID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, models.ErrInvalidID
	}
	return parsed, nil
}

// Create inserts a new feedback item and returns it with the generated ID.
func (s *FeedbackStore) Create(ctx context.Context, in models.NewFeedback) (*models.Feedback, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO feedbacks (title, description, category, status, upvotes)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING `+feedbackColumns,
		in.Title, in.Description, string(in.Category), string(models.StatusOpen),
	)
	fb, err := scanFeedback(row)
	if err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return fb, nil
}

// GetByID retrieves a feedback item by ID.
func (s *FeedbackStore) GetByID(ctx context.Context, id string) (*models.Feedback, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+feedbackColumns+` FROM feedbacks WHERE id = $1`, key)
	fb, err := scanFeedback(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find feedback by id: %w", err)
	}
	return fb, nil
}

// List returns the feedback items selected by q.
func (s *FeedbackStore) List(ctx context.Context, q query.Query) ([]models.Feedback, error) {
	where, args := whereClause(q.Filter)
	stmt := `SELECT ` + feedbackColumns + ` FROM feedbacks` + where + orderClause(q.Sort)

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list feedbacks: %w", err)
	}
	defer rows.Close()

	items := []models.Feedback{}
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		items = append(items, *fb)
	}
	return items, rows.Err()
}

// IncrementUpvote adds one to upvotes in a single UPDATE, so concurrent
// upvotes are never lost.
func (s *FeedbackStore) IncrementUpvote(ctx context.Context, id string) (*models.Feedback, error) {
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE feedbacks SET upvotes = upvotes + 1
		WHERE id = $1
		RETURNING `+feedbackColumns, key)
	fb, err := scanFeedback(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("upvote feedback: %w", err)
	}
	return fb, nil
}

// SetStatus replaces the status of a feedback item.
func (s *FeedbackStore) SetStatus(ctx context.Context, id string, status models.Status) (*models.Feedback, error) {
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	key, err := parseUUID(id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE feedbacks SET status = $1
		WHERE id = $2
		RETURNING `+feedbackColumns, string(status), key)
	fb, err := scanFeedback(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set feedback status: %w", err)
	}
	return fb, nil
}

// likeEscaper escapes LIKE metacharacters so the search text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereClause renders f as a SQL WHERE clause with positional arguments.
func whereClause(f query.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Text != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Text)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause renders s as an ORDER BY clause. Column names come from a
// fixed mapping, never from client input.
func orderClause(s query.Sort) string {
	column := "created_at"
	if s.Field == query.SortUpvotes {
		column = "upvotes"
	}
	dir := "DESC"
	if s.Ascending {
		dir = "ASC"
	}
	return " ORDER BY " + column + " " + dir
}
