// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists feedback items and comments. Three backends share
// the same contract: PostgreSQL (default), MongoDB, and an in-memory store
// for development and tests.
//
// All backends report models.ErrNotFound, models.ErrInvalidID and
// *models.ValidationError for the corresponding conditions; any other error
// is an opaque storage failure.
package store

import (
	"context"

	"feedbackboard/internal/models"
	"feedbackboard/internal/query"
)

// FeedbackRepository is the contract of a feedback store.
type FeedbackRepository interface {
	// Create validates in and stores a new item with status Open and zero
	// upvotes.
	Create(ctx context.Context, in models.NewFeedback) (*models.Feedback, error)

	// GetByID returns the item with the given id.
	GetByID(ctx context.Context, id string) (*models.Feedback, error)

	// List returns the items selected by q in q's order. An empty result is
	// an empty, non-nil slice.
	List(ctx context.Context, q query.Query) ([]models.Feedback, error)

	// IncrementUpvote atomically adds one to the item's upvotes.
	IncrementUpvote(ctx context.Context, id string) (*models.Feedback, error)

	// SetStatus replaces the item's status. Any transition is allowed.
	SetStatus(ctx context.Context, id string, status models.Status) (*models.Feedback, error)
}

// CommentRepository is the contract of a comment store.
type CommentRepository interface {
	// Create attaches a comment to an existing feedback item.
	Create(ctx context.Context, feedbackID, content string) (*models.Comment, error)

	// ListByFeedback returns the item's comments, oldest first.
	ListByFeedback(ctx context.Context, feedbackID string) ([]models.Comment, error)
}

// checkStatus rejects statuses outside the closed set before any lookup.
func checkStatus(status models.Status) error {
	if !status.Valid() {
		_, err := models.ParseStatus(string(status))
		return err
	}
	return nil
}
