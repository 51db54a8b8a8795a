// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"feedbackboard/internal/models"
	"feedbackboard/internal/query"
)

// MemoryFeedbackStore keeps feedback items in process memory. Ids are UUIDs,
// matching the PostgreSQL backend.
type MemoryFeedbackStore struct {
	mu    sync.RWMutex
	items map[string]*models.Feedback
	order []string // insertion order, the store's natural order
	now   func() time.Time
}

// NewMemoryFeedbackStore returns an empty in-memory feedback store.
func NewMemoryFeedbackStore() *MemoryFeedbackStore {
	return &MemoryFeedbackStore{
		items: make(map[string]*models.Feedback),
		now:   time.Now,
	}
}

// parseMemoryID validates the shape of an id without touching the map.
func parseMemoryID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", models.ErrInvalidID
	}
	return parsed.String(), nil
}

// Create stores a new feedback item.
func (s *MemoryFeedbackStore) Create(_ context.Context, in models.NewFeedback) (*models.Feedback, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	fb := &models.Feedback{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      models.StatusOpen,
		CreatedAt:   s.now(),
	}

	s.mu.Lock()
	s.items[fb.ID] = fb
	s.order = append(s.order, fb.ID)
	s.mu.Unlock()

	out := *fb
	return &out, nil
}

// GetByID returns a copy of the stored item.
func (s *MemoryFeedbackStore) GetByID(_ context.Context, id string) (*models.Feedback, error) {
	key, err := parseMemoryID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fb, ok := s.items[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *fb
	return &out, nil
}

// List filters and orders a snapshot of the store.
func (s *MemoryFeedbackStore) List(_ context.Context, q query.Query) ([]models.Feedback, error) {
	s.mu.RLock()
	items := make([]models.Feedback, 0, len(s.order))
	for _, id := range s.order {
		fb := s.items[id]
		if q.Filter.Matches(fb) {
			items = append(items, *fb)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		return q.Sort.Less(&items[i], &items[j])
	})
	return items, nil
}

// IncrementUpvote adds one to upvotes under the write lock.
func (s *MemoryFeedbackStore) IncrementUpvote(_ context.Context, id string) (*models.Feedback, error) {
	key, err := parseMemoryID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fb, ok := s.items[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	fb.Upvotes++
	out := *fb
	return &out, nil
}

// SetStatus replaces the status of an existing item.
func (s *MemoryFeedbackStore) SetStatus(_ context.Context, id string, status models.Status) (*models.Feedback, error) {
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	key, err := parseMemoryID(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fb, ok := s.items[key]
	if !ok {
		return nil, models.ErrNotFound
	}
	fb.Status = status
	out := *fb
	return &out, nil
}

// MemoryCommentStore keeps comments in process memory and checks feedback
// existence through the given FeedbackRepository.
type MemoryCommentStore struct {
	feedbacks FeedbackRepository

	mu       sync.RWMutex
	comments map[string][]models.Comment // keyed by feedback id, in insertion order
	now      func() time.Time
}

// NewMemoryCommentStore returns an empty in-memory comment store.
func NewMemoryCommentStore(feedbacks FeedbackRepository) *MemoryCommentStore {
	return &MemoryCommentStore{
		feedbacks: feedbacks,
		comments:  make(map[string][]models.Comment),
		now:       time.Now,
	}
}

// Create validates content, looks up the feedback item, then stores the comment.
func (s *MemoryCommentStore) Create(ctx context.Context, feedbackID, content string) (*models.Comment, error) {
	content, err := models.NormalizeCommentContent(content)
	if err != nil {
		return nil, err
	}
	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}

	c := models.Comment{
		ID:         uuid.NewString(),
		FeedbackID: fb.ID,
		Content:    content,
		CreatedAt:  s.now(),
	}

	s.mu.Lock()
	s.comments[fb.ID] = append(s.comments[fb.ID], c)
	s.mu.Unlock()

	return &c, nil
}

// ListByFeedback returns the comments of an existing item, oldest first.
func (s *MemoryCommentStore) ListByFeedback(ctx context.Context, feedbackID string) ([]models.Comment, error) {
	fb, err := s.feedbacks.GetByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	items := append([]models.Comment{}, s.comments[fb.ID]...)
	s.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}
