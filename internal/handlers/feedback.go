// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"feedbackboard/internal/cache"
	"feedbackboard/internal/models"
	"feedbackboard/internal/query"
	"feedbackboard/internal/store"
)

// Feedback groups handlers for feedback items. GET /feedbacks responses are
// served from the list cache when one is configured; every write drops it.
type Feedback struct {
	feedbacks store.FeedbackRepository
	listCache cache.ListCache
}

// NewFeedback creates a new Feedback handler group. listCache may be nil to
// disable response caching.
func NewFeedback(feedbacks store.FeedbackRepository, listCache cache.ListCache) *Feedback {
	return &Feedback{feedbacks: feedbacks, listCache: listCache}
}

// createFeedbackRequest is the body of POST /feedbacks.
type createFeedbackRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
}

// statusRequest is the body of PATCH /feedbacks/{id}/status.
type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create handles POST /feedbacks.
func (h *Feedback) Create(w http.ResponseWriter, r *http.Request) {
	var req createFeedbackRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Title, description, and category are required.")
		return
	}

	fb, err := h.feedbacks.Create(r.Context(), models.NewFeedback{
		Title:       req.Title,
		Description: req.Description,
		Category:    models.Category(req.Category),
	})
	if err != nil {
		writeStoreError(w, r, err, "Server error: Could not submit feedback.")
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusCreated, fb)
}

// List handles GET /feedbacks with optional q, status, category, sortBy and
// sortOrder parameters.
func (h *Feedback) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q, err := query.Translate(query.ParamsFromValues(r.URL.Query()))
	if err != nil {
		writeStoreError(w, r, err, "Server error: Could not retrieve feedbacks.")
		return
	}

	key := q.Key()
	if h.listCache != nil {
		if body, ok := h.listCache.Get(ctx, key); ok {
			writeRawJSON(w, http.StatusOK, body)
			return
		}
	}

	items, err := h.feedbacks.List(ctx, q)
	if err != nil {
		writeStoreError(w, r, err, "Server error: Could not retrieve feedbacks.")
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(items); err != nil {
		slog.Error("encode feedback list failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error: Could not retrieve feedbacks.")
		return
	}
	if h.listCache != nil {
		h.listCache.Set(ctx, key, buf.Bytes())
	}
	writeRawJSON(w, http.StatusOK, buf.Bytes())
}

// Get handles GET /feedbacks/{id}.
func (h *Feedback) Get(w http.ResponseWriter, r *http.Request) {
	fb, err := h.feedbacks.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err, "Server error: Could not retrieve feedback.")
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

// Upvote handles PATCH /feedbacks/{id}/upvote.
func (h *Feedback) Upvote(w http.ResponseWriter, r *http.Request) {
	fb, err := h.feedbacks.IncrementUpvote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err, "Server error: Could not upvote feedback.")
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusOK, fb)
}

// SetStatus handles PATCH /feedbacks/{id}/status. The status is checked
// before the id, so a bad status is reported even for an unknown item.
func (h *Feedback) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	var status models.Status
	err := validate.Struct(req)
	if err == nil {
		status, err = models.ParseStatus(req.Status)
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid or missing status provided. Allowed statuses: "+models.JoinStatuses())
		return
	}

	fb, err := h.feedbacks.SetStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeStoreError(w, r, err, "Server error: Could not update feedback status.")
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusOK, fb)
}

// invalidateTimeout bounds the cache round trip after a write.
const invalidateTimeout = 2 * time.Second

// invalidate drops cached list responses after a feedback write. The write
// has already been stored, so it runs even if the client has gone away.
func (h *Feedback) invalidate(r *http.Request) {
	if h.listCache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), invalidateTimeout)
	defer cancel()
	h.listCache.Invalidate(ctx)
}

// writeRawJSON writes an already encoded JSON body.
func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
