package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"feedbackboard/internal/store"
)

// Comments groups handlers for the comment thread of a feedback item.
type Comments struct {
	comments store.CommentRepository
}

// NewComments creates a new Comments handler group.
func NewComments(comments store.CommentRepository) *Comments {
	return &Comments{comments: comments}
}

// createCommentRequest is the body of POST /feedbacks/{id}/comments.
type createCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Create handles POST /feedbacks/{id}/comments.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Comment content is required.")
		return
	}

	c, err := h.comments.Create(r.Context(), chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeStoreError(w, r, err, "Server error: Could not add comment.")
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// List handles GET /feedbacks/{id}/comments.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.comments.ListByFeedback(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err, "Server error: Could not retrieve comments.")
		return
	}
	writeJSON(w, http.StatusOK, items)
}
