package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedbackboard/internal/models"
)

func TestCommentsCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	fb := env.seed(t, "Thread", "d", models.CategoryOther)

	rr := env.do(t, http.MethodGet, "/feedbacks/"+fb.ID+"/comments", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	for _, content := range []string{"first", "  second  "} {
		rr := env.do(t, http.MethodPost, "/feedbacks/"+fb.ID+"/comments", `{"content":"`+content+`"}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		c := decodeJSON[models.Comment](t, rr)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, fb.ID, c.FeedbackID)
		time.Sleep(2 * time.Millisecond)
	}

	rr = env.do(t, http.MethodGet, "/feedbacks/"+fb.ID+"/comments", "")
	require.Equal(t, http.StatusOK, rr.Code)
	items := decodeJSON[[]models.Comment](t, rr)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Content)
	assert.Equal(t, "second", items[1].Content)

	raw := decodeJSON[[]map[string]any](t, rr)
	for _, field := range []string{"id", "feedbackId", "content", "createdAt"} {
		assert.Contains(t, raw[0], field)
	}
}

func TestCommentsCreateRejects(t *testing.T) {
	env := newTestEnv(t)
	fb := env.seed(t, "Quiet", "d", models.CategoryOther)

	tests := []struct {
		name   string
		id     string
		body   string
		status int
		want   string
	}{
		{"empty content", fb.ID, `{"content":""}`, http.StatusBadRequest, "Comment content is required."},
		{"blank content", fb.ID, `{"content":"   "}`, http.StatusBadRequest, "Comment content is required."},
		{"missing body", fb.ID, ``, http.StatusBadRequest, "Comment content is required."},
		{"malformed body", fb.ID, `nope`, http.StatusBadRequest, "Invalid request body."},
		{"unknown item", uuid.NewString(), `{"content":"hi"}`, http.StatusNotFound, "Feedback not found."},
		{"malformed id", "xyz", `{"content":"hi"}`, http.StatusBadRequest, "Invalid feedback ID format."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/feedbacks/"+tt.id+"/comments", tt.body)
			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.want, message(t, rr))
		})
	}

	rr := env.do(t, http.MethodGet, "/feedbacks/"+fb.ID+"/comments", "")
	assert.Empty(t, decodeJSON[[]models.Comment](t, rr), "rejected comments must not be stored")
}

func TestCommentsListErrors(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/feedbacks/"+uuid.NewString()+"/comments", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Feedback not found.", message(t, rr))

	rr = env.do(t, http.MethodGet, "/feedbacks/bad/comments", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid feedback ID format.", message(t, rr))
}
