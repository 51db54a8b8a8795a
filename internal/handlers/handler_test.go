// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against the in-memory stores behind a chi router that mounts
// the same paths as the production router.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"feedbackboard/internal/cache"
	"feedbackboard/internal/models"
	"feedbackboard/internal/query"
	"feedbackboard/internal/store"
)

// recordingCache is a MemoryListCache that counts hits and invalidations.
type recordingCache struct {
	*cache.MemoryListCache

	mu            sync.Mutex
	hits          int
	invalidations int
	invalidateErr error
}

func newRecordingCache() *recordingCache {
	return &recordingCache{MemoryListCache: cache.NewMemoryListCache(time.Minute)}
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, ok := c.MemoryListCache.Get(ctx, key)
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
	}
	return body, ok
}

func (c *recordingCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	c.invalidations++
	c.invalidateErr = ctx.Err()
	c.mu.Unlock()
	c.MemoryListCache.Invalidate(ctx)
}

func (c *recordingCache) counts() (hits, invalidations int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.invalidations
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	feedbacks *store.MemoryFeedbackStore
	comments  *store.MemoryCommentStore
	cache     *recordingCache
	router    chi.Router
}

// newTestEnv wires memory stores and a recording list cache into a router.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	feedbacks := store.NewMemoryFeedbackStore()
	comments := store.NewMemoryCommentStore(feedbacks)
	lc := newRecordingCache()

	return &testEnv{
		feedbacks: feedbacks,
		comments:  comments,
		cache:     lc,
		router:    mount(NewFeedback(feedbacks, lc), NewComments(comments)),
	}
}

// mount registers the handler groups on the API paths.
func mount(fb *Feedback, cm *Comments) chi.Router {
	r := chi.NewRouter()
	r.Route("/feedbacks", func(r chi.Router) {
		r.Get("/", fb.List)
		r.Post("/", fb.Create)
		r.Get("/{id}", fb.Get)
		r.Patch("/{id}/upvote", fb.Upvote)
		r.Patch("/{id}/status", fb.SetStatus)
		r.Get("/{id}/comments", cm.List)
		r.Post("/{id}/comments", cm.Create)
	})
	return r
}

// do sends a request through the router and returns the recorded response.
func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(e.router, method, path, body)
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// seed creates a feedback item directly in the store. It drops cached
// lists without counting an invalidation, as a handler write would.
func (e *testEnv) seed(t *testing.T, title, description string, category models.Category) *models.Feedback {
	t.Helper()
	ctx := context.Background()
	fb, err := e.feedbacks.Create(ctx, models.NewFeedback{
		Title:       title,
		Description: description,
		Category:    category,
	})
	require.NoError(t, err)
	e.cache.MemoryListCache.Invalidate(ctx)
	return fb
}

// decodeJSON decodes a recorded JSON body into a value of type T.
func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

// message extracts the "message" field of an error body.
func message(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeJSON[map[string]string](t, rr)["message"]
}

// errBackend is returned by failingStore for every call.
var errBackend = errors.New("connection refused")

// failingStore implements both repositories and fails every call, to
// exercise the 500 paths.
type failingStore struct{}

func (failingStore) Create(context.Context, models.NewFeedback) (*models.Feedback, error) {
	return nil, errBackend
}
func (failingStore) GetByID(context.Context, string) (*models.Feedback, error) {
	return nil, errBackend
}
func (failingStore) List(context.Context, query.Query) ([]models.Feedback, error) {
	return nil, errBackend
}
func (failingStore) IncrementUpvote(context.Context, string) (*models.Feedback, error) {
	return nil, errBackend
}
func (failingStore) SetStatus(context.Context, string, models.Status) (*models.Feedback, error) {
	return nil, errBackend
}

type failingComments struct{}

func (failingComments) Create(context.Context, string, string) (*models.Comment, error) {
	return nil, errBackend
}
func (failingComments) ListByFeedback(context.Context, string) ([]models.Comment, error) {
	return nil, errBackend
}

var (
	_ store.FeedbackRepository = failingStore{}
	_ store.CommentRepository  = failingComments{}
)
