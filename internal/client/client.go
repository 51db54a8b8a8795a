// Package client is the command-line counterpart of the feedback board API:
// a typed HTTP client, a persisted mock login session, and the route guards
// that decide which commands a session may run.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"feedbackboard/internal/models"
)

// APIError is a non-2xx response from the API. Message carries the
// server's {"message": ...} text when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// errorBody is the API's error shape.
type errorBody struct {
	Message string `json:"message"`
}

// ListOptions selects and orders GET /feedbacks results. Empty fields are
// omitted from the request.
type ListOptions struct {
	Q         string
	Status    string
	Category  string
	SortBy    string
	SortOrder string
}

func (o ListOptions) params() map[string]string {
	p := map[string]string{}
	for k, v := range map[string]string{
		"q":         o.Q,
		"status":    o.Status,
		"category":  o.Category,
		"sortBy":    o.SortBy,
		"sortOrder": o.SortOrder,
	} {
		if v != "" {
			p[k] = v
		}
	}
	return p
}

// Client calls the feedback board API.
type Client struct {
	http *resty.Client
}

// New returns a client for the API at baseURL.
func New(baseURL string) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: r}
}

// ListFeedback returns the feedback items matching opts.
func (c *Client) ListFeedback(ctx context.Context, opts ListOptions) ([]models.Feedback, error) {
	var out []models.Feedback
	req := c.http.R().SetContext(ctx).SetQueryParams(opts.params())
	if err := c.do(req, http.MethodGet, "/feedbacks", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFeedback returns one feedback item.
func (c *Client) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	var out models.Feedback
	req := c.http.R().SetContext(ctx).SetPathParam("id", id)
	if err := c.do(req, http.MethodGet, "/feedbacks/{id}", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitFeedback creates a feedback item.
func (c *Client) SubmitFeedback(ctx context.Context, title, description, category string) (*models.Feedback, error) {
	var out models.Feedback
	req := c.http.R().SetContext(ctx).SetBody(map[string]string{
		"title":       title,
		"description": description,
		"category":    category,
	})
	if err := c.do(req, http.MethodPost, "/feedbacks", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upvote adds one upvote to a feedback item and returns the updated item.
func (c *Client) Upvote(ctx context.Context, id string) (*models.Feedback, error) {
	var out models.Feedback
	req := c.http.R().SetContext(ctx).SetPathParam("id", id)
	if err := c.do(req, http.MethodPatch, "/feedbacks/{id}/upvote", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStatus changes the status of a feedback item.
func (c *Client) SetStatus(ctx context.Context, id, status string) (*models.Feedback, error) {
	var out models.Feedback
	req := c.http.R().SetContext(ctx).
		SetPathParam("id", id).
		SetBody(map[string]string{"status": status})
	if err := c.do(req, http.MethodPatch, "/feedbacks/{id}/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListComments returns the comments of a feedback item, oldest first.
func (c *Client) ListComments(ctx context.Context, id string) ([]models.Comment, error) {
	var out []models.Comment
	req := c.http.R().SetContext(ctx).SetPathParam("id", id)
	if err := c.do(req, http.MethodGet, "/feedbacks/{id}/comments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddComment posts a comment on a feedback item.
func (c *Client) AddComment(ctx context.Context, id, content string) (*models.Comment, error) {
	var out models.Comment
	req := c.http.R().SetContext(ctx).
		SetPathParam("id", id).
		SetBody(map[string]string{"content": content})
	if err := c.do(req, http.MethodPost, "/feedbacks/{id}/comments", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do executes req and decodes a 2xx body into out. Error statuses become
// *APIError.
func (c *Client) do(req *resty.Request, method, path string, out any) error {
	var apiErr errorBody
	resp, err := req.SetResult(out).SetError(&apiErr).Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Message}
	}
	return nil
}
