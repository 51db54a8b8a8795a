package store

import (
	"context"
	"fmt"
	"log/slog"

	"feedbackboard/internal/models"
	"feedbackboard/internal/query"
)

// seedItem is one sample feedback item with its comments and upvotes.
type seedItem struct {
	feedback models.NewFeedback
	status   models.Status
	upvotes  int
	comments []string
}

var seedItems = []seedItem{
	{
		feedback: models.NewFeedback{
			Title:       "Add dark mode",
			Description: "Please add a dark theme for late night browsing.",
			Category:    models.CategoryFeature,
		},
		status:   models.StatusPlanned,
		upvotes:  7,
		comments: []string{"Would love this.", "Same here, my eyes thank you in advance."},
	},
	{
		feedback: models.NewFeedback{
			Title:       "Login issue on Safari",
			Description: "Users cannot LOGIN after the session expires.",
			Category:    models.CategoryBug,
		},
		status:   models.StatusInProgress,
		upvotes:  4,
		comments: []string{"Reproduced on iOS 18."},
	},
	{
		feedback: models.NewFeedback{
			Title:       "Bigger submit button",
			Description: "The submit button is hard to hit on mobile.",
			Category:    models.CategoryUI,
		},
		status: models.StatusOpen,
	},
}

// Seed populates an empty board with sample data through the store API, so
// it works for every backend. It is a no-op when any feedback exists.
func Seed(ctx context.Context, feedbacks FeedbackRepository, comments CommentRepository) error {
	existing, err := feedbacks.List(ctx, query.Default())
	if err != nil {
		return fmt.Errorf("seed check feedbacks: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, item := range seedItems {
		fb, err := feedbacks.Create(ctx, item.feedback)
		if err != nil {
			return fmt.Errorf("seed feedback %q: %w", item.feedback.Title, err)
		}
		if item.status != models.StatusOpen {
			if _, err := feedbacks.SetStatus(ctx, fb.ID, item.status); err != nil {
				return fmt.Errorf("seed status %q: %w", item.feedback.Title, err)
			}
		}
		for i := 0; i < item.upvotes; i++ {
			if _, err := feedbacks.IncrementUpvote(ctx, fb.ID); err != nil {
				return fmt.Errorf("seed upvote %q: %w", item.feedback.Title, err)
			}
		}
		for _, content := range item.comments {
			if _, err := comments.Create(ctx, fb.ID, content); err != nil {
				return fmt.Errorf("seed comment %q: %w", item.feedback.Title, err)
			}
		}
	}

	slog.Info("database seeded with sample feedback", "items", len(seedItems))
	return nil
}
