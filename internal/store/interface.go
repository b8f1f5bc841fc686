package store

import (
	"context"
	"errors"

	"social-post-studio/models"
)

// ErrNotFound is returned when the requested post does not exist.
var ErrNotFound = errors.New("post not found")

// PostStore is the persistence gateway for posts and their feedback. The
// pipeline never touches the database except through this surface.
type PostStore interface {
	Save(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)

	// List returns all posts, newest first. A non-empty searchQuery filters
	// by prompt, content, and caption (case-insensitive substring).
	List(ctx context.Context, searchQuery string) ([]*models.Post, error)

	Update(ctx context.Context, post *models.Post) (*models.Post, error)

	Approve(ctx context.Context, id string) (*models.Post, error)

	// Reject marks the post rejected and records a feedback row in the same
	// transaction.
	Reject(ctx context.Context, id, feedbackText string) (*models.Post, error)

	// Delete removes the post and cascades to its feedback.
	Delete(ctx context.Context, id string) error

	ListFeedback(ctx context.Context, postID string) ([]*models.Feedback, error)
}
