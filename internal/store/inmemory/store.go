package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"social-post-studio/internal/store"
	"social-post-studio/models"
)

// Store is an in-memory store.PostStore used in tests and local development.
type Store struct {
	mu       sync.RWMutex
	posts    map[string]*models.Post
	feedback map[string][]*models.Feedback
}

func New() *Store {
	return &Store{
		posts:    make(map[string]*models.Post),
		feedback: make(map[string][]*models.Feedback),
	}
}

func (s *Store) Save(_ context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.Approval == "" {
		post.Approval = models.ApprovalPending
	}
	if post.Hashtags == nil {
		post.Hashtags = []string{}
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	stored := *post
	s.posts[post.ID] = &stored
	return post, nil
}

func (s *Store) GetByID(_ context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (s *Store) List(_ context.Context, searchQuery string) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(searchQuery)
	result := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if needle != "" && !matches(post, needle) {
			continue
		}
		copied := *post
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func matches(post *models.Post, needle string) bool {
	return strings.Contains(strings.ToLower(post.Prompt), needle) ||
		strings.Contains(strings.ToLower(post.Content), needle) ||
		strings.Contains(strings.ToLower(post.Caption), needle)
}

func (s *Store) Update(_ context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[post.ID]
	if !ok {
		return nil, store.ErrNotFound
	}

	existing.Prompt = post.Prompt
	existing.RefinedPrompt = post.RefinedPrompt
	existing.Content = post.Content
	existing.Caption = post.Caption
	existing.Hashtags = post.Hashtags
	existing.ImageURL = post.ImageURL
	existing.Tone = post.Tone
	existing.VisualStyle = post.VisualStyle
	existing.Platform = post.Platform
	existing.UpdatedAt = time.Now()

	copied := *existing
	return &copied, nil
}

func (s *Store) Approve(ctx context.Context, id string) (*models.Post, error) {
	return s.setApproval(id, models.ApprovalApproved, "")
}

func (s *Store) Reject(ctx context.Context, id, feedbackText string) (*models.Post, error) {
	return s.setApproval(id, models.ApprovalRejected, feedbackText)
}

func (s *Store) setApproval(id string, status models.ApprovalStatus, feedbackText string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	post.Approval = status
	post.UpdatedAt = time.Now()

	if status == models.ApprovalRejected && feedbackText != "" {
		s.feedback[id] = append(s.feedback[id], &models.Feedback{
			ID:           uuid.NewString(),
			PostID:       id,
			FeedbackText: feedbackText,
			CreatedAt:    time.Now(),
		})
	}

	copied := *post
	return &copied, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	delete(s.feedback, id)
	return nil
}

func (s *Store) ListFeedback(_ context.Context, postID string) ([]*models.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.feedback[postID]
	result := make([]*models.Feedback, 0, len(entries))
	for _, f := range entries {
		copied := *f
		result = append(result, &copied)
	}
	return result, nil
}
