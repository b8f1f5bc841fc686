package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"social-post-studio/internal/store"
	"social-post-studio/models"
)

// Store implements store.PostStore on PostgreSQL.
type Store struct {
	db *gorm.DB
}

func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Post{}, &models.Feedback{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Save(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *Store) List(ctx context.Context, searchQuery string) ([]*models.Post, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if searchQuery != "" {
		pattern := "%" + searchQuery + "%"
		query = query.Where("prompt ILIKE ? OR content ILIKE ? OR caption ILIKE ?", pattern, pattern, pattern)
	}

	var posts []*models.Post
	err := query.Find(&posts).Error
	return posts, err
}

func (s *Store) Update(ctx context.Context, post *models.Post) (*models.Post, error) {
	result := s.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).Updates(map[string]any{
		"prompt":         post.Prompt,
		"refined_prompt": post.RefinedPrompt,
		"content":        post.Content,
		"caption":        post.Caption,
		"hashtags":       post.Hashtags,
		"image_url":      post.ImageURL,
		"tone":           post.Tone,
		"visual_style":   post.VisualStyle,
		"platform":       post.Platform,
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetByID(ctx, post.ID)
}

func (s *Store) Approve(ctx context.Context, id string) (*models.Post, error) {
	return s.setApproval(ctx, id, models.ApprovalApproved, "")
}

func (s *Store) Reject(ctx context.Context, id, feedbackText string) (*models.Post, error) {
	return s.setApproval(ctx, id, models.ApprovalRejected, feedbackText)
}

func (s *Store) setApproval(ctx context.Context, id string, status models.ApprovalStatus, feedbackText string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return err
		}

		post.Approval = status
		if err := tx.Save(&post).Error; err != nil {
			return err
		}

		if status == models.ApprovalRejected && feedbackText != "" {
			feedback := models.Feedback{PostID: post.ID, FeedbackText: feedbackText}
			if err := tx.Create(&feedback).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Post{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *Store) ListFeedback(ctx context.Context, postID string) ([]*models.Feedback, error) {
	var feedback []*models.Feedback
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC").Find(&feedback).Error
	return feedback, err
}
