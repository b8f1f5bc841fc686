package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalStatus is the canonical tri-state review outcome. It is normalized
// here, at the persistence boundary, and nowhere else.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// Post is a persisted generated (or manually entered) social media post.
type Post struct {
	ID            string         `gorm:"type:uuid;primaryKey" json:"id"`
	Prompt        string         `gorm:"not null" json:"prompt"`
	RefinedPrompt string         `json:"refined_prompt,omitempty"`
	Content       string         `gorm:"not null" json:"content"`
	Caption       string         `json:"caption,omitempty"`
	Hashtags      []string       `gorm:"serializer:json" json:"hashtags"`
	ImageURL      string         `json:"image_url,omitempty"`
	Tone          string         `json:"tone,omitempty"`
	VisualStyle   string         `json:"visual_style,omitempty"`
	Platform      string         `json:"platform,omitempty"`
	Approval      ApprovalStatus `gorm:"type:varchar(16);default:pending;index" json:"approval"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Approval == "" {
		p.Approval = ApprovalPending
	}
	if p.Hashtags == nil {
		p.Hashtags = []string{}
	}
	return nil
}

// Feedback records why a post was rejected. Created only alongside a
// rejection, never mutated, deleted with the parent post.
type Feedback struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID       string    `gorm:"type:uuid;index;not null" json:"post_id"`
	FeedbackText string    `gorm:"not null" json:"feedback_text"`
	CreatedAt    time.Time `json:"created_at"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
