package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentModel struct {
	CommentID      uuid.UUID `gorm:"column:comment_id;type:uuid;primaryKey" json:"comment_id"`
	CommentVideoID uuid.UUID `gorm:"column:comment_video_id;type:uuid;not null;index" json:"comment_video_id"`
	CommentUserID  uuid.UUID `gorm:"column:comment_user_id;type:uuid;not null;index" json:"comment_user_id"`

	CommentText string `gorm:"column:comment_text;type:text;not null" json:"comment_text"`

	CommentCreatedAt time.Time `gorm:"column:comment_created_at;autoCreateTime" json:"comment_created_at"`
	CommentUpdatedAt time.Time `gorm:"column:comment_updated_at;autoUpdateTime" json:"comment_updated_at"`
}

func (CommentModel) TableName() string { return "comments" }

func (m *CommentModel) BeforeCreate(_ *gorm.DB) error {
	if m.CommentID == uuid.Nil {
		m.CommentID = uuid.New()
	}
	return nil
}
