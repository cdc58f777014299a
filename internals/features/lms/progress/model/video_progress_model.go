package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// One completion fact per (user, video). Unmarking deletes the row rather
// than flipping the flag, so "no row" and "not completed" stay the same thing.
type VideoProgressModel struct {
	VideoProgressID      uuid.UUID `gorm:"column:video_progress_id;type:uuid;primaryKey" json:"video_progress_id"`
	VideoProgressUserID  uuid.UUID `gorm:"column:video_progress_user_id;type:uuid;not null;uniqueIndex:uq_video_progress_user_video" json:"video_progress_user_id"`
	VideoProgressVideoID uuid.UUID `gorm:"column:video_progress_video_id;type:uuid;not null;uniqueIndex:uq_video_progress_user_video" json:"video_progress_video_id"`

	VideoProgressIsCompleted bool       `gorm:"column:video_progress_is_completed;not null;default:false" json:"video_progress_is_completed"`
	VideoProgressCompletedAt *time.Time `gorm:"column:video_progress_completed_at" json:"video_progress_completed_at,omitempty"`
}

func (VideoProgressModel) TableName() string { return "video_progress" }

func (m *VideoProgressModel) BeforeCreate(_ *gorm.DB) error {
	if m.VideoProgressID == uuid.Nil {
		m.VideoProgressID = uuid.New()
	}
	return nil
}
