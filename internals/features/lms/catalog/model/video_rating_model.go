package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// One rating per (user, video); repeated submits overwrite.
type VideoRatingModel struct {
	VideoRatingID      uuid.UUID `gorm:"column:video_rating_id;type:uuid;primaryKey" json:"video_rating_id"`
	VideoRatingVideoID uuid.UUID `gorm:"column:video_rating_video_id;type:uuid;not null;uniqueIndex:uq_video_rating_user_video" json:"video_rating_video_id"`
	VideoRatingUserID  uuid.UUID `gorm:"column:video_rating_user_id;type:uuid;not null;uniqueIndex:uq_video_rating_user_video" json:"video_rating_user_id"`

	VideoRatingValue int `gorm:"column:video_rating_value;not null" json:"video_rating_value"`

	VideoRatingCreatedAt time.Time `gorm:"column:video_rating_created_at;autoCreateTime" json:"video_rating_created_at"`
	VideoRatingUpdatedAt time.Time `gorm:"column:video_rating_updated_at;autoUpdateTime" json:"video_rating_updated_at"`
}

func (VideoRatingModel) TableName() string { return "video_ratings" }

func (m *VideoRatingModel) BeforeCreate(_ *gorm.DB) error {
	if m.VideoRatingID == uuid.Nil {
		m.VideoRatingID = uuid.New()
	}
	return nil
}
