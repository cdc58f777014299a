package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VideoModel. `video_is_blocked` defaults to true: authors publish videos by
// unblocking, and the cascade unblocks the first video of a newly unlocked
// section. Per-user reachability is never stored here; the access gate
// derives it from ordering + progress.
type VideoModel struct {
	VideoID        uuid.UUID `gorm:"column:video_id;type:uuid;primaryKey" json:"video_id"`
	VideoSectionID uuid.UUID `gorm:"column:video_section_id;type:uuid;not null;index" json:"video_section_id"`

	VideoTitle            string `gorm:"column:video_title;type:varchar(255);not null" json:"video_title"`
	VideoFileURL          string `gorm:"column:video_file_url;type:text;not null" json:"video_file_url"`
	VideoSmallDescription string `gorm:"column:video_small_description;type:text" json:"video_small_description"`
	VideoIsBlocked        bool   `gorm:"column:video_is_blocked;not null;default:true" json:"video_is_blocked"`
	VideoOrder            int    `gorm:"column:video_order;not null;default:0;index" json:"video_order"`

	VideoCreatedAt time.Time `gorm:"column:video_created_at;autoCreateTime" json:"video_created_at"`
	VideoUpdatedAt time.Time `gorm:"column:video_updated_at;autoUpdateTime" json:"video_updated_at"`
}

func (VideoModel) TableName() string { return "videos" }

func (m *VideoModel) BeforeCreate(tx *gorm.DB) error {
	if m.VideoID == uuid.Nil {
		m.VideoID = uuid.New()
	}
	if m.VideoOrder == 0 {
		var maxOrder int
		tx.Model(&VideoModel{}).
			Where("video_section_id = ?", m.VideoSectionID).
			Select("COALESCE(MAX(video_order), 0)").
			Scan(&maxOrder)
		m.VideoOrder = maxOrder + 1
	}
	return nil
}
