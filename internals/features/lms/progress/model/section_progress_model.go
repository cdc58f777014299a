package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SectionProgressModel has two independent completion routes writing the same
// fields: the video route (score_percent reaches 100) and the mission route
// (approved-mission ratio reaches 80). completed_at is stamped once, on the
// first transition into completed.
type SectionProgressModel struct {
	SectionProgressID        uuid.UUID `gorm:"column:section_progress_id;type:uuid;primaryKey" json:"section_progress_id"`
	SectionProgressUserID    uuid.UUID `gorm:"column:section_progress_user_id;type:uuid;not null;uniqueIndex:uq_section_progress_user_section" json:"section_progress_user_id"`
	SectionProgressSectionID uuid.UUID `gorm:"column:section_progress_section_id;type:uuid;not null;uniqueIndex:uq_section_progress_user_section" json:"section_progress_section_id"`

	SectionProgressIsCompleted  bool       `gorm:"column:section_progress_is_completed;not null;default:false" json:"section_progress_is_completed"`
	SectionProgressCompletedAt  *time.Time `gorm:"column:section_progress_completed_at" json:"section_progress_completed_at,omitempty"`
	SectionProgressScorePercent float64    `gorm:"column:section_progress_score_percent;not null;default:0" json:"section_progress_score_percent"`
}

func (SectionProgressModel) TableName() string { return "section_progress" }

func (m *SectionProgressModel) BeforeCreate(_ *gorm.DB) error {
	if m.SectionProgressID == uuid.Nil {
		m.SectionProgressID = uuid.New()
	}
	return nil
}
