package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SectionModel is the ordered content unit of a course. `section_order` is
// ascending and auto-assigned as max+1 within the course when left at 0.
// `section_is_blocked` is the authoring-level gate: a blocked section is
// hidden from learners until the unlock cascade clears it.
type SectionModel struct {
	SectionID       uuid.UUID `gorm:"column:section_id;type:uuid;primaryKey" json:"section_id"`
	SectionCourseID uuid.UUID `gorm:"column:section_course_id;type:uuid;not null;index" json:"section_course_id"`

	SectionTitle            string `gorm:"column:section_title;type:varchar(255);not null" json:"section_title"`
	SectionSmallDescription string `gorm:"column:section_small_description;type:text" json:"section_small_description"`
	SectionIsBlocked        bool   `gorm:"column:section_is_blocked;not null;default:false" json:"section_is_blocked"`
	SectionOrder            int    `gorm:"column:section_order;not null;default:0;index" json:"section_order"`

	SectionCreatedAt time.Time `gorm:"column:section_created_at;autoCreateTime" json:"section_created_at"`
	SectionUpdatedAt time.Time `gorm:"column:section_updated_at;autoUpdateTime" json:"section_updated_at"`
}

func (SectionModel) TableName() string { return "sections" }

func (m *SectionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SectionID == uuid.Nil {
		m.SectionID = uuid.New()
	}
	if m.SectionOrder == 0 {
		var maxOrder int
		tx.Model(&SectionModel{}).
			Where("section_course_id = ?", m.SectionCourseID).
			Select("COALESCE(MAX(section_order), 0)").
			Scan(&maxOrder)
		m.SectionOrder = maxOrder + 1
	}
	return nil
}
