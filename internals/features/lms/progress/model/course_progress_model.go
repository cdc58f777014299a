package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseProgressModel struct {
	CourseProgressID       uuid.UUID `gorm:"column:course_progress_id;type:uuid;primaryKey" json:"course_progress_id"`
	CourseProgressUserID   uuid.UUID `gorm:"column:course_progress_user_id;type:uuid;not null;uniqueIndex:uq_course_progress_user_course" json:"course_progress_user_id"`
	CourseProgressCourseID uuid.UUID `gorm:"column:course_progress_course_id;type:uuid;not null;uniqueIndex:uq_course_progress_user_course" json:"course_progress_course_id"`

	CourseProgressPercent     int        `gorm:"column:course_progress_percent;not null;default:0" json:"course_progress_percent"`
	CourseProgressIsCompleted bool       `gorm:"column:course_progress_is_completed;not null;default:false" json:"course_progress_is_completed"`
	CourseProgressCompletedAt *time.Time `gorm:"column:course_progress_completed_at" json:"course_progress_completed_at,omitempty"`
}

func (CourseProgressModel) TableName() string { return "course_progress" }

func (m *CourseProgressModel) BeforeCreate(_ *gorm.DB) error {
	if m.CourseProgressID == uuid.Nil {
		m.CourseProgressID = uuid.New()
	}
	return nil
}
