package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// One submission slot per (user, mission). Resubmitting replaces the content
// and drops any earlier approval, so graders always review the latest upload.
type MissionSubmissionModel struct {
	MissionSubmissionID        uuid.UUID `gorm:"column:mission_submission_id;type:uuid;primaryKey" json:"mission_submission_id"`
	MissionSubmissionUserID    uuid.UUID `gorm:"column:mission_submission_user_id;type:uuid;not null;uniqueIndex:uq_mission_submission_user_mission" json:"mission_submission_user_id"`
	MissionSubmissionMissionID uuid.UUID `gorm:"column:mission_submission_mission_id;type:uuid;not null;uniqueIndex:uq_mission_submission_user_mission" json:"mission_submission_mission_id"`

	MissionSubmissionFileURL string  `gorm:"column:mission_submission_file_url;type:text" json:"mission_submission_file_url"`
	MissionSubmissionComment string  `gorm:"column:mission_submission_comment;type:text" json:"mission_submission_comment"`
	MissionSubmissionScore   float64 `gorm:"column:mission_submission_score;not null;default:0" json:"mission_submission_score"`

	MissionSubmissionIsApproved bool       `gorm:"column:mission_submission_is_approved;not null;default:false" json:"mission_submission_is_approved"`
	MissionSubmissionReviewedAt *time.Time `gorm:"column:mission_submission_reviewed_at" json:"mission_submission_reviewed_at,omitempty"`

	MissionSubmissionCreatedAt time.Time `gorm:"column:mission_submission_created_at;autoCreateTime" json:"mission_submission_created_at"`
	MissionSubmissionUpdatedAt time.Time `gorm:"column:mission_submission_updated_at;autoUpdateTime" json:"mission_submission_updated_at"`
}

func (MissionSubmissionModel) TableName() string { return "mission_submissions" }

func (m *MissionSubmissionModel) BeforeCreate(_ *gorm.DB) error {
	if m.MissionSubmissionID == uuid.Nil {
		m.MissionSubmissionID = uuid.New()
	}
	return nil
}
