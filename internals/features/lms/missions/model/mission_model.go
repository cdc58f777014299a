package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MissionModel struct {
	MissionID        uuid.UUID `gorm:"column:mission_id;type:uuid;primaryKey" json:"mission_id"`
	MissionSectionID uuid.UUID `gorm:"column:mission_section_id;type:uuid;not null;index" json:"mission_section_id"`

	MissionTitle       string  `gorm:"column:mission_title;type:varchar(255);not null" json:"mission_title"`
	MissionDescription string  `gorm:"column:mission_description;type:text" json:"mission_description"`
	MissionFileURL     *string `gorm:"column:mission_file_url;type:text" json:"mission_file_url,omitempty"`
	MissionIsBlocked   bool    `gorm:"column:mission_is_blocked;not null;default:false" json:"mission_is_blocked"`

	MissionCreatedAt time.Time `gorm:"column:mission_created_at;autoCreateTime" json:"mission_created_at"`
	MissionUpdatedAt time.Time `gorm:"column:mission_updated_at;autoUpdateTime" json:"mission_updated_at"`
}

func (MissionModel) TableName() string { return "missions" }

func (m *MissionModel) BeforeCreate(_ *gorm.DB) error {
	if m.MissionID == uuid.Nil {
		m.MissionID = uuid.New()
	}
	return nil
}
