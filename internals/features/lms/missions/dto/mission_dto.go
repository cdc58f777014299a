package dto

import (
	"github.com/google/uuid"
)

type CreateMissionRequest struct {
	MissionSectionID   uuid.UUID `json:"mission_section_id" validate:"required"`
	MissionTitle       string    `json:"mission_title" validate:"required,max=255"`
	MissionDescription string    `json:"mission_description"`
	MissionFileURL     *string   `json:"mission_file_url" validate:"omitempty,url"`
}

type UpdateMissionRequest struct {
	MissionTitle       *string `json:"mission_title" validate:"omitempty,max=255"`
	MissionDescription *string `json:"mission_description"`
	MissionFileURL     *string `json:"mission_file_url" validate:"omitempty,url"`
	MissionIsBlocked   *bool   `json:"mission_is_blocked"`
}

type SubmitMissionRequest struct {
	FileURL string `json:"file_url" validate:"required,url"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ReviewMissionRequest struct {
	Score      float64 `json:"score" validate:"gte=0,lte=100"`
	IsApproved bool    `json:"is_approved"`
}
