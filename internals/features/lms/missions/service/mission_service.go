package service

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	"unikurs_backend/internals/features/lms/missions/dto"
	missionModel "unikurs_backend/internals/features/lms/missions/model"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
	progressService "unikurs_backend/internals/features/lms/progress/service"
)

// Approved-mission ratio that completes a section through the mission route.
const missionPassPercent = 80.0

type MissionService struct {
	DB      *gorm.DB
	Gate    *progressService.AccessGate
	Cascade *progressService.UnlockCascade
}

func NewMissionService(db *gorm.DB) *MissionService {
	return &MissionService{
		DB:      db,
		Gate:    progressService.NewAccessGate(db),
		Cascade: progressService.NewUnlockCascade(db),
	}
}

// Submit upserts the learner's submission for a mission. Replacing an
// already-reviewed submission clears the review.
func (s *MissionService) Submit(userID uuid.UUID, role string, missionID uuid.UUID, req *dto.SubmitMissionRequest) (*missionModel.MissionSubmissionModel, error) {
	var mission missionModel.MissionModel
	if err := s.DB.First(&mission, "mission_id = ?", missionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Mission not found")
		}
		return nil, err
	}

	ok, err := s.Gate.CanAccessMissions(userID, role, mission.MissionSectionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, "Finish the section videos before submitting missions")
	}

	var sub missionModel.MissionSubmissionModel
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("mission_submission_user_id = ? AND mission_submission_mission_id = ?", userID, missionID).
			First(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sub = missionModel.MissionSubmissionModel{
				MissionSubmissionUserID:    userID,
				MissionSubmissionMissionID: missionID,
				MissionSubmissionFileURL:   req.FileURL,
				MissionSubmissionComment:   req.Comment,
			}
			createErr := tx.Create(&sub).Error
			if createErr == nil {
				return nil
			}
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return createErr
			}
			// lost the (user, mission) unique-index race; take over that row
			if err := tx.
				Where("mission_submission_user_id = ? AND mission_submission_mission_id = ?", userID, missionID).
				First(&sub).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := tx.Model(&sub).Updates(map[string]interface{}{
			"mission_submission_file_url":    req.FileURL,
			"mission_submission_comment":     req.Comment,
			"mission_submission_score":       0,
			"mission_submission_is_approved": false,
			"mission_submission_reviewed_at": nil,
		}).Error; err != nil {
			return err
		}
		sub.MissionSubmissionFileURL = req.FileURL
		sub.MissionSubmissionComment = req.Comment
		sub.MissionSubmissionScore = 0
		sub.MissionSubmissionIsApproved = false
		sub.MissionSubmissionReviewedAt = nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Review records a grader's verdict. When approval pushes the learner's
// approved ratio for the section to the threshold, the section completes and
// the unlock cascade runs, all in one transaction.
func (s *MissionService) Review(submissionID uuid.UUID, req *dto.ReviewMissionRequest) (*missionModel.MissionSubmissionModel, error) {
	var sub missionModel.MissionSubmissionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sub, "mission_submission_id = ?", submissionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Submission not found")
			}
			return err
		}

		now := time.Now()
		if err := tx.Model(&sub).Updates(map[string]interface{}{
			"mission_submission_score":       req.Score,
			"mission_submission_is_approved": req.IsApproved,
			"mission_submission_reviewed_at": now,
		}).Error; err != nil {
			return err
		}
		sub.MissionSubmissionScore = req.Score
		sub.MissionSubmissionIsApproved = req.IsApproved
		sub.MissionSubmissionReviewedAt = &now

		if !req.IsApproved {
			return nil
		}

		var mission missionModel.MissionModel
		if err := tx.First(&mission, "mission_id = ?", sub.MissionSubmissionMissionID).Error; err != nil {
			return err
		}

		ratio, err := s.approvedRatio(tx, sub.MissionSubmissionUserID, mission.MissionSectionID)
		if err != nil {
			return err
		}
		if err := s.writeMissionScore(tx, sub.MissionSubmissionUserID, mission.MissionSectionID, ratio); err != nil {
			return err
		}
		if ratio < missionPassPercent {
			return nil
		}

		var section catalogModel.SectionModel
		if err := tx.First(&section, "section_id = ?", mission.MissionSectionID).Error; err != nil {
			return err
		}
		log.Printf("[MissionService] mission route complete: user=%s section=%s ratio=%.0f%%",
			sub.MissionSubmissionUserID, section.SectionID, ratio)
		return s.Cascade.CompleteSection(tx, sub.MissionSubmissionUserID, &section)
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// approvedRatio = floor(approved / total missions of the section * 100).
func (s *MissionService) approvedRatio(tx *gorm.DB, userID, sectionID uuid.UUID) (float64, error) {
	var total int64
	if err := tx.Model(&missionModel.MissionModel{}).
		Where("mission_section_id = ?", sectionID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	var approved int64
	if err := tx.Model(&missionModel.MissionSubmissionModel{}).
		Joins("JOIN missions ON missions.mission_id = mission_submissions.mission_submission_mission_id").
		Where("missions.mission_section_id = ?", sectionID).
		Where("mission_submissions.mission_submission_user_id = ? AND mission_submissions.mission_submission_is_approved = ?", userID, true).
		Count(&approved).Error; err != nil {
		return 0, err
	}

	return math.Floor(float64(approved*100) / float64(total)), nil
}

// writeMissionScore keeps the section score in step with the mission route
// without touching completion flags; CompleteSection owns those.
func (s *MissionService) writeMissionScore(tx *gorm.DB, userID, sectionID uuid.UUID, ratio float64) error {
	var sp progressModel.SectionProgressModel
	err := tx.
		Where("section_progress_user_id = ? AND section_progress_section_id = ?", userID, sectionID).
		First(&sp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&progressModel.SectionProgressModel{
			SectionProgressUserID:       userID,
			SectionProgressSectionID:    sectionID,
			SectionProgressScorePercent: ratio,
		}).Error
	}
	if err != nil {
		return err
	}
	if ratio > sp.SectionProgressScorePercent {
		return tx.Model(&sp).
			Update("section_progress_score_percent", ratio).Error
	}
	return nil
}

func (s *MissionService) ListBySection(sectionID uuid.UUID) ([]missionModel.MissionModel, error) {
	var missions []missionModel.MissionModel
	if err := s.DB.
		Where("mission_section_id = ?", sectionID).
		Order("mission_created_at ASC").
		Find(&missions).Error; err != nil {
		return nil, err
	}
	return missions, nil
}
