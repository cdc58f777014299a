package service

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	certService "unikurs_backend/internals/features/lms/certificates/service"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
)

// UnlockCascade runs after a section is earned (quiz passed, or enough
// missions approved): it completes the section for the user and flips the
// course-level is_blocked flags on the next section and its first video.
// The flags are shared content state, so the first learner through unlocks
// the path for everyone. Flipping is monotonic, nothing here re-blocks.
type UnlockCascade struct {
	DB    *gorm.DB
	Certs *certService.CertificateService
}

func NewUnlockCascade(db *gorm.DB) *UnlockCascade {
	return &UnlockCascade{DB: db, Certs: certService.NewCertificateService(db)}
}

// CompleteSection must run inside the caller's transaction: graders and
// mission approvals call it as the last step of their own atomic write.
func (u *UnlockCascade) CompleteSection(tx *gorm.DB, userID uuid.UUID, section *catalogModel.SectionModel) error {
	if err := u.markSectionComplete(tx, userID, section.SectionID); err != nil {
		return err
	}
	if err := u.unblockNext(tx, section); err != nil {
		return err
	}
	if _, err := recomputeCourseProgress(tx, userID, section.SectionCourseID); err != nil {
		return err
	}
	return u.Certs.EnsureCertificate(tx, userID, section.SectionCourseID)
}

func (u *UnlockCascade) markSectionComplete(tx *gorm.DB, userID, sectionID uuid.UUID) error {
	var sp progressModel.SectionProgressModel
	err := tx.
		Where("section_progress_user_id = ? AND section_progress_section_id = ?", userID, sectionID).
		First(&sp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := time.Now()
		return tx.Create(&progressModel.SectionProgressModel{
			SectionProgressUserID:      userID,
			SectionProgressSectionID:   sectionID,
			SectionProgressIsCompleted: true,
			SectionProgressCompletedAt: &now,
		}).Error
	}
	if err != nil {
		return err
	}
	if sp.SectionProgressIsCompleted {
		return nil
	}
	now := time.Now()
	return tx.Model(&sp).Updates(map[string]interface{}{
		"section_progress_is_completed": true,
		"section_progress_completed_at": now,
	}).Error
}

func (u *UnlockCascade) unblockNext(tx *gorm.DB, section *catalogModel.SectionModel) error {
	var next catalogModel.SectionModel
	err := tx.
		Where("section_course_id = ? AND section_order > ?", section.SectionCourseID, section.SectionOrder).
		Order("section_order ASC").
		First(&next).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // last section of the course
		}
		return err
	}

	if next.SectionIsBlocked {
		if err := tx.Model(&next).
			Update("section_is_blocked", false).Error; err != nil {
			return err
		}
		log.Printf("[UnlockCascade] unblocked section %s (course=%s order=%d)",
			next.SectionID, next.SectionCourseID, next.SectionOrder)
	}

	var firstVideo catalogModel.VideoModel
	err = tx.
		Where("video_section_id = ?", next.SectionID).
		Order("video_order ASC").
		First(&firstVideo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // section has no videos yet
		}
		return err
	}
	if firstVideo.VideoIsBlocked {
		if err := tx.Model(&firstVideo).
			Update("video_is_blocked", false).Error; err != nil {
			return err
		}
	}
	return nil
}
