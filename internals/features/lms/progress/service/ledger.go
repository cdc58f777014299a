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
	certService "unikurs_backend/internals/features/lms/certificates/service"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
)

// ProgressLedger owns the per-user completion facts. Every write goes through
// one transaction: the video fact, the section recompute, the course recompute
// and the certificate check either all land or none do.
type ProgressLedger struct {
	DB    *gorm.DB
	Certs *certService.CertificateService
}

func NewProgressLedger(db *gorm.DB) *ProgressLedger {
	return &ProgressLedger{DB: db, Certs: certService.NewCertificateService(db)}
}

// LedgerSnapshot is what a mark/unmark call hands back to the controller.
type LedgerSnapshot struct {
	VideoID        uuid.UUID `json:"video_id"`
	IsCompleted    bool      `json:"is_completed"`
	SectionPercent float64   `json:"section_percent"`
	CoursePercent  int       `json:"course_percent"`
}

// MarkVideo records or retracts a completion fact. Marking runs through the
// access gate first, so a learner cannot watch ahead of the chain. Marking
// twice is a no-op, unmarking deletes the row, and both directions recompute
// the derived section and course percentages so the ledger never drifts.
func (l *ProgressLedger) MarkVideo(userID uuid.UUID, role string, videoID uuid.UUID, completed bool) (*LedgerSnapshot, error) {
	var snap *LedgerSnapshot
	err := l.DB.Transaction(func(tx *gorm.DB) error {
		var video catalogModel.VideoModel
		if err := tx.First(&video, "video_id = ?", videoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Video not found")
			}
			return err
		}

		var section catalogModel.SectionModel
		if err := tx.First(&section, "section_id = ?", video.VideoSectionID).Error; err != nil {
			return err
		}

		if completed {
			gate := &AccessGate{DB: tx}
			ok, err := gate.CanAccessVideo(userID, role, &video)
			if err != nil {
				return err
			}
			if !ok {
				return fiber.NewError(fiber.StatusForbidden, "Complete the previous video first")
			}
			if err := l.upsertVideoFact(tx, userID, videoID); err != nil {
				return err
			}
		} else {
			if err := tx.
				Where("video_progress_user_id = ? AND video_progress_video_id = ?", userID, videoID).
				Delete(&progressModel.VideoProgressModel{}).Error; err != nil {
				return err
			}
		}

		sectionPercent, err := recomputeSectionProgress(tx, userID, &section)
		if err != nil {
			return err
		}
		cp, err := recomputeCourseProgress(tx, userID, section.SectionCourseID)
		if err != nil {
			return err
		}
		if err := l.Certs.EnsureCertificate(tx, userID, section.SectionCourseID); err != nil {
			return err
		}

		snap = &LedgerSnapshot{
			VideoID:        videoID,
			IsCompleted:    completed,
			SectionPercent: sectionPercent,
			CoursePercent:  cp.CourseProgressPercent,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ProgressLedger] user=%s video=%s completed=%v section=%.0f%% course=%d%%",
		userID, videoID, completed, snap.SectionPercent, snap.CoursePercent)
	return snap, nil
}

func (l *ProgressLedger) upsertVideoFact(tx *gorm.DB, userID, videoID uuid.UUID) error {
	var existing progressModel.VideoProgressModel
	err := tx.
		Where("video_progress_user_id = ? AND video_progress_video_id = ?", userID, videoID).
		First(&existing).Error
	if err == nil {
		if existing.VideoProgressIsCompleted {
			return nil
		}
		now := time.Now()
		return tx.Model(&existing).Updates(map[string]interface{}{
			"video_progress_is_completed": true,
			"video_progress_completed_at": now,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now()
	return tx.Create(&progressModel.VideoProgressModel{
		VideoProgressUserID:      userID,
		VideoProgressVideoID:     videoID,
		VideoProgressIsCompleted: true,
		VideoProgressCompletedAt: &now,
	}).Error
}

// recomputeSectionProgress rewrites the video-route score for one section:
// floor(done/total*100). Crossing 100 completes the section and stamps
// completed_at once; dropping back below 100 un-completes it.
func recomputeSectionProgress(tx *gorm.DB, userID uuid.UUID, section *catalogModel.SectionModel) (float64, error) {
	var total int64
	if err := tx.Model(&catalogModel.VideoModel{}).
		Where("video_section_id = ?", section.SectionID).
		Count(&total).Error; err != nil {
		return 0, err
	}

	var done int64
	if err := tx.Model(&progressModel.VideoProgressModel{}).
		Joins("JOIN videos ON videos.video_id = video_progress.video_progress_video_id").
		Where("videos.video_section_id = ?", section.SectionID).
		Where("video_progress.video_progress_user_id = ? AND video_progress.video_progress_is_completed = ?", userID, true).
		Count(&done).Error; err != nil {
		return 0, err
	}

	// scale before dividing so exact ratios do not floor one short
	var percent float64
	if total > 0 {
		percent = math.Floor(float64(done*100) / float64(total))
	}

	var sp progressModel.SectionProgressModel
	err := tx.
		Where("section_progress_user_id = ? AND section_progress_section_id = ?", userID, section.SectionID).
		First(&sp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sp = progressModel.SectionProgressModel{
			SectionProgressUserID:    userID,
			SectionProgressSectionID: section.SectionID,
		}
		if err := tx.Create(&sp).Error; err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	updates := map[string]interface{}{
		"section_progress_score_percent": percent,
	}
	if percent >= 100 && !sp.SectionProgressIsCompleted {
		now := time.Now()
		updates["section_progress_is_completed"] = true
		updates["section_progress_completed_at"] = now
	} else if percent < 100 && sp.SectionProgressIsCompleted {
		updates["section_progress_is_completed"] = false
		updates["section_progress_completed_at"] = nil
	}
	if err := tx.Model(&sp).Updates(updates).Error; err != nil {
		return 0, err
	}
	return percent, nil
}

// recomputeCourseProgress rewrites the course percent from the count of
// completed sections: floor(completed/total*100).
func recomputeCourseProgress(tx *gorm.DB, userID, courseID uuid.UUID) (*progressModel.CourseProgressModel, error) {
	var total int64
	if err := tx.Model(&catalogModel.SectionModel{}).
		Where("section_course_id = ?", courseID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var done int64
	if err := tx.Model(&progressModel.SectionProgressModel{}).
		Joins("JOIN sections ON sections.section_id = section_progress.section_progress_section_id").
		Where("sections.section_course_id = ?", courseID).
		Where("section_progress.section_progress_user_id = ? AND section_progress.section_progress_is_completed = ?", userID, true).
		Count(&done).Error; err != nil {
		return nil, err
	}

	percent := 0
	if total > 0 {
		percent = int(math.Floor(float64(done*100) / float64(total)))
	}

	var cp progressModel.CourseProgressModel
	err := tx.
		Where("course_progress_user_id = ? AND course_progress_course_id = ?", userID, courseID).
		First(&cp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cp = progressModel.CourseProgressModel{
			CourseProgressUserID:   userID,
			CourseProgressCourseID: courseID,
		}
		if err := tx.Create(&cp).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"course_progress_percent": percent,
	}
	if percent >= 100 && !cp.CourseProgressIsCompleted {
		now := time.Now()
		updates["course_progress_is_completed"] = true
		updates["course_progress_completed_at"] = now
	} else if percent < 100 && cp.CourseProgressIsCompleted {
		updates["course_progress_is_completed"] = false
		updates["course_progress_completed_at"] = nil
	}
	if err := tx.Model(&cp).Updates(updates).Error; err != nil {
		return nil, err
	}

	cp.CourseProgressPercent = percent
	return &cp, nil
}
