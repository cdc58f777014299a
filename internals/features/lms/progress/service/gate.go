package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"unikurs_backend/internals/constants"
	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
)

// AccessGate decides reachability of videos, quizzes and missions for one
// user, purely from ordering + completion facts. The admin-set is_blocked
// flags are an authoring gate and are checked by the presentation layer, not
// here.
type AccessGate struct {
	DB *gorm.DB
}

func NewAccessGate(db *gorm.DB) *AccessGate {
	return &AccessGate{DB: db}
}

// CanAccessVideo: privileged roles always pass; the first video of a section
// is always open; otherwise the immediately preceding video (by order) must
// be completed. Misconfigured ordering fails closed.
func (g *AccessGate) CanAccessVideo(userID uuid.UUID, role string, video *catalogModel.VideoModel) (bool, error) {
	if constants.IsPrivileged(role) {
		return true, nil
	}
	if userID == uuid.Nil {
		return false, nil
	}

	var first catalogModel.VideoModel
	err := g.DB.
		Where("video_section_id = ?", video.VideoSectionID).
		Order("video_order ASC").
		First(&first).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if first.VideoID == video.VideoID {
		return true, nil
	}

	var prev catalogModel.VideoModel
	err = g.DB.
		Where("video_section_id = ? AND video_order < ?", video.VideoSectionID, video.VideoOrder).
		Order("video_order DESC").
		First(&prev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return g.isVideoCompleted(userID, prev.VideoID)
}

// CanAccessQuiz: every video of the quiz's section must be completed. This is
// a section-level gate, not a chain walk.
func (g *AccessGate) CanAccessQuiz(userID uuid.UUID, role string, sectionID uuid.UUID) (bool, error) {
	if constants.IsPrivileged(role) {
		return true, nil
	}
	if userID == uuid.Nil {
		return false, nil
	}

	var total int64
	if err := g.DB.Model(&catalogModel.VideoModel{}).
		Where("video_section_id = ?", sectionID).
		Count(&total).Error; err != nil {
		return false, err
	}

	var done int64
	if err := g.DB.Model(&progressModel.VideoProgressModel{}).
		Joins("JOIN videos ON videos.video_id = video_progress.video_progress_video_id").
		Where("videos.video_section_id = ?", sectionID).
		Where("video_progress.video_progress_user_id = ? AND video_progress.video_progress_is_completed = ?", userID, true).
		Count(&done).Error; err != nil {
		return false, err
	}

	return done >= total, nil
}

// CanAccessMissions: coarse gate. Finishing the section's last-ordered video
// unlocks all of its missions at once.
func (g *AccessGate) CanAccessMissions(userID uuid.UUID, role string, sectionID uuid.UUID) (bool, error) {
	if constants.IsPrivileged(role) {
		return true, nil
	}
	if userID == uuid.Nil {
		return false, nil
	}

	var last catalogModel.VideoModel
	err := g.DB.
		Where("video_section_id = ?", sectionID).
		Order("video_order DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return g.isVideoCompleted(userID, last.VideoID)
}

func (g *AccessGate) isVideoCompleted(userID, videoID uuid.UUID) (bool, error) {
	var n int64
	err := g.DB.Model(&progressModel.VideoProgressModel{}).
		Where("video_progress_user_id = ? AND video_progress_video_id = ? AND video_progress_is_completed = ?",
			userID, videoID, true).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
