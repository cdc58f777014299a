package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizResultModel keeps a single mutable row per (user, quiz): each submit
// overwrites the previous outcome, there is no attempt history.
type QuizResultModel struct {
	QuizResultID     uuid.UUID `gorm:"column:quiz_result_id;type:uuid;primaryKey" json:"quiz_result_id"`
	QuizResultUserID uuid.UUID `gorm:"column:quiz_result_user_id;type:uuid;not null;uniqueIndex:uq_quiz_result_user_quiz" json:"quiz_result_user_id"`
	QuizResultQuizID uuid.UUID `gorm:"column:quiz_result_quiz_id;type:uuid;not null;uniqueIndex:uq_quiz_result_user_quiz" json:"quiz_result_quiz_id"`

	QuizResultCorrect  int     `gorm:"column:quiz_result_correct;not null;default:0" json:"quiz_result_correct"`
	QuizResultTotal    int     `gorm:"column:quiz_result_total;not null;default:0" json:"quiz_result_total"`
	QuizResultPercent  float64 `gorm:"column:quiz_result_percent;not null;default:0" json:"quiz_result_percent"`
	QuizResultIsPassed bool    `gorm:"column:quiz_result_is_passed;not null;default:false" json:"quiz_result_is_passed"`

	// attempt window: started_at mirrors the graded session's creation time
	QuizResultStartedAt  *time.Time `gorm:"column:quiz_result_started_at" json:"quiz_result_started_at"`
	QuizResultFinishedAt *time.Time `gorm:"column:quiz_result_finished_at" json:"quiz_result_finished_at"`

	QuizResultCreatedAt time.Time `gorm:"column:quiz_result_created_at;autoCreateTime" json:"quiz_result_created_at"`
	QuizResultUpdatedAt time.Time `gorm:"column:quiz_result_updated_at;autoUpdateTime" json:"quiz_result_updated_at"`
}

func (QuizResultModel) TableName() string { return "quiz_results" }

func (m *QuizResultModel) BeforeCreate(_ *gorm.DB) error {
	if m.QuizResultID == uuid.Nil {
		m.QuizResultID = uuid.New()
	}
	return nil
}
