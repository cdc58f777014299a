package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizSessionModel pins the sampled question set of one attempt. The ordered
// id list is stored explicitly, so the attempt a learner sees is exactly the
// attempt the grader scores, even if the question pool changes in between.
// A session is retired (is_submitted=true) exactly once.
type QuizSessionModel struct {
	QuizSessionID     uuid.UUID `gorm:"column:quiz_session_id;type:uuid;primaryKey" json:"quiz_session_id"`
	QuizSessionUserID uuid.UUID `gorm:"column:quiz_session_user_id;type:uuid;not null;index:idx_quiz_session_user_quiz" json:"quiz_session_user_id"`
	QuizSessionQuizID uuid.UUID `gorm:"column:quiz_session_quiz_id;type:uuid;not null;index:idx_quiz_session_user_quiz" json:"quiz_session_quiz_id"`

	QuizSessionQuestionIDs datatypes.JSONSlice[uuid.UUID] `gorm:"column:quiz_session_question_ids" json:"quiz_session_question_ids"`
	QuizSessionIsSubmitted bool                           `gorm:"column:quiz_session_is_submitted;not null;default:false" json:"quiz_session_is_submitted"`
	QuizSessionSubmittedAt *time.Time                     `gorm:"column:quiz_session_submitted_at" json:"quiz_session_submitted_at"`

	QuizSessionCreatedAt time.Time `gorm:"column:quiz_session_created_at;autoCreateTime" json:"quiz_session_created_at"`
	QuizSessionUpdatedAt time.Time `gorm:"column:quiz_session_updated_at;autoUpdateTime" json:"quiz_session_updated_at"`
}

func (QuizSessionModel) TableName() string { return "quiz_sessions" }

func (m *QuizSessionModel) BeforeCreate(_ *gorm.DB) error {
	if m.QuizSessionID == uuid.Nil {
		m.QuizSessionID = uuid.New()
	}
	return nil
}
