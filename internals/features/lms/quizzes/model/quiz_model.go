package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizModel is one-per-section. `quiz_questions_count` is the sample size k
// requested per attempt; the sampler clamps it to the actual pool size.
type QuizModel struct {
	QuizID        uuid.UUID `gorm:"column:quiz_id;type:uuid;primaryKey" json:"quiz_id"`
	QuizSectionID uuid.UUID `gorm:"column:quiz_section_id;type:uuid;not null;uniqueIndex" json:"quiz_section_id"`

	QuizTitle          string  `gorm:"column:quiz_title;type:varchar(255);not null" json:"quiz_title"`
	QuizPassPercent    float64 `gorm:"column:quiz_pass_percent;not null;default:60" json:"quiz_pass_percent"`
	QuizTimeLimit      int     `gorm:"column:quiz_time_limit;not null;default:15" json:"quiz_time_limit"`
	QuizQuestionsCount int     `gorm:"column:quiz_questions_count;not null;default:10" json:"quiz_questions_count"`
	QuizIsBlocked      bool    `gorm:"column:quiz_is_blocked;not null;default:false" json:"quiz_is_blocked"`

	QuizCreatedAt time.Time `gorm:"column:quiz_created_at;autoCreateTime" json:"quiz_created_at"`
	QuizUpdatedAt time.Time `gorm:"column:quiz_updated_at;autoUpdateTime" json:"quiz_updated_at"`
}

func (QuizModel) TableName() string { return "quizzes" }

func (m *QuizModel) BeforeCreate(_ *gorm.DB) error {
	if m.QuizID == uuid.Nil {
		m.QuizID = uuid.New()
	}
	if m.QuizPassPercent == 0 {
		m.QuizPassPercent = 60
	}
	if m.QuizQuestionsCount == 0 {
		m.QuizQuestionsCount = 10
	}
	if m.QuizTimeLimit == 0 {
		m.QuizTimeLimit = 15
	}
	return nil
}
