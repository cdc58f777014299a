package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionModel: fixed four-option single-answer format. `question_correct`
// holds the option slot ("1".."4"), never the option text, so editing option
// wording does not invalidate stored answers.
type QuestionModel struct {
	QuestionID     uuid.UUID `gorm:"column:question_id;type:uuid;primaryKey" json:"question_id"`
	QuestionQuizID uuid.UUID `gorm:"column:question_quiz_id;type:uuid;not null;index" json:"question_quiz_id"`

	QuestionText    string `gorm:"column:question_text;type:text;not null" json:"question_text"`
	QuestionOption1 string `gorm:"column:question_option1;type:text;not null" json:"question_option1"`
	QuestionOption2 string `gorm:"column:question_option2;type:text;not null" json:"question_option2"`
	QuestionOption3 string `gorm:"column:question_option3;type:text;not null" json:"question_option3"`
	QuestionOption4 string `gorm:"column:question_option4;type:text;not null" json:"question_option4"`
	QuestionCorrect string `gorm:"column:question_correct;type:varchar(1);not null" json:"-"`

	QuestionCreatedAt time.Time `gorm:"column:question_created_at;autoCreateTime" json:"question_created_at"`
	QuestionUpdatedAt time.Time `gorm:"column:question_updated_at;autoUpdateTime" json:"question_updated_at"`
}

func (QuestionModel) TableName() string { return "questions" }

func (m *QuestionModel) BeforeCreate(_ *gorm.DB) error {
	if m.QuestionID == uuid.Nil {
		m.QuestionID = uuid.New()
	}
	return nil
}
