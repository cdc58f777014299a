package dto

import (
	"github.com/google/uuid"

	quizModel "unikurs_backend/internals/features/lms/quizzes/model"
)

type CreateQuizRequest struct {
	QuizSectionID      uuid.UUID `json:"quiz_section_id" validate:"required"`
	QuizTitle          string    `json:"quiz_title" validate:"required,max=255"`
	QuizPassPercent    float64   `json:"quiz_pass_percent" validate:"omitempty,gt=0,lte=100"`
	QuizTimeLimit      int       `json:"quiz_time_limit" validate:"omitempty,gt=0"`
	QuizQuestionsCount int       `json:"quiz_questions_count" validate:"omitempty,gt=0"`
}

type UpdateQuizRequest struct {
	QuizTitle          *string  `json:"quiz_title" validate:"omitempty,max=255"`
	QuizPassPercent    *float64 `json:"quiz_pass_percent" validate:"omitempty,gt=0,lte=100"`
	QuizTimeLimit      *int     `json:"quiz_time_limit" validate:"omitempty,gt=0"`
	QuizQuestionsCount *int     `json:"quiz_questions_count" validate:"omitempty,gt=0"`
	QuizIsBlocked      *bool    `json:"quiz_is_blocked"`
}

type CreateQuestionRequest struct {
	QuestionQuizID  uuid.UUID `json:"question_quiz_id" validate:"required"`
	QuestionText    string    `json:"question_text" validate:"required"`
	QuestionOption1 string    `json:"question_option1" validate:"required"`
	QuestionOption2 string    `json:"question_option2" validate:"required"`
	QuestionOption3 string    `json:"question_option3" validate:"required"`
	QuestionOption4 string    `json:"question_option4" validate:"required"`
	QuestionCorrect string    `json:"question_correct" validate:"required,oneof=1 2 3 4"`
}

type UpdateQuestionRequest struct {
	QuestionText    *string `json:"question_text" validate:"omitempty"`
	QuestionOption1 *string `json:"question_option1"`
	QuestionOption2 *string `json:"question_option2"`
	QuestionOption3 *string `json:"question_option3"`
	QuestionOption4 *string `json:"question_option4"`
	QuestionCorrect *string `json:"question_correct" validate:"omitempty,oneof=1 2 3 4"`
}

type QuizAnswerInput struct {
	QuestionID uuid.UUID `json:"question_id" validate:"required"`
	Answer     string    `json:"answer" validate:"required,oneof=1 2 3 4"`
}

type SubmitQuizRequest struct {
	Answers []QuizAnswerInput `json:"answers" validate:"dive"`
}

// QuestionPublic is the learner-facing shape: the correct slot never leaves
// the server.
type QuestionPublic struct {
	QuestionID      uuid.UUID `json:"question_id"`
	QuestionText    string    `json:"question_text"`
	QuestionOption1 string    `json:"question_option1"`
	QuestionOption2 string    `json:"question_option2"`
	QuestionOption3 string    `json:"question_option3"`
	QuestionOption4 string    `json:"question_option4"`
}

func ToQuestionPublic(q *quizModel.QuestionModel) QuestionPublic {
	return QuestionPublic{
		QuestionID:      q.QuestionID,
		QuestionText:    q.QuestionText,
		QuestionOption1: q.QuestionOption1,
		QuestionOption2: q.QuestionOption2,
		QuestionOption3: q.QuestionOption3,
		QuestionOption4: q.QuestionOption4,
	}
}

type QuizAttemptResponse struct {
	QuizID          uuid.UUID        `json:"quiz_id"`
	QuizTitle       string           `json:"quiz_title"`
	QuizPassPercent float64          `json:"quiz_pass_percent"`
	QuizTimeLimit   int              `json:"quiz_time_limit"`
	QuizSessionID   uuid.UUID        `json:"quiz_session_id"`
	Questions       []QuestionPublic `json:"questions"`
	IsAccessible    bool             `json:"is_accessible"`
	UserResult      *QuizOutcome     `json:"user_result,omitempty"`
}

type QuizOutcome struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percent"`
	IsPassed bool    `json:"is_passed"`
}
