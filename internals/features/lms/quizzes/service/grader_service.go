package service

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	progressService "unikurs_backend/internals/features/lms/progress/service"
	"unikurs_backend/internals/features/lms/quizzes/dto"
	quizModel "unikurs_backend/internals/features/lms/quizzes/model"
)

// QuizGrader scores a submission against the learner's open session. The
// session, not the request, defines what counts: answers for questions
// outside the session are rejected, omitted questions score as incorrect,
// and the session is retired exactly once.
type QuizGrader struct {
	DB      *gorm.DB
	Cascade *progressService.UnlockCascade
}

func NewQuizGrader(db *gorm.DB) *QuizGrader {
	return &QuizGrader{DB: db, Cascade: progressService.NewUnlockCascade(db)}
}

func (g *QuizGrader) Submit(userID, quizID uuid.UUID, answers []dto.QuizAnswerInput) (*dto.QuizOutcome, error) {
	var outcome *dto.QuizOutcome
	err := g.DB.Transaction(func(tx *gorm.DB) error {
		var quiz quizModel.QuizModel
		if err := tx.First(&quiz, "quiz_id = ?", quizID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Quiz not found")
			}
			return err
		}

		var session quizModel.QuizSessionModel
		err := tx.
			Where("quiz_session_user_id = ? AND quiz_session_quiz_id = ? AND quiz_session_is_submitted = ?",
				userID, quizID, false).
			Order("quiz_session_created_at DESC").
			First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "No active quiz session")
			}
			return err
		}

		sessionSet := make(map[uuid.UUID]struct{}, len(session.QuizSessionQuestionIDs))
		for _, id := range session.QuizSessionQuestionIDs {
			sessionSet[id] = struct{}{}
		}

		picked := make(map[uuid.UUID]string, len(answers))
		for _, a := range answers {
			if _, ok := sessionSet[a.QuestionID]; !ok {
				return fiber.NewError(fiber.StatusBadRequest, "Answer references a question outside the session")
			}
			if _, dup := picked[a.QuestionID]; dup {
				return fiber.NewError(fiber.StatusBadRequest, "Duplicate answer for a question")
			}
			picked[a.QuestionID] = a.Answer
		}

		total := len(session.QuizSessionQuestionIDs)
		correct := 0
		if total > 0 {
			var questions []quizModel.QuestionModel
			if err := tx.
				Where("question_id IN ?", []uuid.UUID(session.QuizSessionQuestionIDs)).
				Find(&questions).Error; err != nil {
				return err
			}
			for _, q := range questions {
				if ans, ok := picked[q.QuestionID]; ok && ans == q.QuestionCorrect {
					correct++
				}
			}
		}

		// scale before dividing so exact ratios stay exact in float64
		percent := 0.0
		if total > 0 {
			percent = float64(correct*100) / float64(total)
		}
		passed := percent >= quiz.QuizPassPercent
		finishedAt := time.Now()

		if err := g.upsertResult(tx, userID, quizID, correct, total, percent, passed,
			session.QuizSessionCreatedAt, finishedAt); err != nil {
			return err
		}

		// compare-and-set retirement: a concurrent submit of the same
		// session loses here instead of double-counting
		res := tx.Model(&quizModel.QuizSessionModel{}).
			Where("quiz_session_id = ? AND quiz_session_is_submitted = ?", session.QuizSessionID, false).
			Updates(map[string]interface{}{
				"quiz_session_is_submitted": true,
				"quiz_session_submitted_at": finishedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "Quiz session already submitted")
		}

		if passed {
			var section catalogModel.SectionModel
			if err := tx.First(&section, "section_id = ?", quiz.QuizSectionID).Error; err != nil {
				return err
			}
			if err := g.Cascade.CompleteSection(tx, userID, &section); err != nil {
				return err
			}
		}

		outcome = &dto.QuizOutcome{
			Correct:  correct,
			Total:    total,
			Percent:  percent,
			IsPassed: passed,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[QuizGrader] user=%s quiz=%s %d/%d (%.1f%%) passed=%v",
		userID, quizID, outcome.Correct, outcome.Total, outcome.Percent, outcome.IsPassed)
	return outcome, nil
}

func (g *QuizGrader) upsertResult(tx *gorm.DB, userID, quizID uuid.UUID, correct, total int, percent float64, passed bool, startedAt, finishedAt time.Time) error {
	var existing quizModel.QuizResultModel
	err := tx.
		Where("quiz_result_user_id = ? AND quiz_result_quiz_id = ?", userID, quizID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&quizModel.QuizResultModel{
			QuizResultUserID:     userID,
			QuizResultQuizID:     quizID,
			QuizResultCorrect:    correct,
			QuizResultTotal:      total,
			QuizResultPercent:    percent,
			QuizResultIsPassed:   passed,
			QuizResultStartedAt:  &startedAt,
			QuizResultFinishedAt: &finishedAt,
		}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&existing).Updates(map[string]interface{}{
		"quiz_result_correct":     correct,
		"quiz_result_total":       total,
		"quiz_result_percent":     percent,
		"quiz_result_is_passed":   passed,
		"quiz_result_started_at":  startedAt,
		"quiz_result_finished_at": finishedAt,
	}).Error
}
