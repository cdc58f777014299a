package service

import (
	"errors"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	quizModel "unikurs_backend/internals/features/lms/quizzes/model"
)

// SessionSampler hands out the active attempt for a (user, quiz) pair.
//
// An existing open session is reused only when its stored ids, filtered down
// to questions that still exist, are exactly the wanted sample size. Any
// drift (questions deleted, pool shrunk, k changed) triggers a fresh random
// sample. The surviving list is written back either way, so the stored
// session always matches what the learner was shown.
type SessionSampler struct {
	DB *gorm.DB
}

func NewSessionSampler(db *gorm.DB) *SessionSampler {
	return &SessionSampler{DB: db}
}

// GetOrCreateActive returns the open session and its questions in session
// order.
func (s *SessionSampler) GetOrCreateActive(userID uuid.UUID, quiz *quizModel.QuizModel) (*quizModel.QuizSessionModel, []quizModel.QuestionModel, error) {
	var poolIDs []uuid.UUID
	if err := s.DB.Model(&quizModel.QuestionModel{}).
		Where("question_quiz_id = ?", quiz.QuizID).
		Order("question_created_at ASC").
		Pluck("question_id", &poolIDs).Error; err != nil {
		return nil, nil, err
	}

	k := quiz.QuizQuestionsCount
	if k > len(poolIDs) {
		k = len(poolIDs)
	}

	pool := make(map[uuid.UUID]struct{}, len(poolIDs))
	for _, id := range poolIDs {
		pool[id] = struct{}{}
	}

	var session quizModel.QuizSessionModel
	err := s.DB.
		Where("quiz_session_user_id = ? AND quiz_session_quiz_id = ? AND quiz_session_is_submitted = ?",
			userID, quiz.QuizID, false).
		Order("quiz_session_created_at DESC").
		First(&session).Error

	switch {
	case err == nil:
		valid := make([]uuid.UUID, 0, len(session.QuizSessionQuestionIDs))
		for _, id := range session.QuizSessionQuestionIDs {
			if _, ok := pool[id]; ok {
				valid = append(valid, id)
			}
		}
		if len(valid) != k {
			valid = sampleIDs(poolIDs, k)
			log.Printf("[SessionSampler] resampled session %s (user=%s quiz=%s k=%d)",
				session.QuizSessionID, userID, quiz.QuizID, k)
		}
		session.QuizSessionQuestionIDs = datatypes.NewJSONSlice(valid)
		if err := s.DB.Model(&session).
			Update("quiz_session_question_ids", session.QuizSessionQuestionIDs).Error; err != nil {
			return nil, nil, err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		session = quizModel.QuizSessionModel{
			QuizSessionUserID:      userID,
			QuizSessionQuizID:      quiz.QuizID,
			QuizSessionQuestionIDs: datatypes.NewJSONSlice(sampleIDs(poolIDs, k)),
		}
		if err := s.DB.Create(&session).Error; err != nil {
			return nil, nil, err
		}

	default:
		return nil, nil, err
	}

	questions, err := s.loadInOrder(session.QuizSessionQuestionIDs)
	if err != nil {
		return nil, nil, err
	}
	return &session, questions, nil
}

// loadInOrder fetches the questions and reorders them to the session's list;
// SQL IN gives no ordering guarantee.
func (s *SessionSampler) loadInOrder(ids []uuid.UUID) ([]quizModel.QuestionModel, error) {
	if len(ids) == 0 {
		return []quizModel.QuestionModel{}, nil
	}
	var rows []quizModel.QuestionModel
	if err := s.DB.Where("question_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]quizModel.QuestionModel, len(rows))
	for _, q := range rows {
		byID[q.QuestionID] = q
	}
	ordered := make([]quizModel.QuestionModel, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

func sampleIDs(pool []uuid.UUID, k int) []uuid.UUID {
	shuffled := make([]uuid.UUID, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:k]
}
