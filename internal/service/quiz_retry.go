package service

import (
	"context"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/logger"

	"go.uber.org/zap"
)

// RetryQuiz restarts the attempt with the questions reordered and every
// question's options rebalanced. A passed attempt cannot be retried.
func (s *quizService) RetryQuiz(ctx context.Context, sessionID, lectureID string) (*domain.QuizState, error) {
	release, ok := s.guard.tryAcquire(guardKey(sessionID, lectureID))
	if !ok {
		return nil, domain.NewBusyError(lectureID)
	}
	defer release()

	state, err := s.store.Load(ctx, sessionID, lectureID)
	if err != nil {
		return nil, err
	}
	if state.Passed() {
		return nil, domain.NewConflictError("This quiz has already been passed")
	}

	questions := domain.ShuffleQuestions(state.Questions, s.rng)
	for i := range questions {
		questions[i] = domain.RebalanceQuestion(questions[i], s.rng)
	}
	fresh := domain.NewQuizState(questions, state.Language)

	if err := s.store.Save(ctx, sessionID, lectureID, fresh); err != nil {
		return nil, err
	}
	logger.Get().Info("Quiz retried",
		zap.String("session_id", sessionID),
		zap.String("lecture_id", lectureID),
		zap.Int("previous_correct", state.CorrectAnswers))

	s.publish(ctx, domain.EventRetried, sessionID, lectureID, fresh)
	return fresh, nil
}
