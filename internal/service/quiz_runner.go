package service

import (
	"context"
	"fmt"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/logger"

	"go.uber.org/zap"
)

// AnswerFeedback is shown to the learner before the answer is committed.
type AnswerFeedback struct {
	QuestionIndex int
	SelectedIndex int
	CorrectIndex  int
	Correct       bool
	Explanation   string
	Verdict       string
}

// FeedbackFunc receives feedback as soon as the answer is graded.
type FeedbackFunc func(AnswerFeedback)

// AnswerOutcome is the committed result of one submission.
type AnswerOutcome struct {
	Feedback AnswerFeedback
	State    *domain.QuizState
	Finished bool
	Passed   bool
	// NextLectureID is set on a passed attempt when a following lecture exists.
	NextLectureID string
}

// SubmitAnswer grades selectedIndex against the current question, holds the
// feedback for the configured dwell and then persists the advanced state.
// Cancelling ctx during the dwell abandons the submission without a write.
func (s *quizService) SubmitAnswer(ctx context.Context, sessionID, lectureID string, selectedIndex int, onFeedback FeedbackFunc) (*AnswerOutcome, error) {
	release, ok := s.guard.tryAcquire(guardKey(sessionID, lectureID))
	if !ok {
		return nil, domain.NewBusyError(lectureID)
	}
	defer release()

	state, err := s.store.Load(ctx, sessionID, lectureID)
	if err != nil {
		return nil, err
	}
	if state.Completed {
		return nil, domain.NewInputError("This quiz is already completed")
	}

	question := state.Current()
	if selectedIndex < 0 || selectedIndex >= len(question.Options) {
		return nil, domain.NewInputError(fmt.Sprintf("Selected option %d is out of range", selectedIndex)).
			WithContext("options", len(question.Options))
	}

	correct := selectedIndex == question.CorrectIndex
	feedback := AnswerFeedback{
		QuestionIndex: state.CurrentQuestion,
		SelectedIndex: selectedIndex,
		CorrectIndex:  question.CorrectIndex,
		Correct:       correct,
		Explanation:   question.Explanation,
		Verdict:       domain.FeedbackVerdict(state.Language, correct),
	}
	if onFeedback != nil {
		onFeedback(feedback)
	}

	if err := s.delayer.Wait(ctx, s.cfg.FeedbackDwell); err != nil {
		logger.Get().Info("Answer submission abandoned during feedback",
			zap.String("session_id", sessionID),
			zap.String("lecture_id", lectureID),
			zap.Int("question", state.CurrentQuestion))
		return nil, fmt.Errorf("answer submission cancelled: %w", err)
	}

	next := state.Clone()
	if correct {
		next.CorrectAnswers++
	}
	if next.IsLastQuestion() {
		next.Completed = true
	} else {
		next.CurrentQuestion++
	}

	if err := s.store.Save(ctx, sessionID, lectureID, next); err != nil {
		return nil, err
	}

	outcome := &AnswerOutcome{
		Feedback: feedback,
		State:    next,
		Finished: next.Completed,
		Passed:   next.Passed(),
	}

	s.publish(ctx, domain.EventAnswered, sessionID, lectureID, next)
	if outcome.Finished {
		logger.Get().Info("Quiz finished",
			zap.String("session_id", sessionID),
			zap.String("lecture_id", lectureID),
			zap.Int("correct_answers", next.CorrectAnswers),
			zap.Bool("passed", outcome.Passed))
		s.publish(ctx, domain.EventFinished, sessionID, lectureID, next)
	}
	if outcome.Passed {
		outcome.NextLectureID = s.nextLectureID(ctx, lectureID)
	}
	return outcome, nil
}

func (s *quizService) nextLectureID(ctx context.Context, lectureID string) string {
	if s.lectures == nil {
		return ""
	}
	current, err := s.lectures.GetLecture(ctx, lectureID)
	if err != nil {
		logger.Get().Warn("Failed to look up lecture for next-lecture hint",
			zap.String("lecture_id", lectureID), zap.Error(err))
		return ""
	}
	next, err := s.lectures.NextLecture(ctx, current.CourseID, current.Order)
	if err != nil {
		logger.Get().Warn("Failed to look up next lecture",
			zap.String("lecture_id", lectureID), zap.Error(err))
		return ""
	}
	if next == nil {
		return ""
	}
	return next.ID
}
