package domain

import "time"

type QuizEventKind string

const (
	EventGenerated QuizEventKind = "quiz.generated"
	EventAnswered  QuizEventKind = "quiz.answered"
	EventFinished  QuizEventKind = "quiz.finished"
	EventRetried   QuizEventKind = "quiz.retried"
)

// QuizEvent is a change notification about one lecture's quiz state.
// Passed is only meaningful for EventFinished.
type QuizEvent struct {
	Kind            QuizEventKind `json:"kind"`
	SessionID       string        `json:"session_id"`
	LectureID       string        `json:"lecture_id"`
	CurrentQuestion int           `json:"current_question"`
	CorrectAnswers  int           `json:"correct_answers"`
	TotalQuestions  int           `json:"total_questions"`
	Completed       bool          `json:"completed"`
	Passed          bool          `json:"passed"`
	OccurredAt      time.Time     `json:"occurred_at"`
}

// NewQuizEvent snapshots state counters into an event.
func NewQuizEvent(kind QuizEventKind, sessionID, lectureID string, state *QuizState, at time.Time) QuizEvent {
	return QuizEvent{
		Kind:            kind,
		SessionID:       sessionID,
		LectureID:       lectureID,
		CurrentQuestion: state.CurrentQuestion,
		CorrectAnswers:  state.CorrectAnswers,
		TotalQuestions:  len(state.Questions),
		Completed:       state.Completed,
		Passed:          state.Passed(),
		OccurredAt:      at,
	}
}
