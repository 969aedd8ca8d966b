package domain

import (
	"context"
	"time"
)

// LanguageModel turns a prompt into free-form text.
type LanguageModel interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// QuizStateStore persists whole QuizState values keyed by session and lecture.
type QuizStateStore interface {
	// Load returns ErrNotFound when no state exists for the lecture.
	Load(ctx context.Context, sessionID, lectureID string) (*QuizState, error)
	// Save overwrites any prior value.
	Save(ctx context.Context, sessionID, lectureID string, state *QuizState) error
	Delete(ctx context.Context, sessionID, lectureID string) error
}

// LectureProvider supplies lecture text used to build generation prompts.
type LectureProvider interface {
	GetLecture(ctx context.Context, lectureID string) (*Lecture, error)
	// NextLecture returns nil when lecture is the last one in its course.
	NextLecture(ctx context.Context, courseID string, order int) (*Lecture, error)
}

type QuizEventPublisher interface {
	Publish(ctx context.Context, event QuizEvent) error
}

// Delayer paces the post-answer feedback dwell.
type Delayer interface {
	// Wait blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Wait(ctx context.Context, d time.Duration) error
}
