package service

import (
	"context"
	"math/rand"
	"time"

	"lecture-quiz/internal/config"
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizService runs the quiz lifecycle for one browsing session per lecture:
// generation, turn-by-turn answering, retry and discard.
type QuizService interface {
	GenerateQuiz(ctx context.Context, sessionID, lectureID string, in GenerateInput) (*domain.QuizState, error)
	GetQuiz(ctx context.Context, sessionID, lectureID string) (*domain.QuizState, error)
	SubmitAnswer(ctx context.Context, sessionID, lectureID string, selectedIndex int, onFeedback FeedbackFunc) (*AnswerOutcome, error)
	RetryQuiz(ctx context.Context, sessionID, lectureID string) (*domain.QuizState, error)
	DiscardQuiz(ctx context.Context, sessionID, lectureID string) error
}

type quizService struct {
	store    domain.QuizStateStore
	model    domain.LanguageModel
	lectures domain.LectureProvider
	events   domain.QuizEventPublisher
	cfg      config.QuizConfig

	delayer domain.Delayer
	rng     domain.Randomizer
	now     func() time.Time

	guard  *keyGuard
	flight singleflight.Group
}

// Option customizes a quiz service.
type Option func(*quizService)

// WithDelayer replaces the feedback dwell timer.
func WithDelayer(d domain.Delayer) Option {
	return func(s *quizService) { s.delayer = d }
}

// WithRand seeds shuffling from r. r is wrapped for concurrent use.
func WithRand(r *rand.Rand) Option {
	return func(s *quizService) { s.rng = &lockedRand{r: r} }
}

func WithClock(now func() time.Time) Option {
	return func(s *quizService) { s.now = now }
}

// NewQuizService wires the quiz engine. lectures and events may be nil.
func NewQuizService(
	store domain.QuizStateStore,
	model domain.LanguageModel,
	lectures domain.LectureProvider,
	events domain.QuizEventPublisher,
	cfg config.QuizConfig,
	opts ...Option,
) QuizService {
	s := &quizService{
		store:    store,
		model:    model,
		lectures: lectures,
		events:   events,
		cfg:      cfg,
		delayer:  TimerDelayer{},
		rng:      &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))},
		now:      time.Now,
		guard:    newKeyGuard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.QuestionCount <= 0 {
		s.cfg.QuestionCount = domain.QuestionsPerQuiz
	}
	return s
}

func (s *quizService) GetQuiz(ctx context.Context, sessionID, lectureID string) (*domain.QuizState, error) {
	return s.store.Load(ctx, sessionID, lectureID)
}

// DiscardQuiz drops the stored attempt. Discarding a missing quiz is not an error.
func (s *quizService) DiscardQuiz(ctx context.Context, sessionID, lectureID string) error {
	release, ok := s.guard.tryAcquire(guardKey(sessionID, lectureID))
	if !ok {
		return domain.NewBusyError(lectureID)
	}
	defer release()

	if err := s.store.Delete(ctx, sessionID, lectureID); err != nil {
		return err
	}
	logger.Get().Info("Quiz discarded",
		zap.String("session_id", sessionID),
		zap.String("lecture_id", lectureID))
	return nil
}

func (s *quizService) publish(ctx context.Context, kind domain.QuizEventKind, sessionID, lectureID string, state *domain.QuizState) {
	if s.events == nil {
		return
	}
	event := domain.NewQuizEvent(kind, sessionID, lectureID, state, s.now().UTC())
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Get().Warn("Failed to publish quiz event",
			zap.String("kind", string(kind)),
			zap.String("session_id", sessionID),
			zap.String("lecture_id", lectureID),
			zap.Error(err))
	}
}

func guardKey(sessionID, lectureID string) string {
	return sessionID + ":" + lectureID
}
