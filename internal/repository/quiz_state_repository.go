package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"lecture-quiz/internal/cache"
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/logger"

	"go.uber.org/zap"
)

type quizStateRepository struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewQuizStateRepository stores whole QuizState values as JSON in cache.
// Every write refreshes the TTL; expiry is the store's eviction path.
func NewQuizStateRepository(c domain.Cache, ttl time.Duration) domain.QuizStateStore {
	return &quizStateRepository{cache: c, ttl: ttl}
}

func (r *quizStateRepository) Load(ctx context.Context, sessionID, lectureID string) (*domain.QuizState, error) {
	raw, err := r.cache.Get(ctx, cache.QuizStateKey(sessionID, lectureID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewNotFoundError("No test found. Please generate a test first.")
		}
		return nil, domain.NewInternalError("Failed to load test data", err)
	}

	var state domain.QuizState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logger.Get().Error("Stored quiz state is not valid JSON",
			zap.String("session_id", sessionID),
			zap.String("lecture_id", lectureID),
			zap.Error(err))
		return nil, domain.NewInternalError("Failed to load test data. Please try generating the test again.", err)
	}
	// States written before the language selector existed carry no language.
	if state.Language == "" {
		state.Language = domain.LanguageEnglish
	}
	if err := state.Validate(); err != nil {
		return nil, domain.NewInternalError("Failed to load test data. Please try generating the test again.", err)
	}
	return &state, nil
}

func (r *quizStateRepository) Save(ctx context.Context, sessionID, lectureID string, state *domain.QuizState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return domain.NewInternalError("Failed to encode test data", err)
	}
	if err := r.cache.Set(ctx, cache.QuizStateKey(sessionID, lectureID), string(payload), r.ttl); err != nil {
		return domain.NewInternalError("Failed to store test data", err)
	}
	return nil
}

func (r *quizStateRepository) Delete(ctx context.Context, sessionID, lectureID string) error {
	if err := r.cache.Delete(ctx, cache.QuizStateKey(sessionID, lectureID)); err != nil {
		return domain.NewInternalError("Failed to delete test data", err)
	}
	return nil
}
