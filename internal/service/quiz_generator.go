package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/logger"

	"go.uber.org/zap"
)

// GenerateInput is the lecture material a quiz is generated from. When both
// texts are empty they are loaded from the lecture provider, if one is set.
type GenerateInput struct {
	Content    string
	Transcript string
	Language   domain.Language
}

// GenerateQuiz builds a fresh question set and replaces any stored attempt.
// Identical concurrent requests share one model call; any other operation on
// the same lecture while generation runs fails with a BusyError.
func (s *quizService) GenerateQuiz(ctx context.Context, sessionID, lectureID string, in GenerateInput) (*domain.QuizState, error) {
	if in.Language == "" {
		in.Language = domain.LanguageEnglish
	}
	if !in.Language.Valid() {
		return nil, domain.NewInputError(fmt.Sprintf("Unsupported language: %s", in.Language))
	}

	ch := s.flight.DoChan(flightKey(sessionID, lectureID, in), func() (interface{}, error) {
		release, ok := s.guard.tryAcquire(guardKey(sessionID, lectureID))
		if !ok {
			return nil, domain.NewBusyError(lectureID)
		}
		defer release()
		// Waiters share this result, so one caller leaving must not abort it.
		return s.generate(context.WithoutCancel(ctx), sessionID, lectureID, in)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.QuizState).Clone(), nil
	}
}

func (s *quizService) generate(ctx context.Context, sessionID, lectureID string, in GenerateInput) (*domain.QuizState, error) {
	log := logger.Get().With(
		zap.String("session_id", sessionID),
		zap.String("lecture_id", lectureID),
		zap.String("language", string(in.Language)))

	content, transcript, err := s.resolveMaterial(ctx, lectureID, in)
	if err != nil {
		return nil, err
	}

	prompt := buildGenerationPrompt(
		truncateRunes(content, s.cfg.ContentLimit),
		truncateRunes(transcript, s.cfg.TranscriptLimit),
		in.Language,
		s.cfg.QuestionCount,
	)

	log.Info("Generating quiz questions")
	text, err := s.complete(ctx, prompt)
	if err != nil {
		log.Error("Language model call failed", zap.Error(err))
		return nil, err
	}

	questions, err := ParseQuestionSet(text, s.cfg.QuestionCount)
	if err != nil {
		log.Error("Failed to parse generated questions", zap.Error(err), zap.Int("response_length", len(text)))
		return nil, err
	}

	rebalanced := 0
	for i := range questions {
		if s.rng.Float64() < s.cfg.RebalanceProbability {
			questions[i] = domain.RebalanceQuestion(questions[i], s.rng)
			rebalanced++
		}
	}

	state := domain.NewQuizState(questions, in.Language)
	if err := s.store.Save(ctx, sessionID, lectureID, state); err != nil {
		return nil, err
	}
	log.Info("Quiz generated",
		zap.Int("questions", len(questions)),
		zap.Int("rebalanced", rebalanced),
		zap.Ints("correct_positions", correctPositions(questions)))

	s.publish(ctx, domain.EventGenerated, sessionID, lectureID, state)
	return state, nil
}

func (s *quizService) resolveMaterial(ctx context.Context, lectureID string, in GenerateInput) (string, string, error) {
	content := strings.TrimSpace(in.Content)
	transcript := strings.TrimSpace(in.Transcript)
	if content == "" && transcript == "" && s.lectures != nil {
		lecture, err := s.lectures.GetLecture(ctx, lectureID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "", "", err
			}
			return "", "", domain.NewInternalError("Failed to load lecture content", err)
		}
		content = strings.TrimSpace(lecture.Content)
		transcript = strings.TrimSpace(lecture.Transcript)
	}
	if content == "" && transcript == "" {
		return "", "", domain.NewInputError("No lecture content or transcript available")
	}
	return content, transcript, nil
}

type completion struct {
	text string
	err  error
}

// complete races the model call against the generation timeout. A result that
// arrives after the deadline lands in the buffered channel and is dropped.
func (s *quizService) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.GenerationTimeout)
	defer cancel()

	done := make(chan completion, 1)
	go func() {
		text, err := s.model.Complete(ctx, generationSystemPrompt, prompt)
		done <- completion{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", domain.NewTimeoutError(s.cfg.GenerationTimeout, ctx.Err())
		}
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				return "", domain.NewTimeoutError(s.cfg.GenerationTimeout, res.err)
			}
			return "", domain.NewServiceError("Failed to get response from AI service", res.err)
		}
		if strings.TrimSpace(res.text) == "" {
			return "", domain.NewServiceError("No response from AI service", nil)
		}
		return res.text, nil
	}
}

// flightKey identifies identical generation requests.
func flightKey(sessionID, lectureID string, in GenerateInput) string {
	h := fnv.New64a()
	h.Write([]byte(in.Content))
	h.Write([]byte{0})
	h.Write([]byte(in.Transcript))
	return fmt.Sprintf("%s:%s:%s:%x", sessionID, lectureID, in.Language, h.Sum64())
}

func correctPositions(questions []domain.Question) []int {
	counts := make([]int, domain.OptionsPerQuestion)
	for _, q := range questions {
		counts[q.CorrectIndex]++
	}
	return counts
}
