package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/dto"
	"lecture-quiz/internal/handler"
	"lecture-quiz/internal/middleware"
	"lecture-quiz/internal/service"
	"lecture-quiz/internal/util"
	"lecture-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSession = "01HGZ8VNRYXS8QKNJV5GRWPWDQ"

// --- Manual Mocks ---

// MockQuizService
type MockQuizService struct {
	GenerateQuizFunc func(ctx context.Context, sessionID, lectureID string, in service.GenerateInput) (*domain.QuizState, error)
	GetQuizFunc      func(ctx context.Context, sessionID, lectureID string) (*domain.QuizState, error)
	SubmitAnswerFunc func(ctx context.Context, sessionID, lectureID string, selectedIndex int, onFeedback service.FeedbackFunc) (*service.AnswerOutcome, error)
	RetryQuizFunc    func(ctx context.Context, sessionID, lectureID string) (*domain.QuizState, error)
	DiscardQuizFunc  func(ctx context.Context, sessionID, lectureID string) error
}

func (m *MockQuizService) GenerateQuiz(ctx context.Context, sessionID, lectureID string, in service.GenerateInput) (*domain.QuizState, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, sessionID, lectureID, in)
	}
	panic("MockQuizService.GenerateQuizFunc not implemented")
}

func (m *MockQuizService) GetQuiz(ctx context.Context, sessionID, lectureID string) (*domain.QuizState, error) {
	if m.GetQuizFunc != nil {
		return m.GetQuizFunc(ctx, sessionID, lectureID)
	}
	panic("MockQuizService.GetQuizFunc not implemented")
}

func (m *MockQuizService) SubmitAnswer(ctx context.Context, sessionID, lectureID string, selectedIndex int, onFeedback service.FeedbackFunc) (*service.AnswerOutcome, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, sessionID, lectureID, selectedIndex, onFeedback)
	}
	panic("MockQuizService.SubmitAnswerFunc not implemented")
}

func (m *MockQuizService) RetryQuiz(ctx context.Context, sessionID, lectureID string) (*domain.QuizState, error) {
	if m.RetryQuizFunc != nil {
		return m.RetryQuizFunc(ctx, sessionID, lectureID)
	}
	panic("MockQuizService.RetryQuizFunc not implemented")
}

func (m *MockQuizService) DiscardQuiz(ctx context.Context, sessionID, lectureID string) error {
	if m.DiscardQuizFunc != nil {
		return m.DiscardQuizFunc(ctx, sessionID, lectureID)
	}
	panic("MockQuizService.DiscardQuizFunc not implemented")
}

// stubCache satisfies domain.Cache for the health endpoint.
type stubCache struct {
	pingErr error
}

func (s *stubCache) Get(context.Context, string) (string, error) { return "", domain.ErrCacheMiss }
func (s *stubCache) Set(context.Context, string, string, time.Duration) error {
	return nil
}
func (s *stubCache) Delete(context.Context, string) error { return nil }
func (s *stubCache) Ping(context.Context) error           { return s.pingErr }

func sampleState(lang domain.Language) *domain.QuizState {
	questions := make([]domain.Question, domain.QuestionsPerQuiz)
	for i := range questions {
		questions[i] = domain.Question{
			Text:         "What does TCP guarantee?",
			Options:      []string{"Ordering", "Low latency", "Broadcast", "Encryption"},
			CorrectIndex: 0,
			Explanation:  "TCP delivers bytes in order.",
		}
	}
	return domain.NewQuizState(questions, lang)
}

func newTestApp(svc service.QuizService, store domain.Cache) *fiber.App {
	v := validation.NewValidator()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app, handler.NewQuizHandler(svc, v), handler.NewSessionHandler(store), v)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.SessionHeader, validSession)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestQuizHandler_GenerateQuiz(t *testing.T) {
	mockSvc := &MockQuizService{
		GenerateQuizFunc: func(ctx context.Context, sessionID, lectureID string, in service.GenerateInput) (*domain.QuizState, error) {
			assert.Equal(t, validSession, sessionID)
			assert.Equal(t, "lecture-1", lectureID)
			assert.Equal(t, "Lecture body", in.Content)
			assert.Equal(t, domain.LanguageIndonesian, in.Language)
			return sampleState(domain.LanguageIndonesian), nil
		},
	}
	app := newTestApp(mockSvc, &stubCache{})

	resp := doRequest(t, app, http.MethodPost, "/api/lectures/lecture-1/quiz", dto.GenerateQuizRequest{
		Content:  "Lecture body",
		Language: "id",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct_index")
	assert.NotContains(t, string(raw), "correctIndex")
	assert.NotContains(t, string(raw), "TCP delivers bytes in order.")

	var body dto.QuizResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "lecture-1", body.LectureID)
	assert.Equal(t, 10, body.TotalQuestions)
	require.NotNil(t, body.Question)
	assert.Equal(t, "Pertanyaan 1 dari 10", body.Question.Heading)
	assert.Len(t, body.Question.Options, 4)
	assert.Nil(t, body.Result)
}

func TestQuizHandler_GenerateQuizErrors(t *testing.T) {
	t.Run("unsupported language", func(t *testing.T) {
		app := newTestApp(&MockQuizService{}, &stubCache{})
		resp := doRequest(t, app, http.MethodPost, "/api/lectures/lecture-1/quiz", dto.GenerateQuizRequest{Content: "x", Language: "fr"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("service errors map to status", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
		}{
			{domain.NewInputError("No lecture content or transcript available"), http.StatusBadRequest},
			{domain.NewTimeoutError(30*time.Second, nil), http.StatusGatewayTimeout},
			{domain.NewSchemaError("Not enough questions generated (7). Please try again."), http.StatusBadGateway},
			{domain.NewBusyError("lecture-1"), http.StatusConflict},
		}
		for _, tt := range tests {
			mockSvc := &MockQuizService{
				GenerateQuizFunc: func(context.Context, string, string, service.GenerateInput) (*domain.QuizState, error) {
					return nil, tt.err
				},
			}
			app := newTestApp(mockSvc, &stubCache{})
			resp := doRequest(t, app, http.MethodPost, "/api/lectures/lecture-1/quiz", dto.GenerateQuizRequest{Content: "x"})
			assert.Equal(t, tt.status, resp.StatusCode, domain.CodeOf(tt.err))
		}
	})
}

func TestQuizHandler_RequiresSession(t *testing.T) {
	app := newTestApp(&MockQuizService{}, &stubCache{})

	req := httptest.NewRequest(http.MethodGet, "/api/lectures/lecture-1/quiz", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	decode(t, resp, &body)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "session_id", body.Errors[0].Field)
}

func TestQuizHandler_GetQuiz(t *testing.T) {
	t.Run("in progress", func(t *testing.T) {
		state := sampleState(domain.LanguageEnglish)
		state.CurrentQuestion = 2
		state.CorrectAnswers = 1
		app := newTestApp(&MockQuizService{
			GetQuizFunc: func(context.Context, string, string) (*domain.QuizState, error) { return state, nil },
		}, &stubCache{})

		resp := doRequest(t, app, http.MethodGet, "/api/lectures/lecture-1/quiz", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body dto.QuizResponse
		decode(t, resp, &body)
		assert.Equal(t, 2, body.CurrentQuestion)
		assert.Equal(t, "Question 3 of 10", body.Question.Heading)
	})

	t.Run("completed shows result", func(t *testing.T) {
		state := sampleState(domain.LanguageEnglish)
		state.CurrentQuestion = 9
		state.CorrectAnswers = 9
		state.Completed = true
		app := newTestApp(&MockQuizService{
			GetQuizFunc: func(context.Context, string, string) (*domain.QuizState, error) { return state, nil },
		}, &stubCache{})

		resp := doRequest(t, app, http.MethodGet, "/api/lectures/lecture-1/quiz", nil)
		var body dto.QuizResponse
		decode(t, resp, &body)
		assert.Nil(t, body.Question)
		require.NotNil(t, body.Result)
		assert.False(t, body.Result.Passed)
		assert.Equal(t, "Keep Trying!", body.Result.Headline)
		assert.Equal(t, "You got 9 out of 10 questions correct", body.Result.Summary)
	})

	t.Run("not found", func(t *testing.T) {
		app := newTestApp(&MockQuizService{
			GetQuizFunc: func(context.Context, string, string) (*domain.QuizState, error) {
				return nil, domain.NewNotFoundError("No test found. Please generate a test first.")
			},
		}, &stubCache{})

		resp := doRequest(t, app, http.MethodGet, "/api/lectures/lecture-1/quiz", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestQuizHandler_SubmitAnswer(t *testing.T) {
	final := sampleState(domain.LanguageEnglish)
	final.CurrentQuestion = 9
	final.CorrectAnswers = 10
	final.Completed = true

	var feedbackSeen bool
	mockSvc := &MockQuizService{
		SubmitAnswerFunc: func(ctx context.Context, sessionID, lectureID string, selectedIndex int, onFeedback service.FeedbackFunc) (*service.AnswerOutcome, error) {
			assert.Equal(t, 0, selectedIndex)
			fb := service.AnswerFeedback{QuestionIndex: 9, SelectedIndex: 0, CorrectIndex: 0, Correct: true, Explanation: "TCP delivers bytes in order.", Verdict: "Correct!"}
			require.NotNil(t, onFeedback)
			onFeedback(fb)
			feedbackSeen = true
			return &service.AnswerOutcome{Feedback: fb, State: final, Finished: true, Passed: true, NextLectureID: "lecture-2"}, nil
		},
	}
	app := newTestApp(mockSvc, &stubCache{})

	resp := doRequest(t, app, http.MethodPost, "/api/lectures/lecture-1/quiz/answers", map[string]int{"selected_index": 0})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, feedbackSeen)

	var body dto.SubmitAnswerResponse
	decode(t, resp, &body)
	assert.True(t, body.Feedback.Correct)
	assert.Equal(t, "Correct!", body.Feedback.Verdict)
	assert.True(t, body.Finished)
	assert.True(t, body.Passed)
	assert.Equal(t, "lecture-2", body.NextLectureID)
	require.NotNil(t, body.Quiz.Result)
	assert.Equal(t, "Perfect Score!", body.Quiz.Result.Headline)
}

func TestQuizHandler_SubmitAnswerValidation(t *testing.T) {
	app := newTestApp(&MockQuizService{}, &stubCache{})

	resp := doRequest(t, app, http.MethodPost, "/api/lectures/lecture-1/quiz/answers", map[string]int{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/lectures/lecture-1/quiz/answers", map[string]int{"selected_index": 7})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuizHandler_RetryQuiz(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		app := newTestApp(&MockQuizService{
			RetryQuizFunc: func(context.Context, string, string) (*domain.QuizState, error) {
				return sampleState(domain.LanguageEnglish), nil
			},
		}, &stubCache{})
		resp := doRequest(t, app, http.MethodPost, "/api/lectures/lecture-1/quiz/retry", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("already passed", func(t *testing.T) {
		app := newTestApp(&MockQuizService{
			RetryQuizFunc: func(context.Context, string, string) (*domain.QuizState, error) {
				return nil, domain.NewConflictError("This quiz has already been passed")
			},
		}, &stubCache{})
		resp := doRequest(t, app, http.MethodPost, "/api/lectures/lecture-1/quiz/retry", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestQuizHandler_DiscardQuiz(t *testing.T) {
	called := false
	app := newTestApp(&MockQuizService{
		DiscardQuizFunc: func(_ context.Context, sessionID, lectureID string) error {
			called = true
			assert.Equal(t, "lecture-1", lectureID)
			return nil
		},
	}, &stubCache{})

	resp := doRequest(t, app, http.MethodDelete, "/api/lectures/lecture-1/quiz", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, called)
}

func TestSessionHandler(t *testing.T) {
	t.Run("create session", func(t *testing.T) {
		app := newTestApp(&MockQuizService{}, &stubCache{})
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body dto.CreateSessionResponse
		decode(t, resp, &body)
		assert.True(t, util.IsValidULID(body.SessionID))
	})

	t.Run("health ok", func(t *testing.T) {
		app := newTestApp(&MockQuizService{}, &stubCache{})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("health degraded", func(t *testing.T) {
		app := newTestApp(&MockQuizService{}, &stubCache{pingErr: errors.New("dial tcp: refused")})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
