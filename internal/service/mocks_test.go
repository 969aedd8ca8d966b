package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"lecture-quiz/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockLanguageModel ---
type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, prompt)
	return args.String(0), args.Error(1)
}

// --- MockLectureProvider ---
type MockLectureProvider struct {
	mock.Mock
}

func (m *MockLectureProvider) GetLecture(ctx context.Context, lectureID string) (*domain.Lecture, error) {
	args := m.Called(ctx, lectureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lecture), args.Error(1)
}

func (m *MockLectureProvider) NextLecture(ctx context.Context, courseID string, order int) (*domain.Lecture, error) {
	args := m.Called(ctx, courseID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lecture), args.Error(1)
}

// --- MockEventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.QuizEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// memoryStore is an in-process QuizStateStore that counts writes.
type memoryStore struct {
	mu     sync.Mutex
	states map[string][]byte
	saves  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{states: make(map[string][]byte)}
}

func (s *memoryStore) Load(_ context.Context, sessionID, lectureID string) (*domain.QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.states[sessionID+"/"+lectureID]
	if !ok {
		return nil, domain.NewNotFoundError("No test found. Please generate a test first.")
	}
	var state domain.QuizState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *memoryStore) Save(_ context.Context, sessionID, lectureID string, state *domain.QuizState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionID+"/"+lectureID] = raw
	s.saves++
	return nil
}

func (s *memoryStore) Delete(_ context.Context, sessionID, lectureID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID+"/"+lectureID)
	return nil
}

func (s *memoryStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// instantDelayer skips the feedback dwell.
type instantDelayer struct{}

func (instantDelayer) Wait(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// gateDelayer blocks until released or ctx is done.
type gateDelayer struct {
	entered chan struct{}
	release chan struct{}
}

func newGateDelayer() *gateDelayer {
	return &gateDelayer{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gateDelayer) Wait(ctx context.Context, _ time.Duration) error {
	g.entered <- struct{}{}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.release:
		return nil
	}
}

// slowModel answers after delay regardless of ctx.
type slowModel struct {
	delay    time.Duration
	response string
	mu       sync.Mutex
	returned bool
}

func (m *slowModel) Complete(context.Context, string, string) (string, error) {
	time.Sleep(m.delay)
	m.mu.Lock()
	m.returned = true
	m.mu.Unlock()
	return m.response, nil
}

func (m *slowModel) hasReturned() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.returned
}

// gatedModel blocks every call until release is closed.
type gatedModel struct {
	mu       sync.Mutex
	calls    int
	started  chan struct{}
	release  chan struct{}
	response string
}

func newGatedModel(response string) *gatedModel {
	return &gatedModel{started: make(chan struct{}, 8), release: make(chan struct{}), response: response}
}

func (m *gatedModel) Complete(ctx context.Context, _, _ string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	m.started <- struct{}{}
	select {
	case <-m.release:
		return m.response, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *gatedModel) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func testQuestion(i int) domain.Question {
	return domain.Question{
		Text:         fmt.Sprintf("Question %d?", i+1),
		Options:      []string{fmt.Sprintf("A%d", i), fmt.Sprintf("B%d", i), fmt.Sprintf("C%d", i), fmt.Sprintf("D%d", i)},
		CorrectIndex: i % domain.OptionsPerQuestion,
		Explanation:  fmt.Sprintf("Explanation %d", i+1),
	}
}

func testQuestions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = testQuestion(i)
	}
	return qs
}

// questionSetJSON renders n valid questions the way a model would.
func questionSetJSON(n int) string {
	payload, err := json.Marshal(map[string]interface{}{"questions": testQuestions(n)})
	if err != nil {
		panic(err)
	}
	return string(payload)
}

func fenced(body string) string {
	return "Here is your quiz:\n```json\n" + body + "\n```\nGood luck!"
}
