package domain

import (
	"fmt"
	"strings"
)

const (
	// QuestionsPerQuiz is the size of every generated question set.
	QuestionsPerQuiz = 10
	// OptionsPerQuestion is the fixed number of answer options.
	OptionsPerQuestion = 4
)

// Language fixes the display language of generated text.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageIndonesian Language = "id"
)

// ParseLanguage maps a request value to a Language. Empty means English.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageEnglish:
		return LanguageEnglish, nil
	case LanguageIndonesian:
		return LanguageIndonesian, nil
	default:
		return "", NewInputError(fmt.Sprintf("Unsupported language: %s", s))
	}
}

func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageIndonesian
}

// Question is one multiple choice item.
type Question struct {
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// Validate checks the question shape: non-empty text, exactly four distinct
// options and a correct index pointing at one of them.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewSchemaError("question text is required")
	}
	if len(q.Options) != OptionsPerQuestion {
		return NewSchemaError(fmt.Sprintf("question must have exactly %d options, got %d", OptionsPerQuestion, len(q.Options)))
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return NewSchemaError(fmt.Sprintf("duplicate option %q", opt))
		}
		seen[opt] = struct{}{}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return NewSchemaError(fmt.Sprintf("correctIndex %d out of range", q.CorrectIndex))
	}
	return nil
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	return q.Options[q.CorrectIndex]
}

func (q Question) clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// QuizState is the persisted progress of one attempt for one lecture.
type QuizState struct {
	Questions       []Question `json:"questions"`
	CurrentQuestion int        `json:"currentQuestion"`
	CorrectAnswers  int        `json:"correctAnswers"`
	Completed       bool       `json:"completed"`
	Language        Language   `json:"language"`
}

// NewQuizState starts a fresh attempt over questions.
func NewQuizState(questions []Question, lang Language) *QuizState {
	return &QuizState{
		Questions: questions,
		Language:  lang,
	}
}

// Validate checks a state loaded from storage.
func (s *QuizState) Validate() error {
	if len(s.Questions) == 0 {
		return NewSchemaError("quiz has no questions")
	}
	for i, q := range s.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	if s.CurrentQuestion < 0 || s.CurrentQuestion >= len(s.Questions) {
		return NewSchemaError(fmt.Sprintf("currentQuestion %d out of range", s.CurrentQuestion))
	}
	if s.CorrectAnswers < 0 || s.CorrectAnswers > len(s.Questions) {
		return NewSchemaError(fmt.Sprintf("correctAnswers %d out of range", s.CorrectAnswers))
	}
	if !s.Language.Valid() {
		return NewSchemaError(fmt.Sprintf("unknown language %q", s.Language))
	}
	return nil
}

// Current returns the question awaiting an answer.
func (s *QuizState) Current() Question {
	return s.Questions[s.CurrentQuestion]
}

// IsLastQuestion reports whether the current question is the final one.
func (s *QuizState) IsLastQuestion() bool {
	return s.CurrentQuestion == len(s.Questions)-1
}

// PerfectScore reports whether every question was answered correctly.
func (s *QuizState) PerfectScore() bool {
	return s.CorrectAnswers == len(s.Questions)
}

// Passed is true only for a completed attempt with a perfect score.
func (s *QuizState) Passed() bool {
	return s.Completed && s.PerfectScore()
}

// Clone returns a deep copy so callers never share option slices.
func (s *QuizState) Clone() *QuizState {
	if s == nil {
		return nil
	}
	c := *s
	c.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		c.Questions[i] = q.clone()
	}
	return &c
}
