package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"lecture-quiz/internal/domain"
)

// jsonExtractor pulls a candidate JSON payload out of model output.
type jsonExtractor func(text string) (string, bool)

func submatchExtractor(re *regexp.Regexp) jsonExtractor {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		if len(m) > 1 {
			return m[1], true
		}
		return m[0], true
	}
}

// Tried in order; the first match is the payload.
var payloadExtractors = []jsonExtractor{
	submatchExtractor(regexp.MustCompile("(?s)```json\\n(.*?)\\n```")),
	submatchExtractor(regexp.MustCompile("(?s)```\\n(.*?)\\n```")),
	submatchExtractor(regexp.MustCompile(`(?s)\{.*\}`)),
}

func extractPayload(text string) string {
	for _, extract := range payloadExtractors {
		if payload, ok := extract(text); ok {
			return payload
		}
	}
	return text
}

type rawQuestion struct {
	Question     *string  `json:"question"`
	Text         *string  `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex"`
	Explanation  *string  `json:"explanation"`
}

func (r rawQuestion) toQuestion() (domain.Question, error) {
	text := r.Question
	if text == nil {
		text = r.Text
	}
	if text == nil {
		return domain.Question{}, domain.NewSchemaError("question text is required")
	}
	if r.CorrectIndex == nil {
		return domain.Question{}, domain.NewSchemaError("correctIndex is required")
	}
	if r.Explanation == nil {
		return domain.Question{}, domain.NewSchemaError("explanation is required")
	}
	q := domain.Question{
		Text:         *text,
		Options:      r.Options,
		CorrectIndex: *r.CorrectIndex,
		Explanation:  *r.Explanation,
	}
	return q, q.Validate()
}

// ParseQuestionSet turns model output into exactly want validated questions.
// It fails with a ParseError when no JSON can be decoded and a SchemaError when
// the JSON does not hold at least want well-formed questions.
func ParseQuestionSet(text string, want int) ([]domain.Question, error) {
	payload := strings.TrimSpace(extractPayload(stripThinkTags(text)))

	var root json.RawMessage
	if err := json.Unmarshal([]byte(payload), &root); err != nil {
		return nil, domain.NewParseError(err)
	}

	list, err := locateQuestionList(root)
	if err != nil {
		return nil, err
	}
	if len(list) < want {
		return nil, domain.NewSchemaError(fmt.Sprintf("Not enough questions generated (%d). Please try again.", len(list))).
			WithContext("received", len(list))
	}

	questions := make([]domain.Question, 0, len(list))
	for i, item := range list {
		var raw rawQuestion
		if err := json.Unmarshal(item, &raw); err != nil {
			return nil, domain.NewError(domain.CodeSchema, "Questions do not match required format", err).
				WithContext("index", i)
		}
		q, err := raw.toQuestion()
		if err != nil {
			return nil, domain.NewError(domain.CodeSchema, "Questions do not match required format", err).
				WithContext("index", i)
		}
		questions = append(questions, q)
	}
	return questions[:want], nil
}

// locateQuestionList accepts a top-level array or an object with a questions array.
func locateQuestionList(root json.RawMessage) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(root)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapper struct {
			Questions json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, domain.NewParseError(err)
		}
		if wrapper.Questions == nil {
			return nil, domain.NewSchemaError("Expected questions array, got object")
		}
		trimmed = bytes.TrimSpace(wrapper.Questions)
	}

	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, domain.NewSchemaError("Expected questions array")
	}
	var list []json.RawMessage
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, domain.NewSchemaError("Expected questions array")
	}
	if len(list) == 0 {
		return nil, domain.NewSchemaError("Expected questions array, got an empty list")
	}
	return list, nil
}
