package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/dto"
	"lecture-quiz/internal/util"
)

const (
	maxLectureIDLength = 64
	// maxMaterialRunes bounds request bodies; the generator truncates far below this.
	maxMaterialRunes = 100000
)

var lectureIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSessionID requires a ULID.
func (v *Validator) ValidateSessionID(sessionID string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(sessionID) == "" {
		errs = append(errs, domain.NewMissingFieldError("session_id"))
	} else if !util.IsValidULID(sessionID) {
		errs = append(errs, domain.NewInvalidFormatError("session_id", sessionID))
	}
	return errs
}

func (v *Validator) ValidateLectureID(lectureID string) domain.ValidationErrors {
	var errs domain.ValidationErrors
	switch {
	case strings.TrimSpace(lectureID) == "":
		errs = append(errs, domain.NewMissingFieldError("lecture_id"))
	case len(lectureID) > maxLectureIDLength:
		errs = append(errs, domain.NewOutOfRangeError("lecture_id", len(lectureID), 1, maxLectureIDLength))
	case !lectureIDPattern.MatchString(lectureID):
		errs = append(errs, domain.NewInvalidFormatError("lecture_id", lectureID))
	}
	return errs
}

// ValidateGenerateRequest checks the language tag and body size. Emptiness of
// the material is left to the generator, which may fall back to stored text.
func (v *Validator) ValidateGenerateRequest(req *dto.GenerateQuizRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if _, err := domain.ParseLanguage(req.Language); err != nil {
		errs = append(errs, domain.NewInvalidFormatError("language", req.Language))
	}
	if n := utf8.RuneCountInString(req.Content); n > maxMaterialRunes {
		errs = append(errs, domain.NewOutOfRangeError("content", n, 0, maxMaterialRunes))
	}
	if n := utf8.RuneCountInString(req.Transcript); n > maxMaterialRunes {
		errs = append(errs, domain.NewOutOfRangeError("transcript", n, 0, maxMaterialRunes))
	}
	return errs
}

func (v *Validator) ValidateSubmitAnswer(req *dto.SubmitAnswerRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if req.SelectedIndex == nil {
		errs = append(errs, domain.NewMissingFieldError("selected_index"))
	} else if idx := *req.SelectedIndex; idx < 0 || idx >= domain.OptionsPerQuestion {
		errs = append(errs, domain.NewOutOfRangeError("selected_index", idx, 0, domain.OptionsPerQuestion-1))
	}
	return errs
}
