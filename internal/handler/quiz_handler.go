package handler

import (
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/dto"
	"lecture-quiz/internal/logger"
	"lecture-quiz/internal/middleware"
	"lecture-quiz/internal/service"
	"lecture-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService, validator *validation.Validator) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
	}
}

// GenerateQuiz handles POST /api/lectures/:lectureID/quiz
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInputError("Invalid request body")
	}
	if errs := h.validator.ValidateGenerateRequest(&req); len(errs) > 0 {
		return errs
	}
	lang, err := domain.ParseLanguage(req.Language)
	if err != nil {
		return err
	}

	sessionID, lectureID := middleware.SessionID(c), middleware.LectureID(c)
	state, err := h.service.GenerateQuiz(c.UserContext(), sessionID, lectureID, service.GenerateInput{
		Content:    req.Content,
		Transcript: req.Transcript,
		Language:   lang,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewQuizResponse(lectureID, state))
}

// GetQuiz handles GET /api/lectures/:lectureID/quiz
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	lectureID := middleware.LectureID(c)
	state, err := h.service.GetQuiz(c.UserContext(), middleware.SessionID(c), lectureID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(lectureID, state))
}

// SubmitAnswer handles POST /api/lectures/:lectureID/quiz/answers. The
// response is written once the feedback dwell has elapsed and the answer is
// committed.
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInputError("Invalid request body")
	}
	if errs := h.validator.ValidateSubmitAnswer(&req); len(errs) > 0 {
		return errs
	}

	sessionID, lectureID := middleware.SessionID(c), middleware.LectureID(c)
	outcome, err := h.service.SubmitAnswer(c.UserContext(), sessionID, lectureID, *req.SelectedIndex, func(fb service.AnswerFeedback) {
		logger.Get().Debug("Answer graded",
			zap.String("session_id", sessionID),
			zap.String("lecture_id", lectureID),
			zap.Int("question", fb.QuestionIndex),
			zap.Bool("correct", fb.Correct))
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.SubmitAnswerResponse{
		Feedback: dto.AnswerFeedbackResponse{
			Correct:       outcome.Feedback.Correct,
			Verdict:       outcome.Feedback.Verdict,
			SelectedIndex: outcome.Feedback.SelectedIndex,
			CorrectIndex:  outcome.Feedback.CorrectIndex,
			Explanation:   outcome.Feedback.Explanation,
		},
		Quiz:          dto.NewQuizResponse(lectureID, outcome.State),
		Finished:      outcome.Finished,
		Passed:        outcome.Passed,
		NextLectureID: outcome.NextLectureID,
	})
}

// RetryQuiz handles POST /api/lectures/:lectureID/quiz/retry
func (h *QuizHandler) RetryQuiz(c *fiber.Ctx) error {
	lectureID := middleware.LectureID(c)
	state, err := h.service.RetryQuiz(c.UserContext(), middleware.SessionID(c), lectureID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewQuizResponse(lectureID, state))
}

// DiscardQuiz handles DELETE /api/lectures/:lectureID/quiz
func (h *QuizHandler) DiscardQuiz(c *fiber.Ctx) error {
	if err := h.service.DiscardQuiz(c.UserContext(), middleware.SessionID(c), middleware.LectureID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
