package handler

import (
	"lecture-quiz/internal/middleware"
	"lecture-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the quiz API on app.
func RegisterRoutes(app *fiber.App, quiz *QuizHandler, sessions *SessionHandler, v *validation.Validator) {
	app.Get("/healthz", sessions.Health)

	api := app.Group("/api")
	api.Post("/sessions", sessions.CreateSession)

	lectures := api.Group("/lectures/:lectureID",
		middleware.Session(v),
		middleware.NewValidationMiddleware(v).ValidateLectureID())
	lectures.Post("/quiz", quiz.GenerateQuiz)
	lectures.Get("/quiz", quiz.GetQuiz)
	lectures.Delete("/quiz", quiz.DiscardQuiz)
	lectures.Post("/quiz/answers", quiz.SubmitAnswer)
	lectures.Post("/quiz/retry", quiz.RetryQuiz)
}
