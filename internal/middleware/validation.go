package middleware

import (
	"lecture-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// LectureIDKey is the fiber.Ctx Locals key holding the validated lecture ID.
const LectureIDKey = "validated_lecture_id"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: v}
}

// ValidateLectureID validates the lectureID path parameter
func (vm *ValidationMiddleware) ValidateLectureID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lectureID := utils.CopyString(c.Params("lectureID"))
		if errs := vm.validator.ValidateLectureID(lectureID); len(errs) > 0 {
			return errs // handled by ErrorHandler
		}
		c.Locals(LectureIDKey, lectureID)
		return c.Next()
	}
}

// LectureID returns the lecture stored by ValidateLectureID, or "".
func LectureID(c *fiber.Ctx) string {
	id, _ := c.Locals(LectureIDKey).(string)
	return id
}
