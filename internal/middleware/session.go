package middleware

import (
	"lecture-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	// SessionHeader carries the browsing session identifier.
	SessionHeader = "X-Session-ID"
	// SessionIDKey is the fiber.Ctx Locals key holding the validated session ID.
	SessionIDKey = "session_id"
)

// Session requires a valid session header and exposes it under SessionIDKey.
func Session(v *validation.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := utils.CopyString(c.Get(SessionHeader))
		if errs := v.ValidateSessionID(sessionID); len(errs) > 0 {
			return errs
		}
		c.Locals(SessionIDKey, sessionID)
		return c.Next()
	}
}

// SessionID returns the session stored by Session, or "".
func SessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionIDKey).(string)
	return id
}
