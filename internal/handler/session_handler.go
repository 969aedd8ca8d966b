package handler

import (
	"context"
	"time"

	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/dto"
	"lecture-quiz/internal/logger"
	"lecture-quiz/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler issues browsing sessions and reports store health.
type SessionHandler struct {
	store domain.Cache
}

func NewSessionHandler(store domain.Cache) *SessionHandler {
	return &SessionHandler{store: store}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{SessionID: util.NewULID()})
}

// Health handles GET /healthz
func (h *SessionHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.Get().Warn("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded", Store: "unreachable"})
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Store: "ok"})
}
