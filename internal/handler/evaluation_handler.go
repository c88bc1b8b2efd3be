package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/assessai/scoring-api/internal/dto"
	"github.com/assessai/scoring-api/internal/middleware"
	"github.com/assessai/scoring-api/internal/service"
	"github.com/assessai/scoring-api/internal/utils"
)

// EvaluationHandler exposes the stateless quick evaluation endpoint.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires the evaluation route. The endpoint is unauthenticated
// compute, so it carries its own rate limit.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("/evaluate", middleware.RateLimit("evaluate", 30, time.Minute), h.evaluate)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Evaluate(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to evaluate text")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to evaluate text")
	}

	return utils.SendSuccess(c, "evaluation completed", response)
}
