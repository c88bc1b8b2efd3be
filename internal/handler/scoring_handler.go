package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/assessai/scoring-api/internal/dto"
	"github.com/assessai/scoring-api/internal/models"
	"github.com/assessai/scoring-api/internal/service"
	"github.com/assessai/scoring-api/internal/strategy"
	"github.com/assessai/scoring-api/internal/utils"
)

// ScoringHandler exposes the score pipeline and query endpoints.
type ScoringHandler struct {
	service service.ScoringService
	logger  zerolog.Logger
}

// NewScoringHandler constructs the handler.
func NewScoringHandler(service service.ScoringService, logger zerolog.Logger) *ScoringHandler {
	return &ScoringHandler{
		service: service,
		logger:  logger.With().Str("component", "scoring_handler").Logger(),
	}
}

// Register wires the scoring routes. Static path segments are registered
// before the ":id" wildcard so they take precedence.
func (h *ScoringHandler) Register(router fiber.Router) {
	router.Post("/scores", h.process)
	router.Get("/scores/submission/:submissionId", h.getBySubmission)
	router.Get("/scores/exam/:examId/student/:studentId", h.listByExamAndStudent)
	router.Get("/scores/exam/:examId", h.listByExam)
	router.Get("/scores/student/:studentId", h.listByStudent)
	router.Get("/scores/status/:status", h.listByStatus)
	router.Get("/scores/:id/results", h.listResults)
	router.Get("/scores/:id", h.getByID)
	router.Patch("/scores/:id", h.update)
	router.Get("/exam/:examId/statistics", h.statistics)
	router.Get("/exam/:examId/rules", h.listRules)
}

func (h *ScoringHandler) process(c *fiber.Ctx) error {
	var payload dto.ScoringRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.ProcessScoringRequest(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err, "failed to process scoring request")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "scoring completed", response)
}

func (h *ScoringHandler) getByID(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid score id")
	}

	response, err := h.service.GetScoreByID(c.Context(), id)
	if err != nil {
		return h.handleError(c, err, "failed to get score")
	}

	return utils.SendSuccess(c, "score retrieved", response)
}

func (h *ScoringHandler) getBySubmission(c *fiber.Ctx) error {
	submissionID, err := parseUintParam(c, "submissionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	response, err := h.service.GetScoreBySubmission(c.Context(), submissionID)
	if err != nil {
		return h.handleError(c, err, "failed to get score")
	}

	return utils.SendSuccess(c, "score retrieved", response)
}

func (h *ScoringHandler) listByExam(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "examId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid exam id")
	}

	responses, err := h.service.ListScores(c.Context(), dto.ScoreFilter{ExamID: &examID})
	if err != nil {
		return h.handleError(c, err, "failed to list scores")
	}

	return utils.SendSuccess(c, "scores retrieved", responses)
}

func (h *ScoringHandler) listByStudent(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	responses, err := h.service.ListScores(c.Context(), dto.ScoreFilter{StudentID: &studentID})
	if err != nil {
		return h.handleError(c, err, "failed to list scores")
	}

	return utils.SendSuccess(c, "scores retrieved", responses)
}

func (h *ScoringHandler) listByExamAndStudent(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "examId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid exam id")
	}
	studentID, err := parseUintParam(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	responses, err := h.service.ListScores(c.Context(), dto.ScoreFilter{ExamID: &examID, StudentID: &studentID})
	if err != nil {
		return h.handleError(c, err, "failed to list scores")
	}

	return utils.SendSuccess(c, "scores retrieved", responses)
}

func (h *ScoringHandler) listByStatus(c *fiber.Ctx) error {
	status := strings.ToUpper(strings.TrimSpace(c.Params("status")))
	if !models.ValidScoreStatus(status) {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid score status")
	}

	responses, err := h.service.ListScores(c.Context(), dto.ScoreFilter{Status: &status})
	if err != nil {
		return h.handleError(c, err, "failed to list scores")
	}

	return utils.SendSuccess(c, "scores retrieved", responses)
}

func (h *ScoringHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid score id")
	}

	var payload dto.ScoreUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.UpdateScore(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err, "failed to update score")
	}

	return utils.SendSuccess(c, "score updated", response)
}

func (h *ScoringHandler) listResults(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid score id")
	}

	responses, err := h.service.ListGradingResults(c.Context(), id)
	if err != nil {
		return h.handleError(c, err, "failed to list grading results")
	}

	return utils.SendSuccess(c, "grading results retrieved", responses)
}

func (h *ScoringHandler) statistics(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "examId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid exam id")
	}

	response, err := h.service.ExamStatistics(c.Context(), examID)
	if err != nil {
		return h.handleError(c, err, "failed to compute exam statistics")
	}

	return utils.SendSuccess(c, "exam statistics retrieved", response)
}

func (h *ScoringHandler) listRules(c *fiber.Ctx) error {
	examID, err := parseUintParam(c, "examId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid exam id")
	}

	responses, err := h.service.ListExamRules(c.Context(), examID)
	if err != nil {
		return h.handleError(c, err, "failed to list scoring rules")
	}

	return utils.SendSuccess(c, "scoring rules retrieved", responses)
}

func (h *ScoringHandler) handleError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrScoreNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "score not found")
	case errors.Is(err, strategy.ErrUnknownAlgorithm):
		return utils.SendError(c, fiber.StatusBadRequest, "unknown scoring algorithm")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid status transition")
	case errors.Is(err, service.ErrScoreExceedsMax):
		return utils.SendError(c, fiber.StatusBadRequest, "total score exceeds max score")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
