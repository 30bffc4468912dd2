package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hqnguyen/defense-eval-api/internal/service"
	"github.com/hqnguyen/defense-eval-api/internal/utils"
	"github.com/hqnguyen/defense-eval-api/pkg/llm"
)

// AnalysisHandler wires the transcript analysis and report HTTP routes.
type AnalysisHandler struct {
	analysis service.AnalysisService
	reports  service.ReportService
	logger   zerolog.Logger
}

// NewAnalysisHandler constructs the handler.
func NewAnalysisHandler(analysis service.AnalysisService, reports service.ReportService, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysis: analysis,
		reports:  reports,
		logger:   logger.With().Str("component", "analysis_handler").Logger(),
	}
}

// Register attaches the analysis endpoints to the router group.
func (h *AnalysisHandler) Register(router fiber.Router) {
	router.Post("/sessions/:id/analysis", h.analyze)
	router.Get("/sessions/:id/report", h.report)
}

func (h *AnalysisHandler) analyze(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.analysis.AnalyzeTranscript(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "transcript analyzed", result)
}

func (h *AnalysisHandler) report(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.reports.GenerateDefenseReport(c.UserContext(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "defense report generated", report)
}

func (h *AnalysisHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "defense session not found")
	case errors.Is(err, service.ErrCouncilNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "council not found")
	case errors.Is(err, service.ErrMajorNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "major not found")
	case errors.Is(err, llm.ErrUnavailable):
		requestLogger(h.logger, c).Error().Err(err).Msg("llm service unavailable")
		return utils.SendError(c, fiber.StatusBadGateway, "ai evaluation service unavailable")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("unexpected failure")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
