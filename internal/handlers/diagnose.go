package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/DriveSense-ai/diagvoice/internal/pipeline"
)

// DiagnoseHandler serves transcript-based diagnosis requests.
type DiagnoseHandler struct {
	analyzer *pipeline.Analyzer
}

// NewDiagnoseHandler creates a new diagnose handler.
func NewDiagnoseHandler(analyzer *pipeline.Analyzer) *DiagnoseHandler {
	return &DiagnoseHandler{analyzer: analyzer}
}

type diagnoseRequest struct {
	Transcript string `json:"transcript"`
}

// Diagnose runs the keyword matcher and the configured diagnosis provider
// over a caller-supplied transcript.
func (h *DiagnoseHandler) Diagnose(c fiber.Ctx) error {
	var req diagnoseRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	if strings.TrimSpace(req.Transcript) == "" {
		return jsonError(c, fiber.StatusBadRequest, "transcript is required")
	}

	result := h.analyzer.Diagnose(c.Context(), req.Transcript)
	return jsonDiagnosis(c, result)
}
