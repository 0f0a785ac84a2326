package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/DriveSense-ai/diagvoice/internal/pipeline"
)

// diagnosisResponse is the success payload for both the text and upload
// endpoints.
type diagnosisResponse struct {
	Success bool `json:"success"`
	pipeline.Result
}

func jsonDiagnosis(c fiber.Ctx, result pipeline.Result) error {
	return c.JSON(diagnosisResponse{
		Success: true,
		Result:  result,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
