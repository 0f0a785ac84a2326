package handlers

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v3"

	"github.com/DriveSense-ai/diagvoice/internal/pipeline"
	"github.com/DriveSense-ai/diagvoice/pkg/logging"
)

// UploadHandler serves media-upload diagnosis requests: the file is
// transcribed, then run through the same pipeline as raw transcripts.
type UploadHandler struct {
	analyzer       *pipeline.Analyzer
	maxUploadBytes int64
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(analyzer *pipeline.Analyzer, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{
		analyzer:       analyzer,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload accepts a multipart media file under field "video" or "audio",
// transcribes it and diagnoses the transcript. Uploaded media is never
// persisted beyond the request.
func (h *UploadHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		fileHeader, err = c.FormFile("audio")
	}
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, `missing media file: use multipart field "video" or "audio"`)
	}

	if fileHeader.Size > h.maxUploadBytes {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "uploaded file exceeds the size limit")
	}

	// Keep the original extension so MIME detection works downstream.
	tmpFile, err := os.CreateTemp("", "diagvoice-upload-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to store upload")
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	defer func() {
		if removeErr := os.Remove(tmpPath); removeErr != nil {
			logging.NewLogger(c.Context()).Warnf("failed to remove temp upload %q: %v", tmpPath, removeErr)
		}
	}()

	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to store upload")
	}

	transcription, err := h.analyzer.Transcribe(c.Context(), tmpPath)
	if err != nil {
		return jsonError(c, fiber.StatusBadGateway, "transcription failed: "+err.Error())
	}

	result := h.analyzer.Diagnose(c.Context(), transcription.Text)
	result.Language = transcription.Language
	return jsonDiagnosis(c, result)
}
