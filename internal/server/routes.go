package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DriveSense-ai/diagvoice/internal/handlers"
	"github.com/DriveSense-ai/diagvoice/internal/pipeline"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(analyzer *pipeline.Analyzer) {
	diagnoseHandler := handlers.NewDiagnoseHandler(analyzer)
	uploadHandler := handlers.NewUploadHandler(analyzer, s.Cfg.MaxUploadBytes)

	s.App.Post("/api/diagnose", diagnoseHandler.Diagnose)
	s.App.Post("/api/upload", uploadHandler.Upload)

	s.App.Get("/healthz", handlers.Healthz)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
