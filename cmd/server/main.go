package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/DriveSense-ai/diagvoice/internal/config"
	"github.com/DriveSense-ai/diagvoice/internal/metrics"
	"github.com/DriveSense-ai/diagvoice/internal/pipeline"
	"github.com/DriveSense-ai/diagvoice/internal/server"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg := config.Load()
	metrics.Register()

	analyzer := pipeline.NewAnalyzer(cfg)

	srv := server.New(cfg)
	srv.RegisterRoutes(analyzer)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s (ai_provider=%s transcribe_provider=%s)",
		cfg.ServerAddr, cfg.AIProvider, cfg.TranscribeProvider)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
