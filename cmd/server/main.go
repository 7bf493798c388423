package main

import (
	"fmt"
	"log"

	"insureport/internal/backend"
	"insureport/internal/backend/claude"
	"insureport/internal/backend/gemini"
	"insureport/internal/backend/openai"
	"insureport/internal/config"
	"insureport/internal/domain"
	"insureport/internal/handler"
	"insureport/internal/pdf"
	"insureport/internal/port"
	"insureport/internal/router"
	s3storage "insureport/internal/storage/s3"
	"insureport/internal/validate"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Register backend providers
	backend.RegisterProvider("gemini", func(id domain.BackendID, c *config.BackendConfig) (port.ModelBackend, error) {
		return gemini.New(id, c), nil
	})
	backend.RegisterProvider("openai", func(id domain.BackendID, c *config.BackendConfig) (port.ModelBackend, error) {
		return openai.New(id, c), nil
	})
	backend.RegisterProvider("claude", func(id domain.BackendID, c *config.BackendConfig) (port.ModelBackend, error) {
		return claude.New(id, c), nil
	})

	backends, err := backend.BuildAll(&cfg.Backends)
	if err != nil {
		return fmt.Errorf("failed to build backends: %w", err)
	}

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize validation core
	validateSvc := validate.NewService(backends, pdf.NewSlicer(), &cfg.Validate)

	// Initialize handlers
	validateH := handler.NewValidateHandler(validateSvc, s3Client, &cfg.S3)
	documentH := handler.NewDocumentHandler(s3Client, &cfg.S3)
	reportH := handler.NewReportHandler()
	healthH := handler.NewHealthHandler(&cfg.Backends)

	// Setup router
	r := router.Setup(cfg, validateH, documentH, reportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
