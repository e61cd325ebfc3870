package main

import (
	"fmt"
	"log"

	"invoicr/internal/config"
	"invoicr/internal/extract"
	"invoicr/internal/handler"
	"invoicr/internal/llm"
	_ "invoicr/internal/llm/groq" // registers the groq provider
	"invoicr/internal/raster"
	"invoicr/internal/reconcile"
	"invoicr/internal/router"
	"invoicr/internal/service"
)

const version = "1.0.0"

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

	// One generator handle per logical model, created once and injected.
	extractionGen, err := llm.NewGenerator(&cfg.Generation, cfg.Generation.ExtractionModel)
	if err != nil {
		return fmt.Errorf("failed to create extraction generator: %w", err)
	}
	standardizeGen, err := llm.NewGenerator(&cfg.Generation, cfg.Generation.StandardizeModel)
	if err != nil {
		return fmt.Errorf("failed to create standardization generator: %w", err)
	}

	rasterizer := raster.New(&cfg.Raster)
	extractor := extract.New(extractionGen, cfg.Generation.MaxRetries)
	reconciler := reconcile.New(standardizeGen, cfg.Generation.MaxRetries)
	batchSvc := service.NewBatchService(rasterizer, extractor, reconciler, &cfg.Upload)

	invoiceH := handler.NewInvoiceHandler(batchSvc)
	healthH := handler.NewHealthHandler(version)

	r := router.Setup(cfg, invoiceH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
