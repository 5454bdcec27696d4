package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"github.com/agritrust/batchcert/internal/classifier"
	"github.com/agritrust/batchcert/internal/config"
	"github.com/agritrust/batchcert/internal/database"
	"github.com/agritrust/batchcert/internal/entity"
	"github.com/agritrust/batchcert/internal/extraction"
	"github.com/agritrust/batchcert/internal/extractors"
	"github.com/agritrust/batchcert/internal/queue"
	"github.com/agritrust/batchcert/internal/queue/workers"
	"github.com/agritrust/batchcert/internal/storage"
	"github.com/agritrust/batchcert/internal/textrecovery"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	files, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		slog.Error("failed to open upload directory", "error", err)
		os.Exit(1)
	}

	ocr := textrecovery.NewTesseract(textrecovery.TesseractConfig{
		Binary:   cfg.Recovery.TesseractBin,
		Language: cfg.Recovery.TesseractLang,
	}, slog.Default())
	var vision *textrecovery.VisionClient
	if cfg.Recovery.OpenAIKey != "" {
		vision = textrecovery.NewVisionClient(cfg.Recovery.OpenAIKey, cfg.Recovery.VisionModel)
	}
	engine := textrecovery.NewEngine(cfg.Recovery.Method, ocr, vision, slog.Default())

	store := extraction.NewPGStore(db)
	orchestrator := extraction.NewOrchestrator(
		classifier.New(),
		engine,
		extractors.NewRegistry(entity.NewExtractor()),
		store,
		files,
		cfg.Recovery.ConfidenceThreshold,
		slog.Default(),
	)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	extractionWorker := workers.NewExtractionWorker(orchestrator, files, slog.Default())
	registry.Register(queue.TypeExtractionProcess, asynq.HandlerFunc(extractionWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
