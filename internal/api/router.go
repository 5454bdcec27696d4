package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/agritrust/batchcert/internal/api/handlers"
	"github.com/agritrust/batchcert/internal/api/middleware"
	"github.com/agritrust/batchcert/internal/auth"
	"github.com/agritrust/batchcert/internal/classifier"
	"github.com/agritrust/batchcert/internal/config"
	"github.com/agritrust/batchcert/internal/entity"
	"github.com/agritrust/batchcert/internal/extraction"
	"github.com/agritrust/batchcert/internal/extractors"
	"github.com/agritrust/batchcert/internal/queue"
	"github.com/agritrust/batchcert/internal/storage"
	"github.com/agritrust/batchcert/internal/textrecovery"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() (http.Handler, error) {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	files, err := storage.NewLocalStore(rt.cfg.Storage.UploadDir)
	if err != nil {
		return nil, err
	}
	store := extraction.NewPGStore(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)

	ocr := textrecovery.NewTesseract(textrecovery.TesseractConfig{
		Binary:   rt.cfg.Recovery.TesseractBin,
		Language: rt.cfg.Recovery.TesseractLang,
	}, slog.Default())
	var vision *textrecovery.VisionClient
	if rt.cfg.Recovery.OpenAIKey != "" {
		vision = textrecovery.NewVisionClient(rt.cfg.Recovery.OpenAIKey, rt.cfg.Recovery.VisionModel)
	}
	engine := textrecovery.NewEngine(rt.cfg.Recovery.Method, ocr, vision, slog.Default())

	registry := extractors.NewRegistry(entity.NewExtractor())
	orchestrator := extraction.NewOrchestrator(
		classifier.New(),
		engine,
		registry,
		store,
		files,
		rt.cfg.Recovery.ConfidenceThreshold,
		slog.Default(),
	)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		extractionH := handlers.NewExtractionHandler(store, orchestrator, queueClient)
		r.Route("/extraction", func(r chi.Router) {
			r.Get("/{attachmentID}", extractionH.Get)
			r.Get("/batch/{batchID}", extractionH.Batch)
			r.Get("/stats/overview", extractionH.Stats)
			r.Post("/retry/{attachmentID}", extractionH.Retry)
			r.Post("/process/{attachmentID}", extractionH.Process)
		})

		batchH := handlers.NewBatchHandler(store, files, queueClient)
		r.Route("/batches", func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleUser))
			r.Post("/", batchH.Create)
		})
	})

	return r, nil
}
