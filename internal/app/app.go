package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/kelimekutusu/study-service/internal/config"
	"github.com/kelimekutusu/study-service/internal/delivery/httpd"
	"github.com/kelimekutusu/study-service/internal/repository"
	"github.com/kelimekutusu/study-service/internal/repository/memory"
	"github.com/kelimekutusu/study-service/internal/service"
	"github.com/kelimekutusu/study-service/internal/service/integration"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher integration.EventPublisher
}

// New wires repositories, services, and the HTTP layer. db may be nil when
// the memory storage driver is configured.
func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	var (
		studentRepo  repository.StudentRepository
		wordRepo     repository.WordRepository
		progressRepo repository.ProgressRepository
	)

	if cfg.Storage.Driver == "memory" {
		studentRepo = memory.NewStudentRepository()
		wordRepo = memory.NewWordRepository()
		progressRepo = memory.NewProgressRepository()
		log.Warn().Msg("Using in-memory storage, data will not survive restarts")
	} else {
		studentRepo = repository.NewStudentRepository(db, log)
		wordRepo = repository.NewWordRepository(db, log)
		progressRepo = repository.NewProgressRepository(db, log)
	}

	var publisher integration.EventPublisher
	if cfg.RabbitMQ.Enabled {
		var err error
		publisher, err = integration.NewRabbitMQPublisher(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.RoutingKey,
			cfg.RabbitMQ.QueueName,
			log,
		)
		if err != nil {
			// Events are best-effort; the trainer works without a broker.
			log.Error().Err(err).Msg("Failed to create RabbitMQ publisher")
			publisher = nil
		}
	}

	studyService := service.NewStudyService(studentRepo, wordRepo, progressRepo, publisher, log)
	studentService := service.NewStudentService(studentRepo, wordRepo, progressRepo, studyService, log)
	adminService := service.NewAdminService(cfg.Admin.PasswordHash, log)
	importService := service.NewImportService(studentRepo, wordRepo, log)

	handler := httpd.NewHandler(
		studentService,
		studyService,
		adminService,
		importService,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting study service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down study service...")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
