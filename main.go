package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"courtconnect/config"
	"courtconnect/cron"
	"courtconnect/database"
	availabilityRepo "courtconnect/database/repository/availability"
	reservationRepo "courtconnect/database/repository/reservation"
	"courtconnect/handlers"
	"courtconnect/middleware"
	"courtconnect/routes"
	"courtconnect/services/availability"
	"courtconnect/services/booking"
	"courtconnect/services/facility"
	ai "courtconnect/services/intelligence"
	"courtconnect/services/notification"
	"courtconnect/services/temporal"
	"courtconnect/services/transcription"
	"courtconnect/services/weather"
	"courtconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("main: JWT_SECRET is required")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Sugar().Fatalf("main: unknown TIMEZONE %q: %v", cfg.Timezone, err)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	var (
		resRepo    reservationRepo.ReservationRepository
		windowRepo availabilityRepo.WindowRepository
	)
	if cfg.DatabaseURL != "" {
		database.InitDB()
		resRepo = reservationRepo.NewMongoReservationRepo()
		windowRepo = availabilityRepo.NewMongoWindowRepo()
		if err := resRepo.EnsureIndexes(rootCtx); err != nil {
			logger.Sugar().Fatalf("main: reservation indexes: %v", err)
		}
		if err := windowRepo.EnsureIndexes(rootCtx); err != nil {
			logger.Sugar().Fatalf("main: availability window indexes: %v", err)
		}
	} else {
		logger.Warn("main: DATABASE_URL not set, reservations are kept in memory")
		resRepo = reservationRepo.NewMemoryReservationRepo()
		windowRepo = availabilityRepo.NewMemoryWindowRepo()
	}

	// pending context.
	var (
		memory       ai.ContextStore
		redisClients []*redis.Client
	)
	if cfg.ContextStore == "redis" {
		client := utils.GetContextCacheClient()
		redisClients = append(redisClients, client)
		memory = ai.NewRedisContextStore(client, cfg.PendingContextTTL, nil)
	} else {
		memory = ai.NewMemoryContextStore(cfg.PendingContextTTL, nil)
	}

	// notifications.
	var (
		notifier    notification.Notifier = notification.NewLogNotifier(logger)
		queueClient *asynq.Client
		worker      *asynq.Server
	)
	if cfg.NotificationsEnabled {
		queueClient = asynq.NewClient(cron.QueueRedisOpt())
		notifier = notification.NewQueueNotifier(queueClient)
		worker = cron.InitNotificationWorker(notification.NewLogMailer(logger), logger)
	}

	// services.
	catalog := facility.DefaultCatalog()
	oracle := availability.NewOracle(resRepo, windowRepo)
	bookingService := booking.NewDefaultBookingService(resRepo, catalog, notifier, logger, loc)
	metrics := utils.NewMetrics()

	generator, closeGenerator := newGenerator(rootCtx, cfg, logger)
	defer closeGenerator()

	assistant := ai.NewDefaultAssistantService(ai.AssistantDeps{
		Catalog:          catalog,
		Extractor:        temporal.NewExtractor(loc, nil),
		Memory:           memory,
		Slots:            oracle,
		Invoker:          booking.NewInvoker(bookingService, cfg.BookingTimeout),
		Bookings:         bookingService,
		Weather:          weather.NewOpenMeteoClient(cfg.WeatherURL, cfg.WeatherLatitude, cfg.WeatherLongitude, cfg.Timezone, cfg.WeatherTimeout),
		Generator:        generator,
		GeneratorTimeout: cfg.LLMTimeout,
		Metrics:          metrics,
		Logger:           logger,
	})

	transcriber, closeTranscriber := newTranscriber(rootCtx, cfg, logger)
	defer closeTranscriber()

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewAssistantHandler(assistant),
		handlers.NewTranscriptionHandler(transcriber),
		handlers.NewBookingHandler(bookingService, catalog, oracle),
	)

	utils.StartHealthMonitor(rootCtx, redisClients, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	routes.RegisterRoutes(router, handlerBundle, metrics, cfg.JWTSecret)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// newGenerator picks the remote model from LLM_PROVIDER. No API key means no model.
func newGenerator(ctx context.Context, cfg config.Config, logger *zap.Logger) (ai.Generator, func()) {
	noop := func() {}
	if cfg.LLMAPIKey == "" {
		logger.Info("main: LLM_API_KEY not set, assistant uses canned answers only")
		return nil, noop
	}

	switch cfg.LLMProvider {
	case "gemini":
		client, err := ai.NewGeminiClient(ctx, cfg.LLMAPIKey, cfg.LLMModel)
		if err != nil {
			logger.Error("main: gemini disabled", zap.Error(err))
			return nil, noop
		}
		return client, func() { _ = client.Close() }
	case "openai", "":
		return ai.NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL), noop
	default:
		logger.Warn("main: unknown LLM_PROVIDER, remote model disabled", zap.String("provider", cfg.LLMProvider))
		return nil, noop
	}
}

// newTranscriber prefers Google STT credentials and falls back to Whisper on an OpenAI key.
func newTranscriber(ctx context.Context, cfg config.Config, logger *zap.Logger) (transcription.Transcriber, func()) {
	noop := func() {}
	if cfg.GoogleServiceAccountFile != "" {
		t, err := transcription.NewGoogleTranscriber(ctx, cfg.GoogleServiceAccountFile)
		if err != nil {
			logger.Error("main: speech-to-text disabled", zap.Error(err))
			return nil, noop
		}
		return t, func() { _ = t.Close() }
	}
	if cfg.LLMAPIKey != "" && (cfg.LLMProvider == "openai" || cfg.LLMProvider == "") {
		return transcription.NewWhisperTranscriber(cfg.LLMAPIKey, cfg.LLMBaseURL), noop
	}
	return nil, noop
}
