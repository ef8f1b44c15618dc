package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/config"
	"alfredoptarigan/resume-predictor/internal/handlers"
	"alfredoptarigan/resume-predictor/internal/logger"
	"alfredoptarigan/resume-predictor/internal/models"
	"alfredoptarigan/resume-predictor/internal/repositories"
	"alfredoptarigan/resume-predictor/internal/services"
)

const memoryHistorySize = 500

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	log.Info("config loaded", zap.String("env", cfg.Server.Env))

	ctx := context.Background()

	// Prediction history
	var predictionRepo repositories.PredictionRepository
	if cfg.DatabaseEnabled() {
		db, err := config.InitDatabase(cfg, log)
		if err != nil {
			log.Fatal("failed to initialize database", zap.Error(err))
		}
		predictionRepo = repositories.NewPredictionRepository(db)
	} else {
		log.Info("DB_HOST not set, keeping prediction history in memory")
		predictionRepo = repositories.NewMemoryPredictionRepository(memoryHistorySize)
	}

	// Gemini is optional: embeddings for the vector classifier and an alternative chat provider
	var gemini services.GeminiService
	if cfg.Gemini.APIKey != "" {
		gemini, err = services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, log)
		if err != nil {
			log.Fatal("failed to initialize gemini", zap.Error(err))
		}
		log.Info("gemini initialized", zap.String("model", cfg.Gemini.Model))
	}

	// Classifier chain
	var classifiers []services.Classifier
	var qdrantService services.QdrantService
	if cfg.VectorEnabled() {
		qdrantService, err = services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
		if err != nil {
			log.Fatal("failed to initialize qdrant", zap.Error(err))
		}
		if err := qdrantService.InitCollection(ctx); err != nil {
			log.Fatal("failed to initialize qdrant collection", zap.Error(err))
		}
		classifiers = append(classifiers, services.NewVectorClassifier(gemini, qdrantService))
		log.Info("vector classifier enabled", zap.String("collection", cfg.Qdrant.Collection))
	}
	classifiers = append(classifiers, services.NewKeywordClassifier())

	predictor := services.NewPredictorService(services.NewPDFParserService(), predictionRepo, log, classifiers...)

	// Chat provider
	var chatService services.ChatService
	switch cfg.Chat.Provider {
	case "gemini":
		if gemini == nil {
			log.Fatal("CHAT_PROVIDER=gemini requires GEMINI_API_KEY")
		}
		chatService = services.NewChatService(gemini, "", false, log)
	case "openai":
		chatService = services.NewChatService(services.NewOpenAIClient(cfg.Web.HTTPTimeout), cfg.OpenAI.APIKey, true, log)
		if cfg.OpenAI.APIKey == "" {
			log.Warn("OPENAI_API_KEY not set, /chat needs the client to send its own key")
		}
	default:
		log.Fatal("unknown CHAT_PROVIDER", zap.String("provider", cfg.Chat.Provider))
	}
	log.Info("chat provider ready", zap.String("provider", cfg.Chat.Provider))

	// Initialize Handlers
	predictHandler := handlers.NewPredictHandler(predictor, cfg.Storage.MaxFileSize, log)
	chatHandler := handlers.NewChatHandler(chatService)
	predictionsHandler := handlers.NewPredictionsHandler(predictionRepo)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ResumeAI Prediction API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		// headroom for the multipart envelope; the handler enforces the file limit itself
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: customErrorHandler(log),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + handlers.APIKeyHeader,
	}))

	// Routes
	app.Get("/health", handlers.HandleHealth)
	app.Post("/predict", predictHandler.HandlePredict)
	app.Get("/predictions", predictionsHandler.HandleListPredictions)
	app.Post("/chat", chatHandler.HandleChat)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
		if qdrantService != nil {
			_ = qdrantService.Close()
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.APIPort)
	log.Info("api server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// customErrorHandler keeps every failure in the {"detail": ...} shape clients read.
func customErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(models.ErrorResponse{Detail: err.Error()})
	}
}
