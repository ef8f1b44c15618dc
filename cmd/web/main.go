package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/resume-predictor/internal/chat"
	"alfredoptarigan/resume-predictor/internal/clients"
	"alfredoptarigan/resume-predictor/internal/config"
	"alfredoptarigan/resume-predictor/internal/logger"
	"alfredoptarigan/resume-predictor/internal/services"
	"alfredoptarigan/resume-predictor/internal/store"
	"alfredoptarigan/resume-predictor/internal/web"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	log.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("backend_url", cfg.Web.BackendURL),
		zap.String("chat_url", cfg.Web.ChatURL),
	)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepUploads(sweepCtx, storageService, cfg.Web.SessionTTL, log)

	// Analysis hand-off between the upload and result pages
	results := store.NewMemoryStore(cfg.Web.SessionTTL)
	if cfg.Redis.Addr != "" {
		redisStore, err := store.NewRedisStore(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Web.SessionTTL)
		if err != nil {
			log.Warn("redis unavailable, keeping analyses in memory", zap.Error(err))
		} else {
			results = redisStore
			log.Info("analysis store on redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	predictClient := clients.NewPredictClient(cfg.Web.BackendURL, cfg.Web.HTTPTimeout)
	chatClient := clients.NewChatClient(cfg.Web.ChatURL, cfg.Web.HTTPTimeout)
	widget := chat.NewWidget(chatClient, cfg.Chat.Model, log)

	server := web.NewServer(
		web.NewSessionStore(cfg.Web.SessionTTL),
		storageService,
		predictClient,
		results,
		widget,
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      "ResumeAI",
		Views:        web.NewViews(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: server.HandleError,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	server.Register(app)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		stopSweep()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.WebPort)
	log.Info("web server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// sweepUploads removes selections whose session can no longer reach them: once at startup,
// then every sweep interval.
func sweepUploads(ctx context.Context, storage services.StorageService, maxAge time.Duration, log *zap.Logger) {
	if maxAge <= 0 {
		return
	}

	interval := maxAge / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		removed, err := storage.SweepOlderThan(maxAge)
		if err != nil {
			log.Warn("upload sweep failed", zap.Error(err))
		} else if removed > 0 {
			log.Info("stale uploads removed", zap.Int("count", removed))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
