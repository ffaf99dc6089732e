package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/twinhire/server/api"
	migrations "github.com/twinhire/server/db"
	"github.com/twinhire/server/internal/config"
	"github.com/twinhire/server/internal/db"
	"github.com/twinhire/server/internal/llm"
	"github.com/twinhire/server/pkg/audio"
	"github.com/twinhire/server/pkg/blob"
	"github.com/twinhire/server/pkg/ollama"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	// .env is optional; environment wins when both are set
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	ollama.SetLogger(logger)

	logger.Info("starting twinhire server", "version", version, "built_at", buildTime)

	ctx := context.Background()

	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, database, migrations.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	llmClient, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Fatalf("Failed to create ollama client: %v", err)
	}
	engine, err := llm.NewEngine(llmClient, cfg.Engine, logger)
	if err != nil {
		log.Fatalf("Failed to create llm engine: %v", err)
	}

	store, err := blob.NewFSStore(cfg.Blob.BaseDir, cfg.Blob.BaseURL)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}
	transcoder := audio.NewFFmpegTranscoder(cfg.Audio.FFmpegPath, cfg.Audio.TargetFormat)

	handler := api.SetupRoutes(cfg, version, buildTime, database, api.Deps{
		Engine:     engine,
		BlobStore:  store,
		Transcoder: transcoder,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	llmClient.Close()
	if err := database.Close(); err != nil {
		logger.Error("closing db", "err", err)
	}

	logger.Info("server exited")
}
