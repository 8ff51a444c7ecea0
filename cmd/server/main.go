package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Skufu/SymptomRx/internal/assistant"
	"github.com/Skufu/SymptomRx/internal/classifier"
	"github.com/Skufu/SymptomRx/internal/feedback"
	"github.com/Skufu/SymptomRx/internal/knowledge"
	"github.com/Skufu/SymptomRx/internal/logger"
	"github.com/Skufu/SymptomRx/internal/server"
)

type Config struct {
	Port         string
	GinMode      string
	ModelPath    string
	KBPath       string
	FeedbackPath string
	DatabaseURL  string
	EnableDB     bool
	LogLevel     string
	LogFormat    string
	TopK         int
	TopKeywords  int
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	rx, err := assistant.Load(cfg.ModelPath, cfg.KBPath, assistant.Options{
		TopK:        cfg.TopK,
		TopKeywords: cfg.TopKeywords,
		Logger:      log,
	})
	if errors.Is(err, classifier.ErrModelMissing) {
		log.Fatal("model artifact missing, run `go run ./cmd/train` first", zap.String("path", cfg.ModelPath))
	}
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}

	ctx := context.Background()
	deps := server.Deps{
		Analyzer:   rx,
		Conditions: rx,
		Feedback:   feedback.NewCSVStore(cfg.FeedbackPath),
		StoreName:  "csv",
		Logger:     log,
	}
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()

		store := feedback.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatal("feedback schema failed", zap.Error(err))
		}
		deps.DB = pool
		deps.Feedback = store
		deps.StoreName = "postgres"
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	log.Info("server listening",
		zap.String("port", cfg.Port),
		zap.String("feedback_store", deps.StoreName),
	)
	waitForShutdown(srv, log)
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", gin.ReleaseMode),
		ModelPath:    getEnv("MODEL_PATH", "models/text_clf.json"),
		KBPath:       getEnv("KB_PATH", "knowledge_base/guidelines_demo.json"),
		FeedbackPath: getEnv("FEEDBACK_PATH", "feedback.csv"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		EnableDB:     strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
	}

	var err error
	if cfg.TopK, err = getEnvInt("TOP_K", classifier.DefaultTopK); err != nil {
		return nil, err
	}
	if cfg.TopKeywords, err = getEnvInt("TOP_KEYWORDS", knowledge.DefaultTopKeywords); err != nil {
		return nil, err
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	return cfg, nil
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func waitForShutdown(srv *http.Server, log *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, val)
	}
	return n, nil
}
