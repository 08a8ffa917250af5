package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	alpacamd "github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/joho/godotenv"

	"stockcompass/internal/config"
	"stockcompass/internal/httpapi"
	"stockcompass/internal/llm"
	"stockcompass/internal/marketdata"
	"stockcompass/internal/news"
	"stockcompass/internal/store"
	"stockcompass/internal/util"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfgPath := "config/stockcompass.yaml"
	if p := os.Getenv("STOCKCOMPASS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level)
	slog.SetDefault(logger)

	snapshots, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening snapshot store: %v", err)
	}
	defer snapshots.Close()

	newsStore := store.NewParquetStore(cfg.Storage.DataDir)

	var alpaca *alpacamd.Client
	if cfg.News.AlpacaAPIKey != "" && cfg.News.AlpacaAPISecret != "" {
		alpaca = alpacamd.NewClient(alpacamd.ClientOpts{
			APIKey:    cfg.News.AlpacaAPIKey,
			APISecret: cfg.News.AlpacaAPISecret,
		})
	}
	fetcher := news.NewFetcher(alpaca)

	var analyzer *llm.Analyzer
	if cfg.OpenAI.APIKey != "" {
		analyzer = llm.NewAnalyzer(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.FileSearchURL, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set, analysis endpoint disabled")
	}

	srv := httpapi.NewServer(marketdata.NewClient(logger), snapshots, newsStore, fetcher, analyzer, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Handler(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("stockcompass server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
