package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"stockcompass/internal/llm"
	"stockcompass/internal/marketdata"
	"stockcompass/internal/news"
	"stockcompass/internal/store"
)

// Server serves the dashboard HTTP API.
type Server struct {
	market    *marketdata.Client
	snapshots store.SnapshotStore
	newsStore store.NewsStore
	fetcher   *news.Fetcher
	analyzer  *llm.Analyzer
	log       *slog.Logger
}

// NewServer creates the API server. newsStore and fetcher may be nil when
// the news panel is not configured; analyzer may be nil when no completion
// credential is set.
func NewServer(
	market *marketdata.Client,
	snapshots store.SnapshotStore,
	newsStore store.NewsStore,
	fetcher *news.Fetcher,
	analyzer *llm.Analyzer,
	log *slog.Logger,
) *Server {
	return &Server{
		market:    market,
		snapshots: snapshots,
		newsStore: newsStore,
		fetcher:   fetcher,
		analyzer:  analyzer,
		log:       log,
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stockdata/", s.handleStockData)
	mux.HandleFunc("GET /api/stock_metadata/", s.handleMetadata)
	mux.HandleFunc("POST /api/unusual_range/", s.handleUnusualRange)
	mux.HandleFunc("POST /api/openai_analysis", s.handleAnalysis)
	mux.HandleFunc("GET /api/news/{symbol}", s.handleNews)
}

// Handler returns an http.Handler with CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Details: details})
}
