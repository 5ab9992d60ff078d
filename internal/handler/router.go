package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/stockledger/internal/engine"
	"github.com/efreitasn/stockledger/internal/service"
)

// NewRouter creates a chi router with all routes registered, request logging,
// and Content-Type validation middleware.
func NewRouter(
	playerSvc *service.PlayerService,
	stockSvc *service.StockService,
	historySvc *service.HistoryService,
	watchlistSvc *service.WatchlistService,
	eng *engine.TradingEngine,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(contentTypeJSON)

	// Create handlers.
	playerH := NewPlayerHandler(playerSvc, historySvc)
	stockH := NewStockHandler(stockSvc)
	watchlistH := NewWatchlistHandler(watchlistSvc)
	orderH := NewOrderHandler(eng)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Player routes.
	r.Post("/players", playerH.Register)
	r.Get("/players", playerH.List)
	r.Get("/players/{player_id}", playerH.Get)
	r.Put("/players/{player_id}/cash", playerH.UpdateCash)
	r.Delete("/players/{player_id}", playerH.Delete)
	r.Get("/players/{player_id}/transactions", playerH.Transactions)

	// Watchlist routes.
	r.Post("/players/{player_id}/watchlist", watchlistH.Add)
	r.Get("/players/{player_id}/watchlist", watchlistH.List)
	r.Delete("/players/{player_id}/watchlist/{symbol}", watchlistH.Remove)

	// Stock routes.
	r.Post("/stocks", stockH.Create)
	r.Get("/stocks", stockH.List)
	r.Get("/stocks/{symbol}/price", stockH.GetPrice)
	r.Put("/stocks/{symbol}/price", stockH.SetPrice)
	r.Delete("/stocks/{symbol}", stockH.Delist)

	// Order routes.
	r.Post("/orders/buy", orderH.Buy)
	r.Post("/orders/sell", orderH.Sell)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests. If the Content-Type header doesn't start with
// "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
