package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/service"
)

// WatchlistHandler handles per-player watchlist endpoints.
type WatchlistHandler struct {
	watchlist *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlist *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist}
}

type addWatchlistRequest struct {
	Symbol string `json:"symbol"`
}

type watchlistEntryJSON struct {
	Symbol  string           `json:"symbol"`
	Price   *decimal.Decimal `json:"price,omitempty"`
	AddedAt time.Time        `json:"added_at"`
}

func toWatchlistEntryJSON(v service.WatchlistView) watchlistEntryJSON {
	return watchlistEntryJSON{
		Symbol:  v.Symbol,
		Price:   v.Price,
		AddedAt: v.AddedAt,
	}
}

// Add handles POST /players/{player_id}/watchlist.
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addWatchlistRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	view, err := h.watchlist.Add(chi.URLParam(r, "player_id"), req.Symbol)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toWatchlistEntryJSON(*view))
}

// List handles GET /players/{player_id}/watchlist. Entries come back
// newest-first.
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.watchlist.List(chi.URLParam(r, "player_id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	out := make([]watchlistEntryJSON, len(views))
	for i, v := range views {
		out[i] = toWatchlistEntryJSON(v)
	}
	WriteJSON(w, http.StatusOK, out)
}

// Remove handles DELETE /players/{player_id}/watchlist/{symbol}.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.watchlist.Remove(chi.URLParam(r, "player_id"), chi.URLParam(r, "symbol")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
