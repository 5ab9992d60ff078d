package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/domain"
	"github.com/efreitasn/stockledger/internal/service"
)

// PlayerHandler handles player registration, lookup, balance updates,
// deletion, and transaction history.
type PlayerHandler struct {
	players *service.PlayerService
	history *service.HistoryService
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(players *service.PlayerService, history *service.HistoryService) *PlayerHandler {
	return &PlayerHandler{players: players, history: history}
}

type registerPlayerRequest struct {
	PlayerID    string           `json:"player_id"`
	InitialCash *decimal.Decimal `json:"initial_cash"`
}

type holdingJSON struct {
	Symbol   string           `json:"symbol"`
	Quantity int64            `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Value    *decimal.Decimal `json:"value,omitempty"`
}

type accountJSON struct {
	PlayerID       string          `json:"player_id"`
	Cash           decimal.Decimal `json:"cash"`
	Holdings       []holdingJSON   `json:"holdings"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
	CreatedAt      time.Time       `json:"created_at"`
}

type accountSummaryJSON struct {
	PlayerID     string          `json:"player_id"`
	Cash         decimal.Decimal `json:"cash"`
	HoldingCount int             `json:"holding_count"`
	CreatedAt    time.Time       `json:"created_at"`
}

type updateCashRequest struct {
	Cash decimal.Decimal `json:"cash"`
}

type transactionJSON struct {
	Seq        int64           `json:"seq"`
	RecordID   string          `json:"record_id"`
	PlayerID   string          `json:"player_id"`
	Symbol     string          `json:"symbol"`
	Side       domain.Side     `json:"side"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Total      decimal.Decimal `json:"total"`
	ExecutedAt time.Time       `json:"executed_at"`
}

func toAccountJSON(resp *service.AccountResponse) accountJSON {
	holdings := make([]holdingJSON, len(resp.Holdings))
	for i, h := range resp.Holdings {
		holdings[i] = holdingJSON{
			Symbol:   h.Symbol,
			Quantity: h.Quantity,
			Price:    h.Price,
			Value:    h.Value,
		}
	}
	return accountJSON{
		PlayerID:       resp.PlayerID,
		Cash:           resp.Cash,
		Holdings:       holdings,
		PortfolioValue: resp.PortfolioValue,
		CreatedAt:      resp.CreatedAt,
	}
}

func toTransactionJSON(r *domain.TransactionRecord) transactionJSON {
	return transactionJSON{
		Seq:        r.Seq,
		RecordID:   r.RecordID,
		PlayerID:   r.PlayerID,
		Symbol:     r.Symbol,
		Side:       r.Side,
		Quantity:   r.Quantity,
		Price:      r.Price,
		Total:      r.Total,
		ExecutedAt: r.ExecutedAt,
	}
}

// Register handles POST /players.
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerPlayerRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	resp, err := h.players.Register(service.RegisterPlayerRequest{
		PlayerID:    req.PlayerID,
		InitialCash: req.InitialCash,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toAccountJSON(resp))
}

// List handles GET /players. Supports offset and limit query
// parameters for windowed listings.
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := parsePageQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	summaries := h.players.List(offset, limit)
	out := make([]accountSummaryJSON, len(summaries))
	for i, s := range summaries {
		out[i] = accountSummaryJSON{
			PlayerID:     s.PlayerID,
			Cash:         s.Cash,
			HoldingCount: s.HoldingCount,
			CreatedAt:    s.CreatedAt,
		}
	}
	WriteJSON(w, http.StatusOK, out)
}

// Get handles GET /players/{player_id}.
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.players.Get(chi.URLParam(r, "player_id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toAccountJSON(resp))
}

// UpdateCash handles PUT /players/{player_id}/cash.
func (h *PlayerHandler) UpdateCash(w http.ResponseWriter, r *http.Request) {
	var req updateCashRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	resp, err := h.players.UpdateCash(chi.URLParam(r, "player_id"), req.Cash)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toAccountJSON(resp))
}

// Delete handles DELETE /players/{player_id}.
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.players.Delete(chi.URLParam(r, "player_id")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Transactions handles GET /players/{player_id}/transactions.
func (h *PlayerHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
			return
		}
		limit = n
	}

	records, err := h.history.ForPlayer(chi.URLParam(r, "player_id"), limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	out := make([]transactionJSON, len(records))
	for i, rec := range records {
		out[i] = toTransactionJSON(rec)
	}
	WriteJSON(w, http.StatusOK, out)
}
