package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/domain"
	"github.com/efreitasn/stockledger/internal/service"
)

// StockHandler handles instrument administration endpoints.
type StockHandler struct {
	stocks *service.StockService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stocks *service.StockService) *StockHandler {
	return &StockHandler{stocks: stocks}
}

type createInstrumentRequest struct {
	Symbol       string           `json:"symbol"`
	Price        decimal.Decimal  `json:"price"`
	Kind         string           `json:"kind"`
	DividendRate *decimal.Decimal `json:"dividend_rate"`
}

type setPriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type instrumentJSON struct {
	Symbol       string           `json:"symbol"`
	Price        decimal.Decimal  `json:"price"`
	Kind         string           `json:"kind"`
	DividendRate *decimal.Decimal `json:"dividend_rate,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

func toInstrumentJSON(inst domain.Instrument) instrumentJSON {
	out := instrumentJSON{
		Symbol:    inst.Symbol,
		Price:     inst.Price,
		Kind:      string(inst.Kind),
		CreatedAt: inst.CreatedAt,
	}
	if inst.IsPreferred() {
		rate := inst.DividendRate
		out.DividendRate = &rate
	}
	return out
}

// Create handles POST /stocks.
func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInstrumentRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	inst, err := h.stocks.Create(service.CreateInstrumentRequest{
		Symbol:       req.Symbol,
		Price:        req.Price,
		Kind:         req.Kind,
		DividendRate: req.DividendRate,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toInstrumentJSON(*inst))
}

// List handles GET /stocks. Supports offset and limit query
// parameters for windowed listings.
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := parsePageQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	instruments := h.stocks.List(offset, limit)
	out := make([]instrumentJSON, len(instruments))
	for i, inst := range instruments {
		out[i] = toInstrumentJSON(inst)
	}
	WriteJSON(w, http.StatusOK, out)
}

// GetPrice handles GET /stocks/{symbol}/price.
func (h *StockHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	inst, err := h.stocks.Get(chi.URLParam(r, "symbol"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"symbol": inst.Symbol,
		"price":  inst.Price,
	})
}

// SetPrice handles PUT /stocks/{symbol}/price.
func (h *StockHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	var req setPriceRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	inst, err := h.stocks.SetPrice(chi.URLParam(r, "symbol"), req.Price)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toInstrumentJSON(inst))
}

// Delist handles DELETE /stocks/{symbol}.
func (h *StockHandler) Delist(w http.ResponseWriter, r *http.Request) {
	if err := h.stocks.Delist(chi.URLParam(r, "symbol")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "delisted"})
}
