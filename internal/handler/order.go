package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/engine"
)

// OrderHandler handles buy and sell order submission.
type OrderHandler struct {
	engine *engine.TradingEngine
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(eng *engine.TradingEngine) *OrderHandler {
	return &OrderHandler{engine: eng}
}

type orderRequest struct {
	PlayerID string `json:"player_id"`
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

type orderResponse struct {
	Record          transactionJSON `json:"record"`
	Cash            decimal.Decimal `json:"cash"`
	HoldingQuantity int64           `json:"holding_quantity"`
}

func toOrderResponse(res *engine.TradeResult) orderResponse {
	return orderResponse{
		Record:          toTransactionJSON(res.Record),
		Cash:            res.Cash,
		HoldingQuantity: res.HoldingQuantity,
	}
}

// Buy handles POST /orders/buy.
func (h *OrderHandler) Buy(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.engine.Buy(req.PlayerID, req.Symbol, req.Quantity)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toOrderResponse(res))
}

// Sell handles POST /orders/sell.
func (h *OrderHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.engine.Sell(req.PlayerID, req.Symbol, req.Quantity)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toOrderResponse(res))
}
