package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/domain"
	"github.com/efreitasn/stockledger/internal/store"
)

// TradeResult reports the outcome of a successful buy or sell: the
// appended transaction record plus the account's updated cash balance
// and remaining holding quantity (0 when the holding was removed).
type TradeResult struct {
	Record          *domain.TransactionRecord
	Cash            decimal.Decimal
	HoldingQuantity int64
}

// TradingEngine validates and executes buy/sell orders against the
// account directory and the stock catalog, recording every executed
// order in the transaction log.
//
// Each order passes four checkpoints: input validation, reference
// resolution, affordability/holdings check at the current catalog
// price, and atomic apply. The per-account lock is held from the
// price read through the apply, so no partially applied order is ever
// observable and overlapping orders from one player serialize.
type TradingEngine struct {
	accounts *store.AccountDirectory
	catalog  *store.StockCatalog
	log      *store.TransactionLog
}

// NewTradingEngine creates a TradingEngine with the given dependencies.
func NewTradingEngine(
	accounts *store.AccountDirectory,
	catalog *store.StockCatalog,
	log *store.TransactionLog,
) *TradingEngine {
	return &TradingEngine{
		accounts: accounts,
		catalog:  catalog,
		log:      log,
	}
}

// Buy purchases quantity shares of symbol for the player at the
// current catalog price, debiting cash and increasing the holding
// atomically.
func (e *TradingEngine) Buy(playerID, symbol string, quantity int64) (*TradeResult, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}

	acct, err := e.accounts.Get(playerID)
	if err != nil {
		return nil, fmt.Errorf("unknown player %q: %w", playerID, domain.ErrPlayerNotFound)
	}

	acct.Mu.Lock()
	defer acct.Mu.Unlock()

	// The execution price is the catalog price at this moment, read
	// under the account lock so the affordability check and the debit
	// use the same value.
	price, err := e.catalog.Price(symbol)
	if err != nil {
		return nil, fmt.Errorf("unknown instrument %q: %w", symbol, domain.ErrInstrumentNotFound)
	}

	total := price.Mul(decimal.NewFromInt(quantity))
	if err := acct.Debit(total); err != nil {
		return nil, err
	}
	if err := acct.Portfolio.Increase(symbol, quantity); err != nil {
		// Roll back the debit so the account is never observed in a
		// post-order state with cash gone and no shares received.
		acct.Credit(total)
		return nil, err
	}

	record := &domain.TransactionRecord{
		PlayerID:   playerID,
		Symbol:     symbol,
		Side:       domain.SideBuy,
		Quantity:   quantity,
		Price:      price,
		Total:      total,
		ExecutedAt: time.Now(),
	}
	e.log.Append(record)

	return &TradeResult{
		Record:          record,
		Cash:            acct.Cash,
		HoldingQuantity: acct.Portfolio.QuantityOf(symbol),
	}, nil
}

// Sell sells quantity shares of symbol for the player at the current
// catalog price, decreasing the holding and crediting cash atomically.
// Selling the entire held quantity removes the holding.
func (e *TradingEngine) Sell(playerID, symbol string, quantity int64) (*TradeResult, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Message: "quantity must be a positive integer"}
	}

	acct, err := e.accounts.Get(playerID)
	if err != nil {
		return nil, fmt.Errorf("unknown player %q: %w", playerID, domain.ErrPlayerNotFound)
	}

	acct.Mu.Lock()
	defer acct.Mu.Unlock()

	held := acct.Portfolio.QuantityOf(symbol)

	price, err := e.catalog.Price(symbol)
	if err != nil {
		if held > 0 {
			// The holding survives delisting but must not settle at a
			// stale price.
			return nil, fmt.Errorf("instrument %q no longer tradable: %w", symbol, domain.ErrInstrumentNotFound)
		}
		return nil, fmt.Errorf("unknown instrument %q: %w", symbol, domain.ErrInstrumentNotFound)
	}

	if held < quantity {
		return nil, &domain.InsufficientQuantityError{
			PlayerID:  playerID,
			Symbol:    symbol,
			Requested: quantity,
			Held:      held,
		}
	}

	remaining, err := acct.Portfolio.Decrease(symbol, quantity)
	if err != nil {
		return nil, err
	}
	total := price.Mul(decimal.NewFromInt(quantity))
	acct.Credit(total)

	record := &domain.TransactionRecord{
		PlayerID:   playerID,
		Symbol:     symbol,
		Side:       domain.SideSell,
		Quantity:   quantity,
		Price:      price,
		Total:      total,
		ExecutedAt: time.Now(),
	}
	e.log.Append(record)

	return &TradeResult{
		Record:          record,
		Cash:            acct.Cash,
		HoldingQuantity: remaining,
	}, nil
}
