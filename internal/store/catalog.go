package store

import (
	"sync"

	"github.com/google/btree"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/domain"
)

// catalogLess orders catalog entries by symbol ascending, so an
// in-order traversal lists instruments deterministically.
func catalogLess(a, b *domain.Instrument) bool {
	return a.Symbol < b.Symbol
}

// StockCatalog holds the current tradable instruments and their market
// prices. Instruments are indexed both by symbol and in a B-tree for
// ordered listing. Price reads may run concurrently with price writes;
// the RWMutex guarantees readers see either the old or the new price,
// never a torn value.
type StockCatalog struct {
	mu    sync.RWMutex
	index map[string]*domain.Instrument
	tree  *btree.BTreeG[*domain.Instrument]
}

// NewStockCatalog creates an empty StockCatalog.
func NewStockCatalog() *StockCatalog {
	const degree = 16
	return &StockCatalog{
		index: make(map[string]*domain.Instrument),
		tree:  btree.NewG[*domain.Instrument](degree, catalogLess),
	}
}

// Create adds an instrument to the catalog. It returns
// domain.ErrInstrumentExists if the symbol is already listed and a
// ValidationError if the initial price or dividend rate is negative.
func (c *StockCatalog) Create(inst *domain.Instrument) error {
	if inst.Price.IsNegative() {
		return &domain.ValidationError{Message: "price must be >= 0"}
	}
	if inst.DividendRate.IsNegative() {
		return &domain.ValidationError{Message: "dividend_rate must be >= 0"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[inst.Symbol]; exists {
		return domain.ErrInstrumentExists
	}
	c.index[inst.Symbol] = inst
	c.tree.ReplaceOrInsert(inst)
	return nil
}

// Get retrieves a snapshot of the instrument for the given symbol. It
// returns domain.ErrInstrumentNotFound if the symbol is not listed.
func (c *StockCatalog) Get(symbol string) (domain.Instrument, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	inst, ok := c.index[symbol]
	if !ok {
		return domain.Instrument{}, domain.ErrInstrumentNotFound
	}
	return *inst, nil
}

// Price returns the current market price for the given symbol. It
// returns domain.ErrInstrumentNotFound if the symbol is not listed.
func (c *StockCatalog) Price(symbol string) (decimal.Decimal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	inst, ok := c.index[symbol]
	if !ok {
		return decimal.Decimal{}, domain.ErrInstrumentNotFound
	}
	return inst.Price, nil
}

// SetPrice updates the current market price for the given symbol.
// Subsequent reads see the new price immediately; already-recorded
// transactions are unaffected.
func (c *StockCatalog) SetPrice(symbol string, price decimal.Decimal) error {
	if price.IsNegative() {
		return &domain.ValidationError{Message: "price must be >= 0"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.index[symbol]
	if !ok {
		return domain.ErrInstrumentNotFound
	}
	inst.Price = price
	return nil
}

// Delist removes an instrument from the catalog. Holdings in the
// symbol survive delisting but can no longer be traded. It returns
// domain.ErrInstrumentNotFound if the symbol is not listed.
func (c *StockCatalog) Delist(symbol string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.index[symbol]
	if !ok {
		return domain.ErrInstrumentNotFound
	}
	delete(c.index, symbol)
	c.tree.Delete(inst)
	return nil
}

// List returns a snapshot of all instruments ordered by symbol. A
// fresh call always reflects the latest committed prices.
func (c *StockCatalog) List() []domain.Instrument {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Instrument, 0, c.tree.Len())
	c.tree.Ascend(func(inst *domain.Instrument) bool {
		out = append(out, *inst)
		return true
	})
	return out
}

// Len returns the number of listed instruments.
func (c *StockCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.index)
}
