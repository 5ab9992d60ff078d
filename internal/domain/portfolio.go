package domain

import "math"

// Holding represents a player's position in a single stock symbol.
// A holding exists only while its quantity is at least 1; selling a
// position down to zero removes the holding entirely.
type Holding struct {
	Symbol   string
	Quantity int64
}

// Portfolio is the set of holdings owned by exactly one account. It
// preserves insertion order so listings are stable across reads, the
// way the holdings appeared over time.
//
// Portfolio is not safe for concurrent use on its own; the owning
// account's lock serializes all mutation.
type Portfolio struct {
	holdings map[string]*Holding
	order    []string // symbols in insertion order
}

// NewPortfolio creates an empty portfolio.
func NewPortfolio() *Portfolio {
	return &Portfolio{
		holdings: make(map[string]*Holding),
	}
}

// QuantityOf returns the held quantity for the given symbol, or 0 if
// the portfolio has no holding in that symbol.
func (p *Portfolio) QuantityOf(symbol string) int64 {
	h, ok := p.holdings[symbol]
	if !ok {
		return 0
	}
	return h.Quantity
}

// Increase adds qty shares of symbol, creating the holding if absent.
// qty must be positive and the resulting quantity must fit in int64.
func (p *Portfolio) Increase(symbol string, qty int64) error {
	if qty <= 0 {
		return &ValidationError{Message: "quantity must be a positive integer"}
	}
	if h, ok := p.holdings[symbol]; ok {
		if h.Quantity > math.MaxInt64-qty {
			return &ValidationError{Message: "holding quantity overflow"}
		}
		h.Quantity += qty
		return nil
	}
	p.holdings[symbol] = &Holding{Symbol: symbol, Quantity: qty}
	p.order = append(p.order, symbol)
	return nil
}

// Decrease removes qty shares of symbol and returns the remaining
// quantity. When the remaining quantity reaches zero the holding is
// removed; a zero-quantity holding is never retained.
func (p *Portfolio) Decrease(symbol string, qty int64) (int64, error) {
	if qty <= 0 {
		return 0, &ValidationError{Message: "quantity must be a positive integer"}
	}
	h, ok := p.holdings[symbol]
	if !ok || h.Quantity < qty {
		return 0, &InsufficientQuantityError{
			Symbol:    symbol,
			Requested: qty,
			Held:      p.QuantityOf(symbol),
		}
	}
	h.Quantity -= qty
	if h.Quantity == 0 {
		delete(p.holdings, symbol)
		for i, s := range p.order {
			if s == symbol {
				p.order = append(p.order[:i], p.order[i+1:]...)
				break
			}
		}
		return 0, nil
	}
	return h.Quantity, nil
}

// Holdings returns all holdings in insertion order. The returned slice
// is a copy; the Holding values are snapshots.
func (p *Portfolio) Holdings() []Holding {
	out := make([]Holding, 0, len(p.order))
	for _, s := range p.order {
		out = append(out, *p.holdings[s])
	}
	return out
}

// Len returns the number of distinct holdings.
func (p *Portfolio) Len() int {
	return len(p.holdings)
}
