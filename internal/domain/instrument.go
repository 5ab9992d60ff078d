package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentKind distinguishes common shares from preferred shares.
type InstrumentKind string

const (
	InstrumentKindCommon    InstrumentKind = "common"
	InstrumentKindPreferred InstrumentKind = "preferred"
)

// Instrument represents a tradable stock with a single current market
// price. The price changes only through an explicit price update, never
// as a side effect of trading.
type Instrument struct {
	Symbol string
	Price  decimal.Decimal
	Kind   InstrumentKind
	// DividendRate is a percentage and meaningful only for preferred
	// shares; it is zero for common shares.
	DividendRate decimal.Decimal
	CreatedAt    time.Time
}

// IsPreferred returns true for preferred shares.
func (i *Instrument) IsPreferred() bool {
	return i.Kind == InstrumentKindPreferred
}
