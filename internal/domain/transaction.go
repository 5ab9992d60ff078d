package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side indicates whether a transaction is a purchase or a sale.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TransactionRecord is the immutable log entry for one executed trade.
// Seq is assigned by the transaction log and is strictly increasing;
// RecordID is an opaque reference for external callers.
type TransactionRecord struct {
	Seq        int64
	RecordID   string
	PlayerID   string
	Symbol     string
	Side       Side
	Quantity   int64
	Price      decimal.Decimal // unit price at execution
	Total      decimal.Decimal // Quantity × Price
	ExecutedAt time.Time
}
