package domain

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a registered player: a cash balance plus the
// portfolio of holdings it owns. The portfolio is created with the
// account and never replaced.
type Account struct {
	PlayerID  string
	Cash      decimal.Decimal
	Portfolio *Portfolio
	CreatedAt time.Time
	Mu        sync.Mutex // per-account lock for cash and portfolio mutations
}

// NewAccount creates an account with the given initial cash and an
// empty portfolio. initialCash must be non-negative (caller-enforced).
func NewAccount(playerID string, initialCash decimal.Decimal) *Account {
	return &Account{
		PlayerID:  playerID,
		Cash:      initialCash,
		Portfolio: NewPortfolio(),
		CreatedAt: time.Now(),
	}
}

// Debit subtracts amount from the cash balance. It fails with an
// InsufficientFundsError if amount exceeds the balance; the balance
// never goes negative.
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.GreaterThan(a.Cash) {
		return &InsufficientFundsError{
			PlayerID:  a.PlayerID,
			Required:  amount,
			Available: a.Cash,
		}
	}
	a.Cash = a.Cash.Sub(amount)
	return nil
}

// Credit adds amount to the cash balance. amount must be non-negative
// (caller-enforced).
func (a *Account) Credit(amount decimal.Decimal) {
	a.Cash = a.Cash.Add(amount)
}
