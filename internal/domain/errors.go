package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrPlayerExists         = errors.New("player_already_exists")
	ErrPlayerNotFound       = errors.New("player_not_found")
	ErrInstrumentExists     = errors.New("instrument_already_exists")
	ErrInstrumentNotFound   = errors.New("instrument_not_found")
	ErrInsufficientFunds    = errors.New("insufficient_funds")
	ErrInsufficientQuantity = errors.New("insufficient_quantity")
	ErrStorage              = errors.New("storage_failure")
	ErrWatchlistExists      = errors.New("watchlist_entry_already_exists")
	ErrWatchlistNotFound    = errors.New("watchlist_entry_not_found")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InsufficientFundsError reports a purchase whose total cost exceeds the
// player's cash balance. It matches ErrInsufficientFunds under errors.Is.
type InsufficientFundsError struct {
	PlayerID  string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("player %s has insufficient funds: required %s, available %s",
		e.PlayerID, e.Required, e.Available)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// InsufficientQuantityError reports a sale whose quantity exceeds the
// player's holding. It matches ErrInsufficientQuantity under errors.Is.
type InsufficientQuantityError struct {
	PlayerID  string
	Symbol    string
	Requested int64
	Held      int64
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("player %s has insufficient quantity of %s: requested %d, held %d",
		e.PlayerID, e.Symbol, e.Requested, e.Held)
}

func (e *InsufficientQuantityError) Is(target error) bool {
	return target == ErrInsufficientQuantity
}

// StorageError reports a persistence adapter failure. It matches
// ErrStorage under errors.Is and unwraps to the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
