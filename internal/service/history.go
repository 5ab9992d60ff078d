package service

import (
	"github.com/efreitasn/stockledger/internal/domain"
	"github.com/efreitasn/stockledger/internal/store"
)

// HistoryService answers transaction history queries against the
// append-only transaction log.
type HistoryService struct {
	accounts *store.AccountDirectory
	log      *store.TransactionLog
	maxLimit int // 0 means unbounded
}

// NewHistoryService creates a new HistoryService. maxLimit caps the
// number of records a single query may return; 0 means unbounded.
func NewHistoryService(accounts *store.AccountDirectory, log *store.TransactionLog, maxLimit int) *HistoryService {
	return &HistoryService{
		accounts: accounts,
		log:      log,
		maxLimit: maxLimit,
	}
}

// ForPlayer returns the player's transactions newest-first. limit <= 0
// means "all", subject to the configured cap.
func (s *HistoryService) ForPlayer(playerID string, limit int) ([]*domain.TransactionRecord, error) {
	if !s.accounts.Exists(playerID) {
		return nil, domain.ErrPlayerNotFound
	}
	if s.maxLimit > 0 && (limit <= 0 || limit > s.maxLimit) {
		limit = s.maxLimit
	}
	return s.log.ForPlayer(playerID, limit), nil
}
