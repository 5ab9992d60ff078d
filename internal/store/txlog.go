package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/efreitasn/stockledger/internal/domain"
)

// TransactionLog is the append-only history of executed trades.
// Sequence numbers are unique and strictly increasing even under
// concurrent appends; records are never mutated or deleted.
type TransactionLog struct {
	mu      sync.RWMutex
	nextSeq int64
	records []*domain.TransactionRecord // chronological
}

// NewTransactionLog creates an empty TransactionLog.
func NewTransactionLog() *TransactionLog {
	return &TransactionLog{nextSeq: 1}
}

// Append assigns the next sequence number and an opaque record id,
// then appends the record. A well-formed record always succeeds.
func (l *TransactionLog) Append(r *domain.TransactionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r.Seq = l.nextSeq
	l.nextSeq++
	r.RecordID = uuid.New().String()
	l.records = append(l.records, r)
}

// ForPlayer returns the player's transactions ordered newest-first.
// limit caps the count; limit <= 0 means all. Querying never mutates
// the log; the returned slice is a copy.
func (l *TransactionLog) ForPlayer(playerID string, limit int) []*domain.TransactionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []*domain.TransactionRecord{}
	for i := len(l.records) - 1; i >= 0; i-- {
		if l.records[i].PlayerID != playerID {
			continue
		}
		out = append(out, l.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// All returns every record in chronological order. The returned slice
// is a copy.
func (l *TransactionLog) All() []*domain.TransactionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.TransactionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of recorded transactions.
func (l *TransactionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
