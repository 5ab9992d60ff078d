package store

import (
	"sort"
	"sync"
	"time"

	"github.com/efreitasn/stockledger/internal/domain"
)

// WatchlistStore is a thread-safe in-memory collection of watchlist
// entries, keyed by player_id. Entries are kept in insertion order per
// player; listings reverse that order so the newest entry comes first.
type WatchlistStore struct {
	mu      sync.RWMutex
	entries map[string][]*domain.WatchlistEntry
}

// NewWatchlistStore creates an empty WatchlistStore.
func NewWatchlistStore() *WatchlistStore {
	return &WatchlistStore{
		entries: make(map[string][]*domain.WatchlistEntry),
	}
}

// Add records that a player watches a symbol, stamping the entry with
// the current time. It returns domain.ErrWatchlistExists if the player
// already watches it.
func (s *WatchlistStore) Add(playerID, symbol string) (*domain.WatchlistEntry, error) {
	entry := &domain.WatchlistEntry{
		PlayerID: playerID,
		Symbol:   symbol,
		AddedAt:  time.Now().UTC(),
	}
	if err := s.Put(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Put inserts an entry as-is, keeping its AddedAt. Entries must arrive
// oldest-first per player for listings to stay newest-first.
func (s *WatchlistStore) Put(entry *domain.WatchlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries[entry.PlayerID] {
		if e.Symbol == entry.Symbol {
			return domain.ErrWatchlistExists
		}
	}
	s.entries[entry.PlayerID] = append(s.entries[entry.PlayerID], entry)
	return nil
}

// Remove deletes a player's entry for a symbol. It returns
// domain.ErrWatchlistNotFound if the player does not watch it.
func (s *WatchlistStore) Remove(playerID, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entries[playerID]
	for i, e := range list {
		if e.Symbol == symbol {
			s.entries[playerID] = append(list[:i], list[i+1:]...)
			if len(s.entries[playerID]) == 0 {
				delete(s.entries, playerID)
			}
			return nil
		}
	}
	return domain.ErrWatchlistNotFound
}

// ForPlayer returns a player's entries newest-first. The returned slice
// holds copies, so callers cannot mutate stored entries.
func (s *WatchlistStore) ForPlayer(playerID string) []domain.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.entries[playerID]
	out := make([]domain.WatchlistEntry, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, *list[i])
	}
	return out
}

// DropPlayer discards every entry belonging to a player. It is a no-op
// when the player watches nothing.
func (s *WatchlistStore) DropPlayer(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, playerID)
}

// All returns every entry sorted by player_id, oldest-first within a
// player. The returned slice holds copies.
func (s *WatchlistStore) All() []domain.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]string, 0, len(s.entries))
	for id := range s.entries {
		players = append(players, id)
	}
	sort.Strings(players)

	var out []domain.WatchlistEntry
	for _, id := range players {
		for _, e := range s.entries[id] {
			out = append(out, *e)
		}
	}
	return out
}

// Len returns the total number of entries across all players.
func (s *WatchlistStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, list := range s.entries {
		n += len(list)
	}
	return n
}
