package domain

import "time"

// WatchlistEntry marks a player's interest in one instrument. Entries
// carry no quantity or money; they are an interest list only, and an
// instrument may be watched whether or not it is held.
type WatchlistEntry struct {
	PlayerID string
	Symbol   string
	AddedAt  time.Time
}
