package store

import (
	"sort"
	"sync"

	"github.com/efreitasn/stockledger/internal/domain"
)

// AccountDirectory is a thread-safe in-memory collection of accounts,
// keyed by player_id. It is the aggregate root external collaborators
// address by player identity.
type AccountDirectory struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewAccountDirectory creates an empty AccountDirectory.
func NewAccountDirectory() *AccountDirectory {
	return &AccountDirectory{
		accounts: make(map[string]*domain.Account),
	}
}

// Create adds an account to the directory. It returns
// domain.ErrPlayerExists if an account with the same player_id
// already exists.
func (d *AccountDirectory) Create(a *domain.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[a.PlayerID]; exists {
		return domain.ErrPlayerExists
	}
	d.accounts[a.PlayerID] = a
	return nil
}

// Get retrieves an account by player_id. It returns
// domain.ErrPlayerNotFound if the account does not exist.
func (d *AccountDirectory) Get(playerID string) (*domain.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	a, ok := d.accounts[playerID]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	return a, nil
}

// Delete removes an account by player_id. It returns
// domain.ErrPlayerNotFound if the account does not exist.
func (d *AccountDirectory) Delete(playerID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.accounts[playerID]; !ok {
		return domain.ErrPlayerNotFound
	}
	delete(d.accounts, playerID)
	return nil
}

// Exists returns true if an account with the given player_id exists.
func (d *AccountDirectory) Exists(playerID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.accounts[playerID]
	return ok
}

// All returns every account sorted by player_id for stable listings.
func (d *AccountDirectory) All() []*domain.Account {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*domain.Account, 0, len(d.accounts))
	for _, a := range d.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// Len returns the number of registered accounts.
func (d *AccountDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts)
}
