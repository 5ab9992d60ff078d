package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/domain"
	"github.com/efreitasn/stockledger/internal/store"
)

// WatchlistView represents one watchlist entry valued at the current
// catalog price. Price is nil when the instrument has been delisted
// since it was added.
type WatchlistView struct {
	Symbol  string
	Price   *decimal.Decimal
	AddedAt time.Time
}

// WatchlistService handles per-player watchlists: interest lists of
// instruments, independent of holdings.
type WatchlistService struct {
	watchlist *store.WatchlistStore
	accounts  *store.AccountDirectory
	catalog   *store.StockCatalog
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(watchlist *store.WatchlistStore, accounts *store.AccountDirectory, catalog *store.StockCatalog) *WatchlistService {
	return &WatchlistService{
		watchlist: watchlist,
		accounts:  accounts,
		catalog:   catalog,
	}
}

// Add puts a symbol on the player's watchlist. The player and the
// instrument must both exist, and the symbol must not already be
// watched by the player.
func (s *WatchlistService) Add(playerID, symbol string) (*WatchlistView, error) {
	if !s.accounts.Exists(playerID) {
		return nil, domain.ErrPlayerNotFound
	}
	if _, err := s.catalog.Get(symbol); err != nil {
		return nil, err
	}

	entry, err := s.watchlist.Add(playerID, symbol)
	if err != nil {
		return nil, err
	}
	return s.view(*entry), nil
}

// Remove takes a symbol off the player's watchlist.
func (s *WatchlistService) Remove(playerID, symbol string) error {
	if !s.accounts.Exists(playerID) {
		return domain.ErrPlayerNotFound
	}
	return s.watchlist.Remove(playerID, symbol)
}

// List returns the player's watchlist newest-first, each entry valued
// at the current catalog price.
func (s *WatchlistService) List(playerID string) ([]WatchlistView, error) {
	if !s.accounts.Exists(playerID) {
		return nil, domain.ErrPlayerNotFound
	}

	entries := s.watchlist.ForPlayer(playerID)
	out := make([]WatchlistView, 0, len(entries))
	for _, e := range entries {
		out = append(out, *s.view(e))
	}
	return out, nil
}

func (s *WatchlistService) view(e domain.WatchlistEntry) *WatchlistView {
	v := &WatchlistView{Symbol: e.Symbol, AddedAt: e.AddedAt}
	if price, err := s.catalog.Price(e.Symbol); err == nil {
		v.Price = &price
	}
	return v
}
