// Package persist defines the snapshot persistence boundary. The
// engine never calls it mid-transaction; snapshots are loaded once at
// bootstrap and written at explicit checkpoint boundaries (shutdown).
package persist

import (
	"github.com/efreitasn/stockledger/internal/domain"
	"github.com/efreitasn/stockledger/internal/store"
)

// Store is the persistence adapter contract. Implementations must not
// be called from within a trading operation; failures are surfaced as
// domain.StorageError and never retried here.
type Store interface {
	LoadAccounts() ([]*domain.Account, error)
	SaveAccounts([]*domain.Account) error
	LoadInstruments() ([]*domain.Instrument, error)
	SaveInstruments([]*domain.Instrument) error
	LoadWatchlist() ([]*domain.WatchlistEntry, error)
	SaveWatchlist([]*domain.WatchlistEntry) error
}

// Bootstrap loads the persisted snapshot into the directory, catalog,
// and watchlist. A missing snapshot yields empty state, not an error.
func Bootstrap(st Store, accounts *store.AccountDirectory, catalog *store.StockCatalog, watchlist *store.WatchlistStore) error {
	instruments, err := st.LoadInstruments()
	if err != nil {
		return err
	}
	for _, inst := range instruments {
		if err := catalog.Create(inst); err != nil {
			return &domain.StorageError{Op: "bootstrap instruments", Err: err}
		}
	}

	accts, err := st.LoadAccounts()
	if err != nil {
		return err
	}
	for _, a := range accts {
		if err := accounts.Create(a); err != nil {
			return &domain.StorageError{Op: "bootstrap accounts", Err: err}
		}
	}

	entries, err := st.LoadWatchlist()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := watchlist.Put(e); err != nil {
			return &domain.StorageError{Op: "bootstrap watchlist", Err: err}
		}
	}
	return nil
}

// Flush writes the current directory, catalog, and watchlist state
// through the adapter. Each account is snapshotted under its own lock
// so no in-flight order is captured half-applied.
func Flush(st Store, accounts *store.AccountDirectory, catalog *store.StockCatalog, watchlist *store.WatchlistStore) error {
	instruments := catalog.List()
	insts := make([]*domain.Instrument, len(instruments))
	for i := range instruments {
		insts[i] = &instruments[i]
	}
	if err := st.SaveInstruments(insts); err != nil {
		return err
	}

	accts := accounts.All()
	for _, a := range accts {
		a.Mu.Lock()
	}
	err := st.SaveAccounts(accts)
	for _, a := range accts {
		a.Mu.Unlock()
	}
	if err != nil {
		return err
	}

	all := watchlist.All()
	entries := make([]*domain.WatchlistEntry, len(all))
	for i := range all {
		entries[i] = &all[i]
	}
	return st.SaveWatchlist(entries)
}
