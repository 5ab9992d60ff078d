package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/domain"
)

const (
	accountsFile    = "accounts.json"
	instrumentsFile = "instruments.json"
	watchlistFile   = "watchlist.json"
)

// FileStore persists snapshots as JSON files in a directory:
// accounts.json, instruments.json, and watchlist.json. Writes go
// through a temp file and rename so a crashed write never truncates
// the previous snapshot.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.StorageError{Op: "create data dir", Err: err}
	}
	return &FileStore{dir: dir}, nil
}

type holdingRecord struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

type accountRecord struct {
	PlayerID  string          `json:"player_id"`
	Cash      decimal.Decimal `json:"cash"`
	Holdings  []holdingRecord `json:"holdings"`
	CreatedAt time.Time       `json:"created_at"`
}

type watchlistRecord struct {
	PlayerID string    `json:"player_id"`
	Symbol   string    `json:"symbol"`
	AddedAt  time.Time `json:"added_at"`
}

type instrumentRecord struct {
	Symbol       string          `json:"symbol"`
	Price        decimal.Decimal `json:"price"`
	Kind         string          `json:"kind"`
	DividendRate decimal.Decimal `json:"dividend_rate"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LoadAccounts reads the accounts snapshot. A missing file means
// empty state.
func (f *FileStore) LoadAccounts() ([]*domain.Account, error) {
	var records []accountRecord
	if err := f.readJSON(accountsFile, &records); err != nil {
		return nil, err
	}

	out := make([]*domain.Account, 0, len(records))
	for _, r := range records {
		acct := domain.NewAccount(r.PlayerID, r.Cash)
		acct.CreatedAt = r.CreatedAt
		for _, h := range r.Holdings {
			if err := acct.Portfolio.Increase(h.Symbol, h.Quantity); err != nil {
				return nil, &domain.StorageError{Op: "load accounts", Err: err}
			}
		}
		out = append(out, acct)
	}
	return out, nil
}

// SaveAccounts writes the accounts snapshot. Callers must hold each
// account's lock.
func (f *FileStore) SaveAccounts(accounts []*domain.Account) error {
	records := make([]accountRecord, 0, len(accounts))
	for _, a := range accounts {
		holdings := a.Portfolio.Holdings()
		hs := make([]holdingRecord, 0, len(holdings))
		for _, h := range holdings {
			hs = append(hs, holdingRecord{Symbol: h.Symbol, Quantity: h.Quantity})
		}
		records = append(records, accountRecord{
			PlayerID:  a.PlayerID,
			Cash:      a.Cash,
			Holdings:  hs,
			CreatedAt: a.CreatedAt,
		})
	}
	return f.writeJSON(accountsFile, records, "save accounts")
}

// LoadInstruments reads the instruments snapshot. A missing file
// means empty state.
func (f *FileStore) LoadInstruments() ([]*domain.Instrument, error) {
	var records []instrumentRecord
	if err := f.readJSON(instrumentsFile, &records); err != nil {
		return nil, err
	}

	out := make([]*domain.Instrument, 0, len(records))
	for _, r := range records {
		kind := domain.InstrumentKind(r.Kind)
		if kind == "" {
			kind = domain.InstrumentKindCommon
		}
		out = append(out, &domain.Instrument{
			Symbol:       r.Symbol,
			Price:        r.Price,
			Kind:         kind,
			DividendRate: r.DividendRate,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out, nil
}

// SaveInstruments writes the instruments snapshot.
func (f *FileStore) SaveInstruments(instruments []*domain.Instrument) error {
	records := make([]instrumentRecord, 0, len(instruments))
	for _, inst := range instruments {
		records = append(records, instrumentRecord{
			Symbol:       inst.Symbol,
			Price:        inst.Price,
			Kind:         string(inst.Kind),
			DividendRate: inst.DividendRate,
			CreatedAt:    inst.CreatedAt,
		})
	}
	return f.writeJSON(instrumentsFile, records, "save instruments")
}

// LoadWatchlist reads the watchlist snapshot. A missing file means
// empty state.
func (f *FileStore) LoadWatchlist() ([]*domain.WatchlistEntry, error) {
	var records []watchlistRecord
	if err := f.readJSON(watchlistFile, &records); err != nil {
		return nil, err
	}

	out := make([]*domain.WatchlistEntry, 0, len(records))
	for _, r := range records {
		out = append(out, &domain.WatchlistEntry{
			PlayerID: r.PlayerID,
			Symbol:   r.Symbol,
			AddedAt:  r.AddedAt,
		})
	}
	return out, nil
}

// SaveWatchlist writes the watchlist snapshot.
func (f *FileStore) SaveWatchlist(entries []*domain.WatchlistEntry) error {
	records := make([]watchlistRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, watchlistRecord{
			PlayerID: e.PlayerID,
			Symbol:   e.Symbol,
			AddedAt:  e.AddedAt,
		})
	}
	return f.writeJSON(watchlistFile, records, "save watchlist")
}

func (f *FileStore) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &domain.StorageError{Op: "read " + name, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &domain.StorageError{Op: "decode " + name, Err: err}
	}
	return nil
}

func (f *FileStore) writeJSON(name string, v any, op string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	path := filepath.Join(f.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &domain.StorageError{Op: op, Err: err}
	}
	return nil
}
