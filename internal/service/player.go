package service

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/domain"
	"github.com/efreitasn/stockledger/internal/store"
)

var playerIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// RegisterPlayerRequest represents the input for player registration.
// A nil InitialCash means "use the configured default".
type RegisterPlayerRequest struct {
	PlayerID    string
	InitialCash *decimal.Decimal
}

// HoldingView represents a single holding in an account response,
// valued at the current catalog price. Price and Value are nil when
// the instrument has been delisted.
type HoldingView struct {
	Symbol   string
	Quantity int64
	Price    *decimal.Decimal
	Value    *decimal.Decimal
}

// AccountResponse represents the response for the account endpoint.
type AccountResponse struct {
	PlayerID       string
	Cash           decimal.Decimal
	Holdings       []HoldingView
	PortfolioValue decimal.Decimal // listed holdings only
	CreatedAt      time.Time
}

// AccountSummary represents one account in a listing.
type AccountSummary struct {
	PlayerID     string
	Cash         decimal.Decimal
	HoldingCount int
	CreatedAt    time.Time
}

// PlayerService handles player registration, lookup, administrative
// balance updates, and deletion.
type PlayerService struct {
	accounts    *store.AccountDirectory
	catalog     *store.StockCatalog
	watchlist   *store.WatchlistStore
	defaultCash decimal.Decimal
}

// NewPlayerService creates a new PlayerService. defaultCash is the
// initial balance used when a registration omits one.
func NewPlayerService(accounts *store.AccountDirectory, catalog *store.StockCatalog, watchlist *store.WatchlistStore, defaultCash decimal.Decimal) *PlayerService {
	return &PlayerService{
		accounts:    accounts,
		catalog:     catalog,
		watchlist:   watchlist,
		defaultCash: defaultCash,
	}
}

// Register validates the request, creates an account, and returns its
// snapshot. The snapshot is built from the account just created, so a
// successful registration always yields a response even if the account
// is deleted concurrently.
func (s *PlayerService) Register(req RegisterPlayerRequest) (*AccountResponse, error) {
	if !playerIDRegex.MatchString(req.PlayerID) {
		return nil, &domain.ValidationError{
			Message: "player_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}

	cash := s.defaultCash
	if req.InitialCash != nil {
		cash = *req.InitialCash
	}
	if cash.IsNegative() {
		return nil, &domain.ValidationError{
			Message: "initial_cash must be >= 0",
		}
	}

	acct := domain.NewAccount(req.PlayerID, cash)
	if err := s.accounts.Create(acct); err != nil {
		return nil, err
	}
	return s.snapshot(acct), nil
}

// Get returns a snapshot of the account with each holding valued at
// the current catalog price.
func (s *PlayerService) Get(playerID string) (*AccountResponse, error) {
	acct, err := s.accounts.Get(playerID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(acct), nil
}

func (s *PlayerService) snapshot(acct *domain.Account) *AccountResponse {
	acct.Mu.Lock()
	defer acct.Mu.Unlock()

	holdings := acct.Portfolio.Holdings()
	views := make([]HoldingView, 0, len(holdings))
	portfolioValue := decimal.Zero
	for _, h := range holdings {
		view := HoldingView{Symbol: h.Symbol, Quantity: h.Quantity}
		if price, err := s.catalog.Price(h.Symbol); err == nil {
			value := price.Mul(decimal.NewFromInt(h.Quantity))
			view.Price = &price
			view.Value = &value
			portfolioValue = portfolioValue.Add(value)
		}
		views = append(views, view)
	}

	return &AccountResponse{
		PlayerID:       acct.PlayerID,
		Cash:           acct.Cash,
		Holdings:       views,
		PortfolioValue: portfolioValue,
		CreatedAt:      acct.CreatedAt,
	}
}

// UpdateCash performs an administrative balance update, replacing the
// account's cash balance.
func (s *PlayerService) UpdateCash(playerID string, cash decimal.Decimal) (*AccountResponse, error) {
	if cash.IsNegative() {
		return nil, &domain.ValidationError{
			Message: "cash must be >= 0",
		}
	}

	acct, err := s.accounts.Get(playerID)
	if err != nil {
		return nil, err
	}

	acct.Mu.Lock()
	acct.Cash = cash
	acct.Mu.Unlock()

	return s.Get(playerID)
}

// Delete removes the account entirely, along with its watchlist. A
// player registered again under the same id starts from a clean slate.
func (s *PlayerService) Delete(playerID string) error {
	if err := s.accounts.Delete(playerID); err != nil {
		return err
	}
	s.watchlist.DropPlayer(playerID)
	return nil
}

// List returns account summaries sorted by player_id, windowed by
// offset and limit. A limit <= 0 means no limit.
func (s *PlayerService) List(offset, limit int) []AccountSummary {
	accounts := paginate(s.accounts.All(), offset, limit)
	out := make([]AccountSummary, 0, len(accounts))
	for _, acct := range accounts {
		acct.Mu.Lock()
		out = append(out, AccountSummary{
			PlayerID:     acct.PlayerID,
			Cash:         acct.Cash,
			HoldingCount: acct.Portfolio.Len(),
			CreatedAt:    acct.CreatedAt,
		})
		acct.Mu.Unlock()
	}
	return out
}
