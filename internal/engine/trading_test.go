package engine

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/domain"
	"github.com/efreitasn/stockledger/internal/store"
)

type fixture struct {
	accounts *store.AccountDirectory
	catalog  *store.StockCatalog
	log      *store.TransactionLog
	engine   *TradingEngine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		accounts: store.NewAccountDirectory(),
		catalog:  store.NewStockCatalog(),
		log:      store.NewTransactionLog(),
	}
	f.engine = NewTradingEngine(f.accounts, f.catalog, f.log)
	return f
}

func (f *fixture) addPlayer(t *testing.T, id string, cash int64) *domain.Account {
	t.Helper()
	a := domain.NewAccount(id, decimal.NewFromInt(cash))
	if err := f.accounts.Create(a); err != nil {
		t.Fatal(err)
	}
	return a
}

func (f *fixture) addStock(t *testing.T, symbol string, price int64) {
	t.Helper()
	err := f.catalog.Create(&domain.Instrument{
		Symbol:    symbol,
		Price:     decimal.NewFromInt(price),
		Kind:      domain.InstrumentKindCommon,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestBuy_Success(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "alice", 1000)
	f.addStock(t, "AAA", 100)

	res, err := f.engine.Buy("alice", "AAA", 5)
	if err != nil {
		t.Fatalf("Buy() unexpected error: %v", err)
	}

	if !res.Cash.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Cash = %s, want 500", res.Cash)
	}
	if res.HoldingQuantity != 5 {
		t.Errorf("HoldingQuantity = %d, want 5", res.HoldingQuantity)
	}

	if f.log.Len() != 1 {
		t.Fatalf("log Len() = %d, want 1", f.log.Len())
	}
	rec := f.log.All()[0]
	if rec.Side != domain.SideBuy || rec.Quantity != 5 {
		t.Errorf("record = %s qty %d, want buy qty 5", rec.Side, rec.Quantity)
	}
	if !rec.Price.Equal(decimal.NewFromInt(100)) {
		t.Errorf("record Price = %s, want 100", rec.Price)
	}
	if !rec.Total.Equal(decimal.NewFromInt(500)) {
		t.Errorf("record Total = %s, want 500", rec.Total)
	}
	if rec.Seq != 1 {
		t.Errorf("record Seq = %d, want 1", rec.Seq)
	}
}

func TestBuy_InsufficientFunds(t *testing.T) {
	f := newFixture(t)
	acct := f.addPlayer(t, "alice", 500)
	f.addStock(t, "AAA", 100)

	_, err := f.engine.Buy("alice", "AAA", 6)
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("Buy() error = %v, want ErrInsufficientFunds", err)
	}

	var fundsErr *domain.InsufficientFundsError
	if !errors.As(err, &fundsErr) {
		t.Fatal("error should be *InsufficientFundsError")
	}
	if !fundsErr.Required.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Required = %s, want 600", fundsErr.Required)
	}
	if !fundsErr.Available.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Available = %s, want 500", fundsErr.Available)
	}

	// Nothing mutated.
	if !acct.Cash.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Cash = %s, want 500", acct.Cash)
	}
	if acct.Portfolio.QuantityOf("AAA") != 0 {
		t.Error("holding created despite failed buy")
	}
	if f.log.Len() != 0 {
		t.Error("transaction recorded despite failed buy")
	}
}

func TestBuy_RollsBackDebitWhenHoldingCannotGrow(t *testing.T) {
	f := newFixture(t)
	acct := f.addPlayer(t, "alice", 1000)
	f.addStock(t, "AAA", 100)

	// Saturate the holding so the post-debit merge fails and the debit
	// has to be rolled back.
	if err := acct.Portfolio.Increase("AAA", math.MaxInt64); err != nil {
		t.Fatal(err)
	}

	_, err := f.engine.Buy("alice", "AAA", 1)
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Buy() error = %v, want ValidationError", err)
	}

	// Cash restored, holding unchanged, nothing logged.
	if !acct.Cash.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Cash = %s, want 1000 after rollback", acct.Cash)
	}
	if got := acct.Portfolio.QuantityOf("AAA"); got != math.MaxInt64 {
		t.Errorf("QuantityOf(AAA) = %d, want MaxInt64", got)
	}
	if f.log.Len() != 0 {
		t.Error("transaction recorded despite failed buy")
	}
}

func TestBuy_MergesExistingHolding(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "alice", 1000)
	f.addStock(t, "AAA", 100)

	if _, err := f.engine.Buy("alice", "AAA", 3); err != nil {
		t.Fatal(err)
	}
	if err := f.catalog.SetPrice("AAA", decimal.NewFromInt(50)); err != nil {
		t.Fatal(err)
	}
	res, err := f.engine.Buy("alice", "AAA", 2)
	if err != nil {
		t.Fatal(err)
	}

	if res.HoldingQuantity != 5 {
		t.Errorf("HoldingQuantity = %d, want 5", res.HoldingQuantity)
	}
	// 1000 - 3×100 - 2×50: the later price applies only to the later trade.
	if !res.Cash.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Cash = %s, want 600", res.Cash)
	}
}

func TestBuy_Validation(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "alice", 1000)
	f.addStock(t, "AAA", 100)

	tests := []struct {
		name     string
		playerID string
		symbol   string
		quantity int64
		wantErr  error
	}{
		{"zero quantity", "alice", "AAA", 0, nil}, // ValidationError, checked below
		{"negative quantity", "alice", "AAA", -2, nil},
		{"unknown player", "ghost", "AAA", 1, domain.ErrPlayerNotFound},
		{"unknown instrument", "alice", "ZZZ", 1, domain.ErrInstrumentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Buy(tt.playerID, tt.symbol, tt.quantity)
			if err == nil {
				t.Fatal("Buy() expected error, got nil")
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Buy() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Buy() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestBuy_DistinctNotFoundMessages(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "alice", 1000)
	f.addStock(t, "AAA", 100)

	_, playerErr := f.engine.Buy("ghost", "AAA", 1)
	_, instErr := f.engine.Buy("alice", "ZZZ", 1)

	if !strings.Contains(playerErr.Error(), "player") {
		t.Errorf("unknown-player error %q should mention the player", playerErr)
	}
	if !strings.Contains(instErr.Error(), "instrument") {
		t.Errorf("unknown-instrument error %q should mention the instrument", instErr)
	}
	if playerErr.Error() == instErr.Error() {
		t.Error("unknown-player and unknown-instrument errors should be distinguishable")
	}
}

func TestSell_Success_UsesCurrentPrice(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "alice", 1000)
	f.addStock(t, "AAA", 100)

	if _, err := f.engine.Buy("alice", "AAA", 5); err != nil {
		t.Fatal(err)
	}
	// Price moves between purchase and sale; the sale settles at the
	// current price, not the price captured at purchase.
	if err := f.catalog.SetPrice("AAA", decimal.NewFromInt(120)); err != nil {
		t.Fatal(err)
	}

	res, err := f.engine.Sell("alice", "AAA", 5)
	if err != nil {
		t.Fatalf("Sell() unexpected error: %v", err)
	}

	// 500 after the buy, plus 5×120.
	if !res.Cash.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("Cash = %s, want 1100", res.Cash)
	}
	if res.HoldingQuantity != 0 {
		t.Errorf("HoldingQuantity = %d, want 0", res.HoldingQuantity)
	}

	// Selling the entire quantity removes the holding.
	acct, err := f.accounts.Get("alice")
	if err != nil {
		t.Fatal(err)
	}
	if acct.Portfolio.QuantityOf("AAA") != 0 {
		t.Error("QuantityOf(AAA) != 0 after full sale")
	}
	if acct.Portfolio.Len() != 0 {
		t.Error("holding still present after full sale")
	}

	rec := f.log.All()[1]
	if rec.Side != domain.SideSell || !rec.Price.Equal(decimal.NewFromInt(120)) {
		t.Errorf("record = %s @ %s, want sell @ 120", rec.Side, rec.Price)
	}
}

func TestSell_InsufficientQuantity_NeverHeld(t *testing.T) {
	f := newFixture(t)
	acct := f.addPlayer(t, "alice", 1000)
	f.addStock(t, "BBB", 10)

	_, err := f.engine.Sell("alice", "BBB", 1)
	if !errors.Is(err, domain.ErrInsufficientQuantity) {
		t.Fatalf("Sell() error = %v, want ErrInsufficientQuantity", err)
	}

	// Cash and holdings are unchanged from before the call.
	if !acct.Cash.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Cash = %s, want 1000", acct.Cash)
	}
	if f.log.Len() != 0 {
		t.Error("transaction recorded despite failed sell")
	}
}

func TestSell_InsufficientQuantity_PartialHolding(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "alice", 1000)
	f.addStock(t, "AAA", 100)
	if _, err := f.engine.Buy("alice", "AAA", 3); err != nil {
		t.Fatal(err)
	}

	_, err := f.engine.Sell("alice", "AAA", 4)
	var qtyErr *domain.InsufficientQuantityError
	if !errors.As(err, &qtyErr) {
		t.Fatalf("Sell() error = %v, want *InsufficientQuantityError", err)
	}
	if qtyErr.Requested != 4 || qtyErr.Held != 3 {
		t.Errorf("error detail = requested %d held %d, want 4/3", qtyErr.Requested, qtyErr.Held)
	}

	acct, err := f.accounts.Get("alice")
	if err != nil {
		t.Fatal(err)
	}
	if acct.Portfolio.QuantityOf("AAA") != 3 {
		t.Error("holding mutated by failed sell")
	}
}

func TestSell_DelistedInstrument(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "alice", 1000)
	f.addStock(t, "AAA", 100)
	if _, err := f.engine.Buy("alice", "AAA", 5); err != nil {
		t.Fatal(err)
	}
	if err := f.catalog.Delist("AAA"); err != nil {
		t.Fatal(err)
	}

	_, err := f.engine.Sell("alice", "AAA", 5)
	if !errors.Is(err, domain.ErrInstrumentNotFound) {
		t.Fatalf("Sell() error = %v, want ErrInstrumentNotFound", err)
	}
	if !strings.Contains(err.Error(), "no longer tradable") {
		t.Errorf("Sell() error %q should say the instrument is no longer tradable", err)
	}

	// The holding survives delisting.
	acct, err := f.accounts.Get("alice")
	if err != nil {
		t.Fatal(err)
	}
	if acct.Portfolio.QuantityOf("AAA") != 5 {
		t.Error("holding lost on delisted sell attempt")
	}
}

func TestConcurrentBuys_CashCoversExactlyOne(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "alice", 100)
	f.addStock(t, "AAA", 100)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.engine.Buy("alice", "AAA", 1)
		}(i)
	}
	wg.Wait()

	var successes, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || insufficient != 1 {
		t.Fatalf("got %d successes and %d insufficient-funds, want exactly 1 of each", successes, insufficient)
	}

	acct, err := f.accounts.Get("alice")
	if err != nil {
		t.Fatal(err)
	}
	if !acct.Cash.IsZero() {
		t.Errorf("Cash = %s, want 0 (exactly one debit)", acct.Cash)
	}
	if acct.Portfolio.QuantityOf("AAA") != 1 {
		t.Errorf("QuantityOf(AAA) = %d, want 1", acct.Portfolio.QuantityOf("AAA"))
	}
	if f.log.Len() != 1 {
		t.Errorf("log Len() = %d, want 1", f.log.Len())
	}
}

func TestConcurrentTrades_DifferentPlayersDoNotInterfere(t *testing.T) {
	f := newFixture(t)
	f.addStock(t, "AAA", 10)
	players := []string{"alice", "bob", "carol", "dave"}
	for _, id := range players {
		f.addPlayer(t, id, 1000)
	}

	const rounds = 20
	var wg sync.WaitGroup
	for _, id := range players {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if _, err := f.engine.Buy(id, "AAA", 1); err != nil {
					t.Errorf("Buy(%s) unexpected error: %v", id, err)
					return
				}
				if _, err := f.engine.Sell(id, "AAA", 1); err != nil {
					t.Errorf("Sell(%s) unexpected error: %v", id, err)
					return
				}
			}
		}(id)
	}
	wg.Wait()

	for _, id := range players {
		acct, err := f.accounts.Get(id)
		if err != nil {
			t.Fatal(err)
		}
		if !acct.Cash.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("%s Cash = %s, want 1000", id, acct.Cash)
		}
		if acct.Portfolio.Len() != 0 {
			t.Errorf("%s should hold nothing after balanced trades", id)
		}
	}
	if f.log.Len() != len(players)*rounds*2 {
		t.Errorf("log Len() = %d, want %d", f.log.Len(), len(players)*rounds*2)
	}
}

func TestDecimalPrices_NoDrift(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(t, "alice", 1000)
	err := f.catalog.Create(&domain.Instrument{
		Symbol:    "AAA",
		Price:     decimal.RequireFromString("0.10"),
		Kind:      domain.InstrumentKindCommon,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	// 3 × 0.10 must be exactly 0.30, never 0.30000000000000004.
	res, err := f.engine.Buy("alice", "AAA", 3)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Record.Total.Equal(decimal.RequireFromString("0.30")) {
		t.Errorf("Total = %s, want 0.30", res.Record.Total)
	}
	if !res.Cash.Equal(decimal.RequireFromString("999.70")) {
		t.Errorf("Cash = %s, want 999.70", res.Cash)
	}
}
