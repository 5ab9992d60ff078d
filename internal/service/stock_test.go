package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/domain"
	"github.com/efreitasn/stockledger/internal/store"
)

func newStockService(t *testing.T) *StockService {
	t.Helper()
	return NewStockService(store.NewStockCatalog())
}

func TestStockService_Create_Common(t *testing.T) {
	svc := newStockService(t)

	inst, err := svc.Create(CreateInstrumentRequest{
		Symbol: "AAA",
		Price:  decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if inst.Kind != domain.InstrumentKindCommon {
		t.Errorf("Kind = %s, want common by default", inst.Kind)
	}
	if inst.IsPreferred() {
		t.Error("IsPreferred() = true for common shares")
	}
}

func TestStockService_Create_Preferred(t *testing.T) {
	svc := newStockService(t)

	inst, err := svc.Create(CreateInstrumentRequest{
		Symbol:       "PRF",
		Price:        decimal.NewFromInt(50),
		Kind:         "preferred",
		DividendRate: decPtr("3.5"),
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if !inst.IsPreferred() {
		t.Error("IsPreferred() = false for preferred shares")
	}
	if !inst.DividendRate.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("DividendRate = %s, want 3.5", inst.DividendRate)
	}
}

func TestStockService_Create_Validation(t *testing.T) {
	svc := newStockService(t)

	tests := []struct {
		name string
		req  CreateInstrumentRequest
	}{
		{"lowercase symbol", CreateInstrumentRequest{Symbol: "aaa", Price: decimal.NewFromInt(1)}},
		{"symbol too long", CreateInstrumentRequest{Symbol: "ABCDEFGHIJK", Price: decimal.NewFromInt(1)}},
		{"negative price", CreateInstrumentRequest{Symbol: "AAA", Price: decimal.NewFromInt(-1)}},
		{"unknown kind", CreateInstrumentRequest{Symbol: "AAA", Price: decimal.NewFromInt(1), Kind: "exotic"}},
		{"preferred without rate", CreateInstrumentRequest{Symbol: "AAA", Price: decimal.NewFromInt(1), Kind: "preferred"}},
		{"preferred negative rate", CreateInstrumentRequest{Symbol: "AAA", Price: decimal.NewFromInt(1), Kind: "preferred", DividendRate: decPtr("-1")}},
		{"common with rate", CreateInstrumentRequest{Symbol: "AAA", Price: decimal.NewFromInt(1), Kind: "common", DividendRate: decPtr("2")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.req)
			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Create() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestStockService_SetPriceAndList(t *testing.T) {
	svc := newStockService(t)
	if _, err := svc.Create(CreateInstrumentRequest{Symbol: "AAA", Price: decimal.NewFromInt(100)}); err != nil {
		t.Fatal(err)
	}

	inst, err := svc.SetPrice("AAA", decimal.NewFromInt(120))
	if err != nil {
		t.Fatalf("SetPrice() unexpected error: %v", err)
	}
	if !inst.Price.Equal(decimal.NewFromInt(120)) {
		t.Errorf("Price = %s, want 120", inst.Price)
	}

	list := svc.List(0, 0)
	if len(list) != 1 || !list[0].Price.Equal(decimal.NewFromInt(120)) {
		t.Errorf("List() = %v, want one instrument at 120", list)
	}
}

func TestStockService_List_Window(t *testing.T) {
	svc := newStockService(t)
	for _, sym := range []string{"CCC", "AAA", "DDD", "BBB"} {
		if _, err := svc.Create(CreateInstrumentRequest{Symbol: sym, Price: decimal.NewFromInt(10)}); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{"all", 0, 0, []string{"AAA", "BBB", "CCC", "DDD"}},
		{"first two", 0, 2, []string{"AAA", "BBB"}},
		{"middle", 1, 2, []string{"BBB", "CCC"}},
		{"past end", 8, 2, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := svc.List(tt.offset, tt.limit)
			if len(list) != len(tt.want) {
				t.Fatalf("List(%d, %d) len = %d, want %d", tt.offset, tt.limit, len(list), len(tt.want))
			}
			for i, sym := range tt.want {
				if list[i].Symbol != sym {
					t.Errorf("List(%d, %d)[%d] = %q, want %q", tt.offset, tt.limit, i, list[i].Symbol, sym)
				}
			}
		})
	}
}

func TestStockService_Delist(t *testing.T) {
	svc := newStockService(t)
	if _, err := svc.Create(CreateInstrumentRequest{Symbol: "AAA", Price: decimal.NewFromInt(100)}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delist("AAA"); err != nil {
		t.Fatalf("Delist() unexpected error: %v", err)
	}
	if _, err := svc.Get("AAA"); !errors.Is(err, domain.ErrInstrumentNotFound) {
		t.Errorf("Get() after delist error = %v, want ErrInstrumentNotFound", err)
	}
}
