package service

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/stockledger/internal/domain"
	"github.com/efreitasn/stockledger/internal/store"
)

var symbolRegex = regexp.MustCompile(`^[A-Z]{1,10}$`)

// CreateInstrumentRequest represents the input for listing a new
// instrument. Kind defaults to common when empty; DividendRate is
// required for preferred shares and must be absent for common shares.
type CreateInstrumentRequest struct {
	Symbol       string
	Price        decimal.Decimal
	Kind         string
	DividendRate *decimal.Decimal
}

// StockService handles instrument administration: listing, creation,
// price updates, and delisting.
type StockService struct {
	catalog *store.StockCatalog
}

// NewStockService creates a new StockService.
func NewStockService(catalog *store.StockCatalog) *StockService {
	return &StockService{catalog: catalog}
}

// Create validates the request and lists the instrument.
func (s *StockService) Create(req CreateInstrumentRequest) (*domain.Instrument, error) {
	if !symbolRegex.MatchString(req.Symbol) {
		return nil, &domain.ValidationError{
			Message: "symbol must match ^[A-Z]{1,10}$",
		}
	}
	if req.Price.IsNegative() {
		return nil, &domain.ValidationError{
			Message: "price must be >= 0",
		}
	}

	kind := domain.InstrumentKind(req.Kind)
	if kind == "" {
		kind = domain.InstrumentKindCommon
	}

	dividendRate := decimal.Zero
	switch kind {
	case domain.InstrumentKindCommon:
		if req.DividendRate != nil {
			return nil, &domain.ValidationError{
				Message: "dividend_rate is only valid for preferred shares",
			}
		}
	case domain.InstrumentKindPreferred:
		if req.DividendRate == nil {
			return nil, &domain.ValidationError{
				Message: "dividend_rate is required for preferred shares",
			}
		}
		if req.DividendRate.IsNegative() {
			return nil, &domain.ValidationError{
				Message: "dividend_rate must be >= 0",
			}
		}
		dividendRate = *req.DividendRate
	default:
		return nil, &domain.ValidationError{
			Message: "kind must be 'common' or 'preferred'",
		}
	}

	inst := &domain.Instrument{
		Symbol:       req.Symbol,
		Price:        req.Price,
		Kind:         kind,
		DividendRate: dividendRate,
		CreatedAt:    time.Now(),
	}
	if err := s.catalog.Create(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// Get returns the instrument for the given symbol.
func (s *StockService) Get(symbol string) (domain.Instrument, error) {
	return s.catalog.Get(symbol)
}

// SetPrice updates the instrument's current market price.
func (s *StockService) SetPrice(symbol string, price decimal.Decimal) (domain.Instrument, error) {
	if err := s.catalog.SetPrice(symbol, price); err != nil {
		return domain.Instrument{}, err
	}
	return s.catalog.Get(symbol)
}

// List returns instruments ordered by symbol, windowed by offset and
// limit. A limit <= 0 means no limit.
func (s *StockService) List(offset, limit int) []domain.Instrument {
	return paginate(s.catalog.List(), offset, limit)
}

// Delist removes the instrument from the catalog.
func (s *StockService) Delist(symbol string) error {
	return s.catalog.Delist(symbol)
}
