package instrument

import (
	"fmt"

	"github.com/shopspring/decimal"

	"frizo/risk_engine/common"
	"frizo/risk_engine/internal/schedule"
)

// Instrument is the immutable metadata for one tradable contract.
// Construct once per contract/expiry; margin models read it but never
// mutate it.
type Instrument struct {
	Symbol        string
	SecurityID    string
	Market        string
	SecurityType  common.SecurityType
	Multiplier    decimal.Decimal // contract multiplier
	LotSize       decimal.Decimal // minimum tradable quantity increment
	QuoteCurrency string
	Schedule      *schedule.Table
}

// New validates and builds an Instrument. The schedule may be empty (a
// contract with no published margin lines) but not nil-checked away by
// callers, so an empty table is substituted for nil.
func New(symbol, securityID, market string, securityType common.SecurityType,
	multiplier, lotSize decimal.Decimal, quoteCurrency string, table *schedule.Table) (*Instrument, error) {

	if symbol == "" {
		return nil, fmt.Errorf("instrument symbol is required")
	}
	if multiplier.Sign() <= 0 {
		return nil, fmt.Errorf("instrument %s: multiplier must be positive, got %s", symbol, multiplier)
	}
	if lotSize.Sign() <= 0 {
		return nil, fmt.Errorf("instrument %s: lot size must be positive, got %s", symbol, lotSize)
	}
	if table == nil {
		table = &schedule.Table{}
	}

	return &Instrument{
		Symbol:        symbol,
		SecurityID:    securityID,
		Market:        market,
		SecurityType:  securityType,
		Multiplier:    multiplier,
		LotSize:       lotSize,
		QuoteCurrency: quoteCurrency,
		Schedule:      table,
	}, nil
}

// UnitValue is the notional value of one contract at the given price.
func (i *Instrument) UnitValue(price decimal.Decimal) decimal.Decimal {
	return price.Mul(i.Multiplier)
}
