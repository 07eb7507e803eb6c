package margin

import (
	"errors"

	"github.com/shopspring/decimal"

	"frizo/risk_engine/common"
	"frizo/risk_engine/internal/instrument"
	"frizo/risk_engine/internal/position"
)

// ErrLeverageNotSupported is returned by models whose margin is driven
// by a published schedule rather than a caller-chosen leverage.
var ErrLeverageNotSupported = errors.New("leverage is not configurable for this security type")

// Model computes margin requirements for one instrument category.
// Implementations are stateless with respect to concurrency: every call
// takes the position (price, time, quantity) explicitly and performs no
// hidden caching.
type Model interface {
	// InitialMarginRequirement is the capital required to open, as a
	// fraction of notional, evaluated at the position's mark time/price.
	InitialMarginRequirement(pos *position.Position) decimal.Decimal

	// MaintenanceMargin is the capital reserved to keep holding the
	// position, in account-currency units.
	MaintenanceMargin(pos *position.Position) decimal.Decimal

	// MaintenanceMarginRequirement is MaintenanceMargin as a fraction of
	// the absolute holdings value.
	MaintenanceMarginRequirement(pos *position.Position) decimal.Decimal

	// InitialMarginRequiredForOrder is the capital consumed by executing
	// an order of the given quantity at the given price, fee included.
	InitialMarginRequiredForOrder(pos *position.Position, quantity, price, fee decimal.Decimal) decimal.Decimal

	// Leverage is notional exposure per unit of required initial margin.
	Leverage(pos *position.Position) decimal.Decimal

	// SetLeverage overrides the model leverage where the category allows it.
	SetLeverage(leverage decimal.Decimal) error
}

// ForInstrument selects the model variant by security type.
func ForInstrument(inst *instrument.Instrument) Model {
	switch inst.SecurityType {
	case common.Future:
		return NewFutureMarginModel()
	default:
		return NewLeverageMarginModel(decimal.NewFromInt(2))
	}
}
