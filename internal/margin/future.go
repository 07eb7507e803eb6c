package margin

import (
	"github.com/shopspring/decimal"

	"frizo/risk_engine/internal/position"
)

// FutureMarginModel derives both margin legs from the instrument's
// published schedule, indexed by the position's mark time. Margin used
// for an open position is price-independent in currency terms: only a
// schedule switch on a new effective date moves it.
type FutureMarginModel struct{}

func NewFutureMarginModel() *FutureMarginModel {
	return &FutureMarginModel{}
}

// InitialMarginRequirement converts the schedule's per-contract initial
// amount into a fraction of notional, so it can be applied to orders of
// any value. Zero when no price has been observed or no schedule applies.
func (m *FutureMarginModel) InitialMarginRequirement(pos *position.Position) decimal.Decimal {
	unitValue := pos.Instrument.UnitValue(pos.MarkPrice)
	if unitValue.Sign() <= 0 {
		return decimal.Zero
	}
	initial, _ := pos.Instrument.Schedule.RequirementAt(pos.MarkTime)
	return initial.Div(unitValue)
}

// MaintenanceMargin is the schedule's per-contract maintenance amount
// times the absolute quantity and contract multiplier.
func (m *FutureMarginModel) MaintenanceMargin(pos *position.Position) decimal.Decimal {
	if pos.IsFlat() {
		return decimal.Zero
	}
	_, maintenance := pos.Instrument.Schedule.RequirementAt(pos.MarkTime)
	return maintenance.Mul(pos.Quantity.Abs()).Mul(pos.Instrument.Multiplier)
}

// MaintenanceMarginRequirement expresses the maintenance reservation as
// a fraction of the absolute holdings value. Symmetric for long and short.
func (m *FutureMarginModel) MaintenanceMarginRequirement(pos *position.Position) decimal.Decimal {
	holdings := pos.AbsHoldingsValue()
	if holdings.IsZero() {
		return decimal.Zero
	}
	return m.MaintenanceMargin(pos).Div(holdings)
}

// InitialMarginRequiredForOrder applies the initial fraction to the
// order's notional and adds the fee. The fee raises required capital on
// both opening directions.
func (m *FutureMarginModel) InitialMarginRequiredForOrder(pos *position.Position, quantity, price, fee decimal.Decimal) decimal.Decimal {
	orderValue := quantity.Abs().Mul(pos.Instrument.UnitValue(price))
	return m.InitialMarginRequirement(pos).Mul(orderValue).Add(fee.Abs())
}

// Leverage is the reciprocal of the initial fraction. Because the
// per-contract margin amount is fixed in currency while notional scales
// with price, leverage scales linearly with price. Defaults to 1 before
// any market price is observed.
func (m *FutureMarginModel) Leverage(pos *position.Position) decimal.Decimal {
	requirement := m.InitialMarginRequirement(pos)
	if requirement.Sign() <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1).Div(requirement)
}

// SetLeverage always fails: futures margin follows the exchange
// schedule, not a caller-chosen leverage.
func (m *FutureMarginModel) SetLeverage(leverage decimal.Decimal) error {
	return ErrLeverageNotSupported
}
