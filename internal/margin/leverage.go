package margin

import (
	"fmt"

	"github.com/shopspring/decimal"

	"frizo/risk_engine/internal/position"
)

// LeverageMarginModel is the fixed-leverage variant used for security
// types without a published margin schedule (equities, options). Both
// fractions are constants of the configured leverage.
type LeverageMarginModel struct {
	leverage decimal.Decimal
}

func NewLeverageMarginModel(leverage decimal.Decimal) *LeverageMarginModel {
	if leverage.Sign() <= 0 {
		leverage = decimal.NewFromInt(1)
	}
	return &LeverageMarginModel{leverage: leverage}
}

func (m *LeverageMarginModel) InitialMarginRequirement(pos *position.Position) decimal.Decimal {
	return decimal.NewFromInt(1).Div(m.leverage)
}

// MaintenanceMargin reserves half the initial fraction of the holdings
// value, the usual Reg-T style split.
func (m *LeverageMarginModel) MaintenanceMargin(pos *position.Position) decimal.Decimal {
	return m.MaintenanceMarginRequirement(pos).Mul(pos.AbsHoldingsValue())
}

func (m *LeverageMarginModel) MaintenanceMarginRequirement(pos *position.Position) decimal.Decimal {
	return m.InitialMarginRequirement(pos).Div(decimal.NewFromInt(2))
}

func (m *LeverageMarginModel) InitialMarginRequiredForOrder(pos *position.Position, quantity, price, fee decimal.Decimal) decimal.Decimal {
	orderValue := quantity.Abs().Mul(pos.Instrument.UnitValue(price))
	return m.InitialMarginRequirement(pos).Mul(orderValue).Add(fee.Abs())
}

func (m *LeverageMarginModel) Leverage(pos *position.Position) decimal.Decimal {
	return m.leverage
}

// SetLeverage reconfigures the model. Leverage below 1 would require
// more capital than the notional and is rejected.
func (m *LeverageMarginModel) SetLeverage(leverage decimal.Decimal) error {
	if leverage.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("leverage must be at least 1, got %s", leverage)
	}
	m.leverage = leverage
	return nil
}
