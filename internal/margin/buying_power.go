package margin

import (
	"github.com/shopspring/decimal"

	"frizo/risk_engine/internal/position"
)

// BuyingPowerModel composes a margin model with account state to answer
// how much capital a new order in a given direction can draw on.
type BuyingPowerModel struct {
	model Model
}

func NewBuyingPowerModel(model Model) *BuyingPowerModel {
	return &BuyingPowerModel{model: model}
}

// Model exposes the underlying margin model.
func (b *BuyingPowerModel) Model() Model {
	return b.model
}

// BuyingPower returns the capital available for an order in the given
// direction, in account currency.
//
// With no open holding it is simply the account's remaining margin.
// Increasing an existing holding leaves whatever the portfolio is worth
// beyond the position's maintenance reservation. Trading against the
// holding additionally releases that reservation and re-reserves initial
// margin for the side being opened.
func (b *BuyingPowerModel) BuyingPower(account *Account, pos *position.Position, direction position.Direction) decimal.Decimal {
	if pos == nil || pos.IsFlat() {
		return account.MarginRemaining()
	}

	maintenance := b.model.MaintenanceMargin(pos)
	if direction == pos.Direction() {
		return account.TotalPortfolioValue().Sub(maintenance)
	}

	initialHeld := b.model.InitialMarginRequirement(pos).Mul(pos.AbsHoldingsValue())
	return account.MarginRemaining().Add(maintenance).Add(initialHeld)
}

// ReservedBuyingPowerForPosition is the capital already committed to an
// open holding: its maintenance margin. Constant across price moves;
// only a quantity change or a schedule switch moves it.
func (b *BuyingPowerModel) ReservedBuyingPowerForPosition(pos *position.Position) decimal.Decimal {
	if pos == nil || pos.IsFlat() {
		return decimal.Zero
	}
	return b.model.MaintenanceMargin(pos)
}
