package sizing

import (
	"github.com/shopspring/decimal"

	"frizo/risk_engine/internal/instrument"
)

// FeeModel estimates the execution fee, in account currency, for an
// order of the given quantity at the given price.
type FeeModel interface {
	Fee(inst *instrument.Instrument, quantity, price decimal.Decimal) decimal.Decimal
}

// FlatFeeModel charges a fixed amount per order regardless of size.
type FlatFeeModel struct {
	Amount decimal.Decimal
}

func (f FlatFeeModel) Fee(inst *instrument.Instrument, quantity, price decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return decimal.Zero
	}
	return f.Amount
}

// PerContractFeeModel charges a fixed amount per contract traded.
type PerContractFeeModel struct {
	PerContract decimal.Decimal
}

func (f PerContractFeeModel) Fee(inst *instrument.Instrument, quantity, price decimal.Decimal) decimal.Decimal {
	return f.PerContract.Mul(quantity.Abs())
}
