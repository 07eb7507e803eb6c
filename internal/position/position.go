package position

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"frizo/risk_engine/internal/instrument"
)

// Direction of a holding or a prospective order.
type Direction int

const (
	Short Direction = -1
	Flat  Direction = 0
	Long  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "long"
	case Short:
		return "short"
	case Flat:
		return "flat"
	default:
		return "unknown"
	}
}

// DirectionOf maps a signed quantity to its Direction.
func DirectionOf(quantity decimal.Decimal) Direction {
	switch quantity.Sign() {
	case 1:
		return Long
	case -1:
		return Short
	default:
		return Flat
	}
}

// Position is one instrument's holding: signed quantity, the volume
// weighted entry price, and the latest observed market price/time.
//
// Mutation is single-writer by contract: fills and mark updates come
// from the owning portfolio thread, margin reads may run concurrently
// against a quiescent position.
type Position struct {
	Instrument *instrument.Instrument

	Quantity     decimal.Decimal // signed, lot aligned for executed orders
	AveragePrice decimal.Decimal
	MarkPrice    decimal.Decimal
	MarkTime     time.Time
}

// New returns a flat position for the instrument.
func New(inst *instrument.Instrument) *Position {
	return &Position{
		Instrument:   inst,
		Quantity:     decimal.Zero,
		AveragePrice: decimal.Zero,
		MarkPrice:    decimal.Zero,
	}
}

// Direction of the current holding.
func (p *Position) Direction() Direction {
	return DirectionOf(p.Quantity)
}

// IsFlat reports whether there is no open holding.
func (p *Position) IsFlat() bool {
	return p.Quantity.IsZero()
}

// HoldingsValue is the signed notional of the holding at the mark price:
// quantity x price x contract multiplier.
func (p *Position) HoldingsValue() decimal.Decimal {
	return p.Quantity.Mul(p.MarkPrice).Mul(p.Instrument.Multiplier)
}

// AbsHoldingsValue is the unsigned notional of the holding.
func (p *Position) AbsHoldingsValue() decimal.Decimal {
	return p.HoldingsValue().Abs()
}

// UnrealizedProfit is the mark-to-market gain on the open holding.
func (p *Position) UnrealizedProfit() decimal.Decimal {
	if p.IsFlat() || p.MarkPrice.IsZero() {
		return decimal.Zero
	}
	return p.MarkPrice.Sub(p.AveragePrice).Mul(p.Quantity).Mul(p.Instrument.Multiplier)
}

// SetMarkPrice records the latest market price and observation time.
func (p *Position) SetMarkPrice(price decimal.Decimal, at time.Time) {
	p.MarkPrice = price
	p.MarkTime = at
}

// ApplyFill mutates the holding with an executed quantity at a price.
// Same-direction fills blend the average price; reducing fills keep it;
// a flip restarts the average at the fill price. Returns the realized
// profit on any reduced portion.
func (p *Position) ApplyFill(quantity, price decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsZero() {
		return decimal.Zero, fmt.Errorf("fill quantity must be non-zero")
	}
	if price.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("fill price must be positive, got %s", price)
	}

	realized := decimal.Zero
	newQuantity := p.Quantity.Add(quantity)

	switch {
	case p.IsFlat() || p.Direction() == DirectionOf(quantity):
		// opening or adding: blend the average entry price
		oldValue := p.AveragePrice.Mul(p.Quantity)
		fillValue := price.Mul(quantity)
		p.AveragePrice = oldValue.Add(fillValue).Div(newQuantity)

	case quantity.Abs().LessThanOrEqual(p.Quantity.Abs()):
		// reducing or closing: realize against the blended entry
		closed := quantity.Neg()
		realized = price.Sub(p.AveragePrice).Mul(closed).Mul(p.Instrument.Multiplier)
		if newQuantity.IsZero() {
			p.AveragePrice = decimal.Zero
		}

	default:
		// flip: close everything held, open the remainder at the fill price
		realized = price.Sub(p.AveragePrice).Mul(p.Quantity).Mul(p.Instrument.Multiplier)
		p.AveragePrice = price
	}

	p.Quantity = newQuantity
	p.MarkPrice = price
	return realized, nil
}
