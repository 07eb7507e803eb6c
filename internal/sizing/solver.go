package sizing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"frizo/risk_engine/internal/common"
	"frizo/risk_engine/internal/margin"
	"frizo/risk_engine/internal/position"
	"frizo/risk_engine/pkg/utils"
)

// ErrTargetWeightOutOfRange rejects target weights outside [-1, 1].
// Out-of-range weights are a caller bug and are never clamped.
var ErrTargetWeightOutOfRange = errors.New("target weight must be within [-1, 1]")

var one = decimal.NewFromInt(1)

// Order is the sized result handed to the order-management layer.
type Order struct {
	ID       string
	Symbol   string
	Quantity decimal.Decimal // signed, lot aligned
	Price    decimal.Decimal
}

// Request carries one sizing call's inputs. Ephemeral: build one per
// call, do not persist or share.
type Request struct {
	ID           string
	TargetWeight decimal.Decimal
	Position     *position.Position
	Account      *margin.Account
}

// NewRequest builds a sizing request for reaching targetWeight of the
// portfolio value with the given holding.
func NewRequest(targetWeight decimal.Decimal, pos *position.Position, account *margin.Account) Request {
	return Request{
		ID:           common.GenerateRequestID(),
		TargetWeight: targetWeight,
		Position:     pos,
		Account:      account,
	}
}

// Solver computes the maximal order quantity reaching a target portfolio
// weight without exceeding margin limits.
type Solver struct {
	buyingPower *margin.BuyingPowerModel
	fees        FeeModel
}

func NewSolver(buyingPower *margin.BuyingPowerModel, fees FeeModel) *Solver {
	return &Solver{buyingPower: buyingPower, fees: fees}
}

// MaxOrderQuantity returns the signed, lot-aligned order quantity that
// moves the holding to the requested target weight.
//
// The closed form budgets |portfolio value| x |weight| of initial
// margin, adjusted for what the existing holding already consumes
// (same direction) or releases (opposite direction), divides by the
// initial margin per contract, and deducts a first-order fee estimate
// taken from a unit-quantity probe. The result is floored to the lot
// size and signed by the target weight. Two sequential calls targeting
// the same final weight in two steps sum to the single direct call's
// quantity, because the holdings adjustment telescopes exactly over
// lot-aligned fills.
func (s *Solver) MaxOrderQuantity(req Request) (*Order, error) {
	weight := req.TargetWeight
	if weight.Abs().GreaterThan(one) {
		return nil, fmt.Errorf("%w: got %s", ErrTargetWeightOutOfRange, weight)
	}

	pos := req.Position
	inst := pos.Instrument
	price := pos.MarkPrice

	order := &Order{
		ID:       common.GenerateOrderID(),
		Symbol:   inst.Symbol,
		Quantity: decimal.Zero,
		Price:    price,
	}

	if weight.IsZero() {
		// flatten: the margin budget is zero, only the release term remains
		order.Quantity = pos.Quantity.Neg()
		return order, nil
	}

	model := s.buyingPower.Model()
	unitMargin := model.InitialMarginRequirement(pos).Mul(inst.UnitValue(price))
	if unitMargin.Sign() <= 0 {
		// no market price or no margin data: nothing can be sized
		return order, nil
	}

	budget := req.Account.TotalPortfolioValue().Abs().Mul(weight.Abs())

	if !pos.IsFlat() {
		heldMargin := model.InitialMarginRequirement(pos).Mul(pos.AbsHoldingsValue())
		if targetDirection(weight) == pos.Direction() {
			// the holding already consumes part of the budget
			budget = budget.Sub(heldMargin)
		} else {
			// closing the holding frees its initial margin first
			budget = budget.Add(heldMargin)
		}
	}

	feeEstimate := s.fees.Fee(inst, one, price)
	feePerUnit := feeEstimate.Div(unitMargin)

	raw := budget.Div(unitMargin).Sub(feePerUnit.Mul(weight.Abs()))
	quantity := utils.FloorTo(raw, inst.LotSize)
	if weight.Sign() < 0 {
		quantity = quantity.Neg()
	}

	order.Quantity = quantity
	return order, nil
}

// HasSufficientBuyingPower independently re-derives whether executing
// the order stays within buying power: required initial margin plus fee
// against the capital available in the order's direction.
func (s *Solver) HasSufficientBuyingPower(req Request, order *Order) bool {
	if order == nil || order.Quantity.IsZero() {
		return true
	}

	pos := req.Position
	direction := position.DirectionOf(order.Quantity)
	available := s.buyingPower.BuyingPower(req.Account, pos, direction)

	fee := s.fees.Fee(pos.Instrument, order.Quantity, order.Price)
	required := s.buyingPower.Model().InitialMarginRequiredForOrder(pos, order.Quantity, order.Price, fee)

	return required.LessThanOrEqual(available)
}

func targetDirection(weight decimal.Decimal) position.Direction {
	if weight.Sign() < 0 {
		return position.Short
	}
	return position.Long
}
