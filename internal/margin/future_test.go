package margin

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frizo/risk_engine/common"
	"frizo/risk_engine/internal/instrument"
	"frizo/risk_engine/internal/position"
	"frizo/risk_engine/internal/schedule"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

// Test helpers
func testFuture(t *testing.T) *instrument.Instrument {
	t.Helper()

	table, err := schedule.NewTable([]schedule.Entry{
		{Date: date("2001-01-07"), Initial: decimal.NewFromInt(810), Maintenance: decimal.NewFromInt(600)},
		{Date: date("2001-12-11"), Initial: decimal.NewFromInt(945), Maintenance: decimal.NewFromInt(700)},
	})
	require.NoError(t, err)

	inst, err := instrument.New("ES", "ES-200203", "cme", common.Future,
		decimal.NewFromInt(1), decimal.NewFromInt(1), "USD", table)
	require.NoError(t, err)
	return inst
}

func testPosition(t *testing.T, quantity, price int64, day string) *position.Position {
	t.Helper()

	pos := position.New(testFuture(t))
	pos.Quantity = decimal.NewFromInt(quantity)
	pos.AveragePrice = decimal.NewFromInt(price)
	pos.SetMarkPrice(decimal.NewFromInt(price), date(day))
	return pos
}

func TestFutureMaintenanceMargin(t *testing.T) {
	model := NewFutureMarginModel()

	t.Run("ScheduleDriven", func(t *testing.T) {
		pos := testPosition(t, 2, 1000, "2001-06-01")

		// 600 per contract x 2 contracts x multiplier 1
		assert.True(t, model.MaintenanceMargin(pos).Equal(decimal.NewFromInt(1200)))
	})

	t.Run("DoublingQuantityDoublesMargin", func(t *testing.T) {
		long := testPosition(t, 2, 1000, "2001-06-01")
		longDoubled := testPosition(t, 4, 1000, "2001-06-01")
		assert.True(t, model.MaintenanceMargin(longDoubled).Equal(
			model.MaintenanceMargin(long).Mul(decimal.NewFromInt(2))))

		short := testPosition(t, -2, 1000, "2001-06-01")
		shortDoubled := testPosition(t, -4, 1000, "2001-06-01")
		assert.True(t, model.MaintenanceMargin(shortDoubled).Equal(
			model.MaintenanceMargin(short).Mul(decimal.NewFromInt(2))))

		// symmetric for long and short
		assert.True(t, model.MaintenanceMargin(short).Equal(model.MaintenanceMargin(long)))
	})

	t.Run("PriceMoveLeavesMarginUnchanged", func(t *testing.T) {
		pos := testPosition(t, 2, 1000, "2001-06-01")
		before := model.MaintenanceMargin(pos)

		pos.SetMarkPrice(decimal.NewFromInt(1300), date("2001-06-01"))
		assert.True(t, model.MaintenanceMargin(pos).Equal(before))

		pos.SetMarkPrice(decimal.NewFromInt(700), date("2001-06-01"))
		assert.True(t, model.MaintenanceMargin(pos).Equal(before))
	})

	t.Run("ScheduleSwitchMovesMargin", func(t *testing.T) {
		pos := testPosition(t, 2, 1000, "2001-12-10")
		assert.True(t, model.MaintenanceMargin(pos).Equal(decimal.NewFromInt(1200)))

		pos.SetMarkPrice(pos.MarkPrice, date("2001-12-11"))
		assert.True(t, model.MaintenanceMargin(pos).Equal(decimal.NewFromInt(1400)))
	})

	t.Run("ZeroBeforeScheduleCoverage", func(t *testing.T) {
		pos := testPosition(t, 2, 1000, "2000-06-01")
		assert.True(t, model.MaintenanceMargin(pos).IsZero())
	})

	t.Run("ZeroWhenFlat", func(t *testing.T) {
		pos := testPosition(t, 0, 1000, "2001-06-01")
		assert.True(t, model.MaintenanceMargin(pos).IsZero())
	})
}

func TestFutureInitialMarginRequirement(t *testing.T) {
	model := NewFutureMarginModel()

	t.Run("FractionOfNotional", func(t *testing.T) {
		pos := testPosition(t, 2, 1000, "2001-06-01")

		// 810 per contract over 1000 x 1 notional per contract
		assert.True(t, model.InitialMarginRequirement(pos).Equal(decimal.RequireFromString("0.81")))
	})

	t.Run("ExceedsMaintenanceRequirement", func(t *testing.T) {
		for _, quantity := range []int64{1, 2, -3, 10} {
			pos := testPosition(t, quantity, 1000, "2001-06-01")
			assert.True(t, model.InitialMarginRequirement(pos).GreaterThan(
				model.MaintenanceMarginRequirement(pos)),
				"quantity %d", quantity)
		}
	})

	t.Run("ZeroWithoutPrice", func(t *testing.T) {
		pos := position.New(testFuture(t))
		assert.True(t, model.InitialMarginRequirement(pos).IsZero())
	})
}

func TestFutureOrderMargin(t *testing.T) {
	model := NewFutureMarginModel()
	pos := testPosition(t, 0, 1000, "2001-06-01")

	t.Run("FeeIncreasesRequiredCapitalBothWays", func(t *testing.T) {
		fee := decimal.NewFromInt(10)
		buy := model.InitialMarginRequiredForOrder(pos, decimal.NewFromInt(5), decimal.NewFromInt(1000), fee)
		sell := model.InitialMarginRequiredForOrder(pos, decimal.NewFromInt(-5), decimal.NewFromInt(1000), fee)

		// 0.81 x 5000 + 10
		assert.True(t, buy.Equal(decimal.NewFromInt(4060)))
		assert.True(t, sell.Equal(buy))

		negativeFee := model.InitialMarginRequiredForOrder(pos, decimal.NewFromInt(5), decimal.NewFromInt(1000), fee.Neg())
		assert.True(t, negativeFee.Equal(buy))
	})
}

func TestFutureLeverage(t *testing.T) {
	model := NewFutureMarginModel()

	t.Run("ReciprocalOfInitialRequirement", func(t *testing.T) {
		pos := testPosition(t, 1, 1000, "2001-06-01")
		expected := decimal.NewFromInt(1).Div(decimal.RequireFromString("0.81"))
		assert.True(t, model.Leverage(pos).Equal(expected))
	})

	t.Run("DoublesWhenPriceDoubles", func(t *testing.T) {
		pos := testPosition(t, 1, 1000, "2001-06-01")
		base := model.Leverage(pos)

		pos.SetMarkPrice(decimal.NewFromInt(2000), date("2001-06-01"))
		assert.True(t, model.Leverage(pos).Equal(base.Mul(decimal.NewFromInt(2))))
	})

	t.Run("DefaultsToOneWithoutPrice", func(t *testing.T) {
		pos := position.New(testFuture(t))
		assert.True(t, model.Leverage(pos).Equal(decimal.NewFromInt(1)))
	})
}

func TestFutureSetLeverage(t *testing.T) {
	model := NewFutureMarginModel()

	for _, leverage := range []int64{1, 2, 10, 125} {
		err := model.SetLeverage(decimal.NewFromInt(leverage))
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrLeverageNotSupported))
	}
}

func TestForInstrument(t *testing.T) {
	t.Run("FutureGetsScheduleModel", func(t *testing.T) {
		model := ForInstrument(testFuture(t))
		_, ok := model.(*FutureMarginModel)
		assert.True(t, ok)
	})

	t.Run("EquityGetsLeverageModel", func(t *testing.T) {
		inst, err := instrument.New("SPY", "SPY", "usa", common.Equity,
			decimal.NewFromInt(1), decimal.NewFromInt(1), "USD", nil)
		require.NoError(t, err)

		model := ForInstrument(inst)
		_, ok := model.(*LeverageMarginModel)
		require.True(t, ok)

		// configurable, unlike futures
		assert.NoError(t, model.SetLeverage(decimal.NewFromInt(4)))
		assert.True(t, model.Leverage(position.New(inst)).Equal(decimal.NewFromInt(4)))
		assert.Error(t, model.SetLeverage(decimal.RequireFromString("0.5")))
	})
}
