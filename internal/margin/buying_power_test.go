package margin

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frizo/risk_engine/internal/position"
)

func fundedAccount(t *testing.T, usd int64) *Account {
	t.Helper()

	account := NewAccount("USD")
	require.NoError(t, account.Deposit("USD", decimal.NewFromInt(usd)))
	return account
}

func TestBuyingPower(t *testing.T) {
	model := NewFutureMarginModel()
	buyingPower := NewBuyingPowerModel(model)

	t.Run("NoPositionUsesMarginRemaining", func(t *testing.T) {
		account := fundedAccount(t, 100000)
		flat := testPosition(t, 0, 1000, "2001-06-01")

		got := buyingPower.BuyingPower(account, flat, position.Long)
		assert.True(t, got.Equal(decimal.NewFromInt(100000)))
	})

	t.Run("SameDirectionReservesMaintenance", func(t *testing.T) {
		account := fundedAccount(t, 100000)
		pos := testPosition(t, 10, 1000, "2001-06-01") // maintenance 6000
		account.UpdateMargin(model.MaintenanceMargin(pos), decimal.Zero)

		got := buyingPower.BuyingPower(account, pos, position.Long)
		assert.True(t, got.Equal(decimal.NewFromInt(94000)))
	})

	t.Run("OppositeDirectionReleasesAndRereserves", func(t *testing.T) {
		account := fundedAccount(t, 100000)
		pos := testPosition(t, 10, 1000, "2001-06-01")
		account.UpdateMargin(model.MaintenanceMargin(pos), decimal.Zero)

		// remaining 94000 + maintenance 6000 + 0.81 x 10000 held notional
		got := buyingPower.BuyingPower(account, pos, position.Short)
		assert.True(t, got.Equal(decimal.NewFromInt(108100)))
	})

	t.Run("ShortPositionMirrors", func(t *testing.T) {
		account := fundedAccount(t, 100000)
		pos := testPosition(t, -10, 1000, "2001-06-01")
		account.UpdateMargin(model.MaintenanceMargin(pos), decimal.Zero)

		assert.True(t, buyingPower.BuyingPower(account, pos, position.Short).
			Equal(decimal.NewFromInt(94000)))
		assert.True(t, buyingPower.BuyingPower(account, pos, position.Long).
			Equal(decimal.NewFromInt(108100)))
	})

	t.Run("ConvertsForeignCash", func(t *testing.T) {
		account := fundedAccount(t, 100000)
		require.NoError(t, account.Deposit("EUR", decimal.NewFromInt(10000)))
		account.SetConversionRate("EUR", decimal.RequireFromString("1.1"))

		flat := testPosition(t, 0, 1000, "2001-06-01")
		got := buyingPower.BuyingPower(account, flat, position.Long)
		assert.True(t, got.Equal(decimal.NewFromInt(111000)))
	})

	t.Run("UnpricedCurrencyContributesNothing", func(t *testing.T) {
		account := fundedAccount(t, 100000)
		require.NoError(t, account.Deposit("JPY", decimal.NewFromInt(5000000)))

		assert.True(t, account.TotalPortfolioValue().Equal(decimal.NewFromInt(100000)))
	})
}

func TestReservedBuyingPowerForPosition(t *testing.T) {
	model := NewFutureMarginModel()
	buyingPower := NewBuyingPowerModel(model)

	t.Run("EqualsMaintenanceMargin", func(t *testing.T) {
		pos := testPosition(t, 10, 1000, "2001-06-01")
		assert.True(t, buyingPower.ReservedBuyingPowerForPosition(pos).
			Equal(decimal.NewFromInt(6000)))
	})

	t.Run("InvariantUnderPriceMoves", func(t *testing.T) {
		for _, quantity := range []int64{10, -10} {
			pos := testPosition(t, quantity, 1000, "2001-06-01")
			reserved := buyingPower.ReservedBuyingPowerForPosition(pos)

			for _, price := range []int64{1200, 800, 1000} {
				pos.SetMarkPrice(decimal.NewFromInt(price), date("2001-06-01"))
				assert.True(t, buyingPower.ReservedBuyingPowerForPosition(pos).Equal(reserved),
					"quantity %d price %d", quantity, price)
			}
		}
	})

	t.Run("ZeroWhenFlat", func(t *testing.T) {
		flat := testPosition(t, 0, 1000, "2001-06-01")
		assert.True(t, buyingPower.ReservedBuyingPowerForPosition(flat).IsZero())
		assert.True(t, buyingPower.ReservedBuyingPowerForPosition(nil).IsZero())
	})
}

func TestAccount(t *testing.T) {
	t.Run("DepositWithdraw", func(t *testing.T) {
		account := NewAccount("USD")
		require.NoError(t, account.Deposit("USD", decimal.NewFromInt(500)))
		require.NoError(t, account.Withdraw("USD", decimal.NewFromInt(200)))

		assert.True(t, account.TotalPortfolioValue().Equal(decimal.NewFromInt(300)))

		err := account.Withdraw("USD", decimal.NewFromInt(1000))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient")

		assert.Error(t, account.Deposit("USD", decimal.Zero))
	})

	t.Run("MarginRemaining", func(t *testing.T) {
		account := fundedAccount(t, 100000)
		account.UpdateMargin(decimal.NewFromInt(6000), decimal.NewFromInt(1500))

		// 100000 cash + 1500 unrealized - 6000 reserved
		assert.True(t, account.TotalPortfolioValue().Equal(decimal.NewFromInt(101500)))
		assert.True(t, account.MarginRemaining().Equal(decimal.NewFromInt(95500)))
	})

	t.Run("Settle", func(t *testing.T) {
		account := fundedAccount(t, 1000)
		account.Settle("USD", decimal.NewFromInt(-50)) // fee debit

		assert.True(t, account.TotalPortfolioValue().Equal(decimal.NewFromInt(950)))
	})
}
