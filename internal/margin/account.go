package margin

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Account is the portfolio-level cash and margin state the buying power
// computations read. Cash is held per currency; every figure the engine
// returns is converted into the account currency first.
type Account struct {
	currency string

	cash  map[string]decimal.Decimal // currency -> amount
	rates map[string]decimal.Decimal // currency -> rate into account currency

	reserved   decimal.Decimal // maintenance margin held against open positions
	unrealized decimal.Decimal // mark-to-market profit across open positions

	UpdatedAt time.Time

	mu sync.RWMutex
}

// NewAccount creates an empty account denominated in the given currency.
func NewAccount(currency string) *Account {
	return &Account{
		currency:  currency,
		cash:      make(map[string]decimal.Decimal),
		rates:     map[string]decimal.Decimal{currency: decimal.NewFromInt(1)},
		UpdatedAt: time.Now(),
	}
}

// Currency returns the account's base currency.
func (a *Account) Currency() string {
	return a.currency
}

// Deposit credits cash in the given currency.
func (a *Account) Deposit(currency string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.cash[currency] = a.cash[currency].Add(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// Withdraw debits cash in the given currency, bounded by the balance.
func (a *Account) Withdraw(currency string, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	balance := a.cash[currency]
	if balance.LessThan(amount) {
		return fmt.Errorf("insufficient %s balance: %s < %s", currency, balance, amount)
	}
	a.cash[currency] = balance.Sub(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// Settle applies a signed cash movement from trade settlement (realized
// profit, fees) in the given currency.
func (a *Account) Settle(currency string, amount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cash[currency] = a.cash[currency].Add(amount)
	a.UpdatedAt = time.Now()
}

// SetConversionRate publishes the rate converting one unit of currency
// into the account currency.
func (a *Account) SetConversionRate(currency string, rate decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rates[currency] = rate
	a.UpdatedAt = time.Now()
}

// Convert expresses an amount of the given currency in the account
// currency. A currency with no published rate contributes zero: the
// amount is unusable as margin collateral until a rate arrives.
func (a *Account) Convert(amount decimal.Decimal, currency string) decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.convert(amount, currency)
}

// UpdateMargin records the total maintenance reservation and unrealized
// profit across open positions, both in account currency. Called by the
// portfolio after fills and schedule switches.
func (a *Account) UpdateMargin(reserved, unrealized decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.reserved = reserved
	a.unrealized = unrealized
	a.UpdatedAt = time.Now()
}

// TotalPortfolioValue is converted cash across all currencies plus
// unrealized profit.
func (a *Account) TotalPortfolioValue() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()

	total := a.unrealized
	for currency, amount := range a.cash {
		total = total.Add(a.convert(amount, currency))
	}
	return total
}

// MarginRemaining is the portfolio value not reserved against open
// positions.
func (a *Account) MarginRemaining() decimal.Decimal {
	return a.TotalPortfolioValue().Sub(a.ReservedMargin())
}

// ReservedMargin is the maintenance margin currently held.
func (a *Account) ReservedMargin() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.reserved
}

func (a *Account) convert(amount decimal.Decimal, currency string) decimal.Decimal {
	if currency == a.currency {
		return amount
	}
	rate, ok := a.rates[currency]
	if !ok {
		return decimal.Zero
	}
	return amount.Mul(rate)
}
