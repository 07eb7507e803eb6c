package position

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"frizo/risk_engine/internal/instrument"
)

// Manager is the portfolio's position book, keyed by symbol. It is the
// single writer for the positions it owns; risk reads go through Get.
type Manager struct {
	positions map[string]*Position
	mu        sync.RWMutex
}

// NewManager builds an empty book seeded with flat positions for the
// given instruments.
func NewManager(instruments []*instrument.Instrument) *Manager {
	m := &Manager{
		positions: make(map[string]*Position, len(instruments)),
	}
	for _, inst := range instruments {
		m.positions[inst.Symbol] = New(inst)
	}
	return m
}

// Add registers a flat position for an instrument not seeded at build
// time. Existing holdings are left untouched.
func (m *Manager) Add(inst *instrument.Instrument) *Position {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pos, ok := m.positions[inst.Symbol]; ok {
		return pos
	}
	pos := New(inst)
	m.positions[inst.Symbol] = pos
	return pos
}

// Get returns the position for a symbol, or nil when untracked.
func (m *Manager) Get(symbol string) *Position {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.positions[symbol]
}

// ApplyFill routes an executed order to its position and returns the
// realized profit.
func (m *Manager) ApplyFill(symbol string, quantity, price decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.positions[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("symbol %s is not tracked by the position book", symbol)
	}
	return pos.ApplyFill(quantity, price)
}

// MarkPrice fans a market price update out to the symbol's position.
func (m *Manager) MarkPrice(symbol string, price decimal.Decimal, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pos, ok := m.positions[symbol]; ok {
		pos.SetMarkPrice(price, at)
	}
}

// OpenPositions returns every position with a non-zero holding.
func (m *Manager) OpenPositions() []*Position {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var open []*Position
	for _, pos := range m.positions {
		if !pos.IsFlat() {
			open = append(open, pos)
		}
	}
	return open
}
