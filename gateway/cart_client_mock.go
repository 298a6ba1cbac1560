package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tours/entity"
)

// CartMock stands in for the backend cart service. It applies the same merge
// rule as the real service: adding an existing (tour, date) pair merges party
// counts server-side and returns the merged item.
type CartMock struct {
	lock     sync.Mutex
	sessions map[string][]entity.CartItem

	// UnitPrices maps tour ID to its price; tours without an entry cost 100.00 USD.
	UnitPrices map[string]entity.Money

	FailList   error
	FailAdd    error
	FailUpdate error
	FailRemove error
	FailClear  error

	ListCalls   int
	AddCalls    int
	UpdateCalls int
	RemoveCalls int
	ClearCalls  int
}

func (m *CartMock) List(ctx context.Context, sessionID string) ([]entity.CartItem, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.ListCalls++
	if m.FailList != nil {
		return nil, m.FailList
	}

	return append([]entity.CartItem(nil), m.sessions[sessionID]...), nil
}

func (m *CartMock) Add(
	ctx context.Context,
	sessionID string,
	tourID string,
	travelDate time.Time,
	partyCount int,
) (entity.CartItem, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.AddCalls++
	if m.FailAdd != nil {
		return entity.CartItem{}, m.FailAdd
	}
	if m.sessions == nil {
		m.sessions = map[string][]entity.CartItem{}
	}

	items := m.sessions[sessionID]
	for i, item := range items {
		if item.TourID == tourID && item.TravelDate.Equal(travelDate) {
			item.PartyCount += partyCount
			items[i] = item
			return item, nil
		}
	}

	item := entity.CartItem{
		ID:         uuid.NewString(),
		TourID:     tourID,
		TravelDate: travelDate,
		PartyCount: partyCount,
		UnitPrice:  m.unitPrice(tourID),
	}
	m.sessions[sessionID] = append(items, item)

	return item, nil
}

func (m *CartMock) Update(
	ctx context.Context,
	sessionID string,
	itemID string,
	partyCount int,
) (entity.CartItem, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.UpdateCalls++
	if m.FailUpdate != nil {
		return entity.CartItem{}, m.FailUpdate
	}

	for i, item := range m.sessions[sessionID] {
		if item.ID == itemID {
			item.PartyCount = partyCount
			m.sessions[sessionID][i] = item
			return item, nil
		}
	}

	return entity.CartItem{}, entity.ErrCartItemNotFound
}

func (m *CartMock) Remove(ctx context.Context, sessionID string, itemID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.RemoveCalls++
	if m.FailRemove != nil {
		return m.FailRemove
	}

	items := m.sessions[sessionID]
	for i, item := range items {
		if item.ID == itemID {
			m.sessions[sessionID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}

	return entity.ErrCartItemNotFound
}

func (m *CartMock) Clear(ctx context.Context, sessionID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.ClearCalls++
	if m.FailClear != nil {
		return m.FailClear
	}

	delete(m.sessions, sessionID)

	return nil
}

func (m *CartMock) unitPrice(tourID string) entity.Money {
	if price, ok := m.UnitPrices[tourID]; ok {
		return price
	}
	return entity.MustNewMoney("100.00", "USD")
}
