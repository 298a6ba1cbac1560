package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tours/entity"
)

type PaymentMock struct {
	lock sync.Mutex

	Intents    map[string]entity.PaymentIntent
	Captured   map[string]entity.PaymentConfirmation
	Cancelled  []string
	FailIntent error
	FailCapture error

	// CaptureDelay makes Capture block, to exercise the in-flight guard.
	CaptureDelay time.Duration

	IntentCalls  int
	CaptureCalls int
}

func (m *PaymentMock) CreateIntent(ctx context.Context, amount entity.Money) (entity.PaymentIntent, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.IntentCalls++
	if m.FailIntent != nil {
		return entity.PaymentIntent{}, m.FailIntent
	}
	if m.Intents == nil {
		m.Intents = map[string]entity.PaymentIntent{}
	}

	intent := entity.PaymentIntent{
		Method:          "card",
		ProviderOrderID: uuid.NewString(),
		Amount:          amount,
	}
	m.Intents[intent.ProviderOrderID] = intent

	return intent, nil
}

func (m *PaymentMock) Capture(ctx context.Context, intent entity.PaymentIntent) (entity.PaymentConfirmation, error) {
	m.lock.Lock()
	m.CaptureCalls++
	delay := m.CaptureDelay
	failure := m.FailCapture
	m.lock.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return entity.PaymentConfirmation{}, ctx.Err()
		}
	}

	if failure != nil {
		return entity.PaymentConfirmation{}, failure
	}

	confirmation := entity.PaymentConfirmation{
		ConfirmationID: uuid.NewString(),
		Amount:         intent.Amount,
	}

	m.lock.Lock()
	if m.Captured == nil {
		m.Captured = map[string]entity.PaymentConfirmation{}
	}
	m.Captured[intent.ProviderOrderID] = confirmation
	m.lock.Unlock()

	return confirmation, nil
}

func (m *PaymentMock) Cancel(ctx context.Context, intent entity.PaymentIntent) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.Cancelled = append(m.Cancelled, intent.ProviderOrderID)

	return nil
}
