package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"

	"tours/entity"
)

// SimulatedProvider stands in for payment methods that settle out of band,
// such as bank transfers confirmed manually. Capture waits a fixed delay and
// yields a synthetic confirmation.
type SimulatedProvider struct {
	method string
	delay  time.Duration
}

func NewSimulatedProvider(method string, delay time.Duration) SimulatedProvider {
	if method == "" {
		panic("missing method")
	}

	return SimulatedProvider{method: method, delay: delay}
}

func (p SimulatedProvider) CreateIntent(ctx context.Context, amount entity.Money) (entity.PaymentIntent, error) {
	return entity.PaymentIntent{
		Method:          p.method,
		ProviderOrderID: uuid.NewString(),
		Amount:          amount,
	}, nil
}

func (p SimulatedProvider) Capture(ctx context.Context, intent entity.PaymentIntent) (entity.PaymentConfirmation, error) {
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return entity.PaymentConfirmation{}, fmt.Errorf("simulated capture interrupted: %w", ctx.Err())
	}

	return entity.PaymentConfirmation{
		ConfirmationID: "SIM-" + shortuuid.New(),
		Amount:         intent.Amount,
	}, nil
}

func (p SimulatedProvider) Cancel(ctx context.Context, intent entity.PaymentIntent) error {
	return nil
}
