package checkout

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"tours/cart"
)

// Registry owns one Orchestrator per storefront session, sharing the payment
// providers and backend clients between them.
type Registry struct {
	carts     *cart.Registry
	providers map[string]PaymentProvider
	bookings  BookingsService
	eventBus  *cqrs.EventBus

	mu            sync.Mutex
	orchestrators map[string]*Orchestrator
}

func NewRegistry(
	carts *cart.Registry,
	providers map[string]PaymentProvider,
	bookings BookingsService,
	eventBus *cqrs.EventBus,
) *Registry {
	if carts == nil {
		panic("missing cart registry")
	}
	if len(providers) == 0 {
		panic("missing payment providers")
	}
	if bookings == nil {
		panic("missing bookings service")
	}
	if eventBus == nil {
		panic("missing eventBus")
	}

	return &Registry{
		carts:         carts,
		providers:     providers,
		bookings:      bookings,
		eventBus:      eventBus,
		orchestrators: map[string]*Orchestrator{},
	}
}

func (r *Registry) Orchestrator(ctx context.Context, sessionID string) *Orchestrator {
	store := r.carts.Store(ctx, sessionID)

	r.mu.Lock()
	defer r.mu.Unlock()

	orchestrator, ok := r.orchestrators[sessionID]
	if !ok {
		orchestrator = NewOrchestrator(sessionID, store, r.providers, r.bookings, r.eventBus)
		r.orchestrators[sessionID] = orchestrator
	}

	return orchestrator
}
