package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/google/uuid"

	"tours/entity"
	"tours/metrics"
)

// PaymentProvider abstracts the external payment capability. The live provider
// and the simulated one feed the same capture contract, so reconciliation is
// payment-method-agnostic.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount entity.Money) (entity.PaymentIntent, error)
	Capture(ctx context.Context, intent entity.PaymentIntent) (entity.PaymentConfirmation, error)
	Cancel(ctx context.Context, intent entity.PaymentIntent) error
}

type BookingsService interface {
	Create(ctx context.Context, request entity.BookingRequest) (entity.Booking, error)
	MarkPaid(ctx context.Context, bookingID string, paymentMethod string, confirmationID string) error
	UpdateStatus(ctx context.Context, bookingID string, status entity.BookingStatus) error
}

// CartAccess is the slice of the cart store the orchestrator needs.
type CartAccess interface {
	Items() []entity.CartItem
	Totals() entity.CartTotals
	Clear(ctx context.Context) error
}

// Orchestrator drives one session's checkout through the state machine.
// All transitions go through its mutex; capture and reconciliation run with
// the mutex released, guarded by the Capturing/Reconciling phases instead.
type Orchestrator struct {
	sessionID string
	cart      CartAccess
	providers map[string]PaymentProvider
	bookings  BookingsService
	eventBus  *cqrs.EventBus

	mu    sync.Mutex
	state State
}

func NewOrchestrator(
	sessionID string,
	cart CartAccess,
	providers map[string]PaymentProvider,
	bookings BookingsService,
	eventBus *cqrs.EventBus,
) *Orchestrator {
	if sessionID == "" {
		panic("missing sessionID")
	}
	if cart == nil {
		panic("missing cart")
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

	return &Orchestrator{
		sessionID: sessionID,
		cart:      cart,
		providers: providers,
		bookings:  bookings,
		eventBus:  eventBus,
		state: State{
			CheckoutID: uuid.NewString(),
			Phase:      PhaseCollectingTraveler,
		},
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.state.copy()
}

// SubmitTraveler validates step one and advances to payment selection.
// Invalid input blocks the transition; nothing advances partially.
// Calling it on a finished checkout starts a fresh one for the session.
func (o *Orchestrator) SubmitTraveler(profile entity.TravelerProfile) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Phase.Terminal() {
		o.state = State{
			CheckoutID: uuid.NewString(),
			Phase:      PhaseCollectingTraveler,
		}
	}

	if o.state.Phase != PhaseCollectingTraveler && o.state.Phase != PhaseSelectingPayment {
		return fmt.Errorf("cannot change traveler while checkout is %s", o.state.Phase)
	}

	if err := profile.Validate(); err != nil {
		return err
	}
	if len(o.cart.Items()) == 0 {
		return entity.ErrEmptyCart
	}

	o.state.Traveler = profile
	o.state.Phase = PhaseSelectingPayment
	o.state.LastError = ""

	return nil
}

// SelectPaymentMethod creates the payment intent and enters AwaitingPayment.
// An adapter failure keeps the checkout at SelectingPayment with the error
// recorded, so the storefront can offer a manual retry.
func (o *Orchestrator) SelectPaymentMethod(ctx context.Context, method string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Phase != PhaseSelectingPayment {
		return fmt.Errorf("cannot select payment method while checkout is %s", o.state.Phase)
	}

	provider, ok := o.providers[method]
	if !ok {
		return entity.ValidationError{Fields: map[string]string{"method": "unknown payment method"}}
	}

	totals := o.cart.Totals()
	if totals.Total.IsZero() {
		return entity.ErrEmptyCart
	}

	intent, err := provider.CreateIntent(ctx, totals.Total)
	if err != nil {
		o.state.LastError = err.Error()
		return fmt.Errorf("could not create payment intent: %w", err)
	}
	intent.Method = method

	o.state.Intent = &intent
	o.state.Phase = PhaseAwaitingPayment
	o.state.LastError = ""

	return nil
}

// Pay captures the intent and, on success, reconciles the cart into bookings.
// A second Pay while one is outstanding gets ErrPaymentInFlight: the phases
// Capturing and Reconciling reject re-entry, so the session cannot be charged
// or booked twice.
func (o *Orchestrator) Pay(ctx context.Context) (State, error) {
	o.mu.Lock()
	switch o.state.Phase {
	case PhaseAwaitingPayment:
	case PhaseCapturing, PhaseReconciling:
		state := o.state.copy()
		o.mu.Unlock()
		return state, entity.ErrPaymentInFlight
	default:
		state := o.state.copy()
		o.mu.Unlock()
		return state, fmt.Errorf("cannot pay while checkout is %s", o.state.Phase)
	}

	intent := *o.state.Intent
	o.state.Phase = PhaseCapturing
	o.mu.Unlock()

	confirmation, err := o.providers[intent.Method].Capture(ctx, intent)
	if err != nil {
		metrics.PaymentCaptures.WithLabelValues(intent.Method, "failed").Inc()

		o.mu.Lock()
		o.state.Phase = PhaseSelectingPayment
		o.state.Intent = nil
		o.state.LastError = err.Error()
		state := o.state.copy()
		o.mu.Unlock()

		return state, fmt.Errorf("payment capture failed: %w", err)
	}

	metrics.PaymentCaptures.WithLabelValues(intent.Method, "captured").Inc()

	o.mu.Lock()
	o.state.Phase = PhaseReconciling
	o.state.Intent = nil // the intent is consumed exactly once
	o.mu.Unlock()

	// The customer is charged: reconciliation runs to completion, detached
	// from the request context.
	reconcileCtx := log.ContextWithCorrelationID(context.Background(), log.CorrelationIDFromContext(ctx))
	result := o.reconcile(reconcileCtx, intent, confirmation)

	o.mu.Lock()
	o.state.Result = &result
	if result.PrimaryBookingID != "" {
		o.state.Phase = PhaseDone
	} else {
		o.state.Phase = PhaseReservationPending
	}
	state := o.state.copy()
	o.mu.Unlock()

	return state, nil
}

// Cancel abandons the payment step. Allowed any time before reconciliation;
// once the customer is charged there is nothing safe to cancel.
func (o *Orchestrator) Cancel(ctx context.Context) error {
	o.mu.Lock()
	switch o.state.Phase {
	case PhaseCapturing, PhaseReconciling:
		o.mu.Unlock()
		return entity.ErrPaymentInFlight
	case PhaseDone, PhaseReservationPending:
		o.mu.Unlock()
		return fmt.Errorf("checkout already finished")
	}

	intent := o.state.Intent
	o.state.Intent = nil
	if o.state.Phase == PhaseAwaitingPayment {
		o.state.Phase = PhaseSelectingPayment
	}
	o.mu.Unlock()

	if intent != nil {
		if err := o.providers[intent.Method].Cancel(ctx, *intent); err != nil {
			log.FromContext(ctx).WithError(err).Warn("could not cancel payment intent")
		}
	}

	return nil
}
