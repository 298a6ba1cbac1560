package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tours/cart"
	"tours/checkout"
	"tours/entity"
	"tours/gateway"
	"tours/pubsub/bus"
)

type capturingPublisher struct {
	lock   sync.Mutex
	topics map[string][]*message.Message
}

func (p *capturingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.topics == nil {
		p.topics = map[string][]*message.Message{}
	}
	p.topics[topic] = append(p.topics[topic], messages...)

	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) published(topic string) int {
	p.lock.Lock()
	defer p.lock.Unlock()

	return len(p.topics[topic])
}

type nopCache struct{}

func (nopCache) Save(ctx context.Context, sessionID string, items []entity.CartItem) error {
	return nil
}

func (nopCache) Load(ctx context.Context, sessionID string) ([]entity.CartItem, bool, error) {
	return nil, false, nil
}

func (nopCache) Delete(ctx context.Context, sessionID string) error { return nil }

type fixture struct {
	orchestrator *checkout.Orchestrator
	cartStore    *cart.Store
	cartRemote   *gateway.CartMock
	payment      *gateway.PaymentMock
	bookings     *gateway.BookingsMock
	publisher    *capturingPublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cartRemote := &gateway.CartMock{
		UnitPrices: map[string]entity.Money{
			"tour-machu": entity.MustNewMoney("450.00", "USD"),
			"tour-cusco": entity.MustNewMoney("120.00", "USD"),
		},
	}
	cartStore := cart.NewStore("session-1", cartRemote, nopCache{})

	payment := &gateway.PaymentMock{}
	bookings := &gateway.BookingsMock{}
	publisher := &capturingPublisher{}

	eventBus, err := bus.NewEventBus(publisher)
	require.NoError(t, err)

	orchestrator := checkout.NewOrchestrator(
		"session-1",
		cartStore,
		map[string]checkout.PaymentProvider{"card": payment},
		bookings,
		eventBus,
	)

	return fixture{
		orchestrator: orchestrator,
		cartStore:    cartStore,
		cartRemote:   cartRemote,
		payment:      payment,
		bookings:     bookings,
		publisher:    publisher,
	}
}

func (f fixture) fillCart(t *testing.T, tourIDs ...string) {
	t.Helper()

	for i, tourID := range tourIDs {
		_, err := f.cartStore.Add(context.Background(), tourID, travelDate(10+i), 2)
		require.NoError(t, err)
	}
}

func (f fixture) advanceToAwaitingPayment(t *testing.T) {
	t.Helper()

	require.NoError(t, f.orchestrator.SubmitTraveler(validTraveler()))
	require.NoError(t, f.orchestrator.SelectPaymentMethod(context.Background(), "card"))
}

func validTraveler() entity.TravelerProfile {
	return entity.TravelerProfile{
		FullName:       "Ana Quispe",
		Email:          "ana@example.com",
		Phone:          "+51 984 123 456",
		DocumentType:   "passport",
		DocumentNumber: "X1234567",
	}
}

func travelDate(daysAhead int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, daysAhead)
}

func TestOrchestrator_travelerValidationBlocksTransition(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "tour-machu")

	err := f.orchestrator.SubmitTraveler(entity.TravelerProfile{FullName: "Ana Quispe"})

	var validationErr entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "Email")
	assert.Contains(t, validationErr.Fields, "Phone")

	assert.Equal(t, checkout.PhaseCollectingTraveler, f.orchestrator.State().Phase)
}

func TestOrchestrator_emptyCartBlocksCheckout(t *testing.T) {
	f := newFixture(t)

	err := f.orchestrator.SubmitTraveler(validTraveler())
	assert.ErrorIs(t, err, entity.ErrEmptyCart)
}

func TestOrchestrator_intentFailureStaysAtSelectingPayment(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "tour-machu")

	require.NoError(t, f.orchestrator.SubmitTraveler(validTraveler()))

	f.payment.FailIntent = errors.New("provider unavailable")
	err := f.orchestrator.SelectPaymentMethod(context.Background(), "card")
	require.Error(t, err)

	state := f.orchestrator.State()
	assert.Equal(t, checkout.PhaseSelectingPayment, state.Phase)
	assert.NotEmpty(t, state.LastError)
	assert.Nil(t, state.Intent)

	// a retry after the provider recovers goes through
	f.payment.FailIntent = nil
	require.NoError(t, f.orchestrator.SelectPaymentMethod(context.Background(), "card"))
	assert.Equal(t, checkout.PhaseAwaitingPayment, f.orchestrator.State().Phase)
}

func TestOrchestrator_unknownPaymentMethodRejected(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, "tour-machu")

	require.NoError(t, f.orchestrator.SubmitTraveler(validTraveler()))

	err := f.orchestrator.SelectPaymentMethod(context.Background(), "barter")

	var validationErr entity.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "method")
}

func TestOrchestrator_happyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "tour-machu", "tour-cusco")
	f.advanceToAwaitingPayment(t)

	state, err := f.orchestrator.Pay(ctx)
	require.NoError(t, err)

	assert.Equal(t, checkout.PhaseDone, state.Phase)
	require.NotNil(t, state.Result)
	assert.Len(t, state.Result.BookingIDs, 2)
	assert.NotEmpty(t, state.Result.PrimaryBookingID)
	assert.Empty(t, state.Result.FailedTourIDs)
	assert.Equal(t, "card", state.Result.PaymentMethod)

	// all bookings are paid and confirmed
	for _, bookingID := range state.Result.BookingIDs {
		booking, err := f.bookings.Get(ctx, bookingID)
		require.NoError(t, err)
		assert.Equal(t, entity.PaymentStatusPaid, booking.PaymentStatus)
		assert.Equal(t, entity.BookingStatusConfirmed, booking.Status)
	}

	assert.Empty(t, f.cartStore.Items(), "cart is cleared after checkout")
	assert.Equal(t, 1, f.publisher.published("events.entity.CheckoutCompleted"))
}

func TestOrchestrator_partialBookingFailureStillCompletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "tour-machu", "tour-cusco")
	f.advanceToAwaitingPayment(t)

	f.bookings.FailCreateFor = map[string]error{"tour-cusco": errors.New("no availability")}

	state, err := f.orchestrator.Pay(ctx)
	require.NoError(t, err)

	assert.Equal(t, checkout.PhaseDone, state.Phase)
	require.NotNil(t, state.Result)
	assert.Len(t, state.Result.BookingIDs, 1)
	assert.Equal(t, state.Result.BookingIDs[0], state.Result.PrimaryBookingID)
	assert.Equal(t, []string{"tour-cusco"}, state.Result.FailedTourIDs)

	assert.Empty(t, f.cartStore.Items(), "cart is cleared, the customer was charged")
}

func TestOrchestrator_allBookingsFailedIsReservationPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "tour-machu")
	f.advanceToAwaitingPayment(t)

	f.bookings.FailCreateFor = map[string]error{"tour-machu": errors.New("no availability")}

	state, err := f.orchestrator.Pay(ctx)
	require.NoError(t, err)

	assert.Equal(t, checkout.PhaseReservationPending, state.Phase)
	require.NotNil(t, state.Result)
	assert.Empty(t, state.Result.PrimaryBookingID)
	assert.Equal(t, []string{"tour-machu"}, state.Result.FailedTourIDs)

	// the capture is never retried, the customer stays charged exactly once
	assert.Equal(t, 1, f.payment.CaptureCalls)
	assert.Equal(t, 1, f.publisher.published("events.entity.CheckoutReservationPending"))
}

func TestOrchestrator_captureFailureAllowsRetry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "tour-machu")
	f.advanceToAwaitingPayment(t)

	f.payment.FailCapture = errors.New("card declined")

	state, err := f.orchestrator.Pay(ctx)
	require.Error(t, err)
	assert.Equal(t, checkout.PhaseSelectingPayment, state.Phase)
	assert.NotEmpty(t, state.LastError)
	assert.Equal(t, 0, f.bookings.CreateCalls, "no bookings without a capture")

	f.payment.FailCapture = nil
	require.NoError(t, f.orchestrator.SelectPaymentMethod(ctx, "card"))

	state, err = f.orchestrator.Pay(ctx)
	require.NoError(t, err)
	assert.Equal(t, checkout.PhaseDone, state.Phase)
}

func TestOrchestrator_concurrentPayIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "tour-machu")
	f.advanceToAwaitingPayment(t)

	f.payment.CaptureDelay = 200 * time.Millisecond

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.orchestrator.Pay(ctx)
		firstDone <- err
	}()

	// the second Pay arrives while the first capture is still in flight
	assert.Eventually(t, func() bool {
		return f.orchestrator.State().Phase == checkout.PhaseCapturing
	}, time.Second, 5*time.Millisecond)

	_, err := f.orchestrator.Pay(ctx)
	assert.ErrorIs(t, err, entity.ErrPaymentInFlight)

	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, f.payment.CaptureCalls, "the session must not be charged twice")
	assert.Equal(t, checkout.PhaseDone, f.orchestrator.State().Phase)
}

func TestOrchestrator_followUpFailureDoesNotFailCheckout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "tour-machu")
	f.advanceToAwaitingPayment(t)

	f.bookings.FailMarkPaid = errors.New("bookings service timeout")

	state, err := f.orchestrator.Pay(ctx)
	require.NoError(t, err)

	assert.Equal(t, checkout.PhaseDone, state.Phase)
	assert.Equal(t, 1, f.publisher.published("events.entity.ReconciliationFollowUpFailed"))
	// marking paid failed, so confirmation is skipped entirely
	assert.Equal(t, 0, f.bookings.ConfirmedCalls)
}

func TestOrchestrator_cancelReturnsToPaymentSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "tour-machu")
	f.advanceToAwaitingPayment(t)

	require.NoError(t, f.orchestrator.Cancel(ctx))

	state := f.orchestrator.State()
	assert.Equal(t, checkout.PhaseSelectingPayment, state.Phase)
	assert.Nil(t, state.Intent)
	assert.Len(t, f.payment.Cancelled, 1)

	assert.Len(t, f.cartStore.Items(), 1, "cancelling payment keeps the cart")
}

func TestOrchestrator_cancelRejectedWhileCaptureInFlight(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "tour-machu")
	f.advanceToAwaitingPayment(t)

	f.payment.CaptureDelay = 200 * time.Millisecond

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.orchestrator.Pay(ctx)
		firstDone <- err
	}()

	assert.Eventually(t, func() bool {
		return f.orchestrator.State().Phase == checkout.PhaseCapturing
	}, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, f.orchestrator.Cancel(ctx), entity.ErrPaymentInFlight)
	require.NoError(t, <-firstDone)
}

func TestOrchestrator_finishedCheckoutStartsFresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t, "tour-machu")
	f.advanceToAwaitingPayment(t)

	firstID := f.orchestrator.State().CheckoutID

	_, err := f.orchestrator.Pay(ctx)
	require.NoError(t, err)

	// a new purchase in the same session starts over
	f.fillCart(t, "tour-cusco")
	require.NoError(t, f.orchestrator.SubmitTraveler(validTraveler()))

	state := f.orchestrator.State()
	assert.Equal(t, checkout.PhaseSelectingPayment, state.Phase)
	assert.NotEqual(t, firstID, state.CheckoutID)
	assert.Nil(t, state.Result)
}
