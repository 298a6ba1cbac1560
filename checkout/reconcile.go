package checkout

import (
	"context"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"tours/entity"
	"tours/metrics"
)

type bookingOutcome struct {
	item    entity.CartItem
	booking entity.Booking
	err     error
}

// reconcile turns the committed cart into bookings. Creation requests fan out
// concurrently and join all-settled: the customer already paid for the whole
// cart, so one item's failure must not stop the others from being attempted.
func (o *Orchestrator) reconcile(
	ctx context.Context,
	intent entity.PaymentIntent,
	confirmation entity.PaymentConfirmation,
) Result {
	logger := log.FromContext(ctx).WithField("checkout_id", o.state.CheckoutID)

	items := o.cart.Items()
	outcomes := make([]bookingOutcome, len(items))

	var g errgroup.Group
	for i := range items {
		i := i
		item := items[i]
		g.Go(func() error {
			booking, err := o.bookings.Create(ctx, entity.BookingRequest{
				TourID:     item.TourID,
				TravelDate: item.TravelDate,
				PartyCount: item.PartyCount,
			})
			outcomes[i] = bookingOutcome{item: item, booking: booking, err: err}

			// errors are collected, never returned: the join must not short-circuit
			return nil
		})
	}
	_ = g.Wait()

	created := lo.Filter(outcomes, func(oc bookingOutcome, _ int) bool { return oc.err == nil })
	failed := lo.Filter(outcomes, func(oc bookingOutcome, _ int) bool { return oc.err != nil })

	for _, oc := range failed {
		metrics.BookingCreationFailures.Inc()
		logger.
			WithField("tour_id", oc.item.TourID).
			WithError(oc.err).
			Error("could not create booking for paid cart item")
	}

	for _, oc := range created {
		if err := o.bookings.MarkPaid(ctx, oc.booking.ID, intent.Method, confirmation.ConfirmationID); err != nil {
			o.reportFollowUpFailure(ctx, oc.booking.ID, "mark_paid", err, confirmation)
			continue
		}
		if err := o.bookings.UpdateStatus(ctx, oc.booking.ID, entity.BookingStatusConfirmed); err != nil {
			o.reportFollowUpFailure(ctx, oc.booking.ID, "confirm", err, confirmation)
		}
	}

	// The cart reflects "charged", not "fully reconciled": it is cleared even
	// when some items failed to become bookings.
	if err := o.cart.Clear(ctx); err != nil {
		logger.WithError(err).Warn("could not clear cart after checkout")
	}

	result := Result{
		BookingIDs: lo.Map(created, func(oc bookingOutcome, _ int) string {
			return oc.booking.ID
		}),
		FailedTourIDs: lo.Map(failed, func(oc bookingOutcome, _ int) string {
			return oc.item.TourID
		}),
		AmountPaid:     confirmation.Amount,
		PaymentMethod:  intent.Method,
		ConfirmationID: confirmation.ConfirmationID,
	}
	if len(created) > 0 {
		// outcomes keep cart order, so the primary booking is the first item's
		result.PrimaryBookingID = created[0].booking.ID
	}

	o.publishOutcome(ctx, result)

	return result
}

func (o *Orchestrator) publishOutcome(ctx context.Context, result Result) {
	logger := log.FromContext(ctx)

	if result.PrimaryBookingID != "" {
		metrics.CheckoutsFinished.WithLabelValues("completed").Inc()
		err := o.eventBus.Publish(ctx, entity.CheckoutCompleted{
			Header:           entity.NewEventHeaderWithIdempotencyKey(result.ConfirmationID),
			CheckoutID:       o.state.CheckoutID,
			SessionID:        o.sessionID,
			PrimaryBookingID: result.PrimaryBookingID,
			BookingIDs:       result.BookingIDs,
			FailedTourIDs:    result.FailedTourIDs,
			AmountPaid:       result.AmountPaid,
			PaymentMethod:    result.PaymentMethod,
			ConfirmationID:   result.ConfirmationID,
		})
		if err != nil {
			logger.WithError(err).Error("could not publish CheckoutCompleted")
		}
		return
	}

	metrics.CheckoutsFinished.WithLabelValues("reservation_pending").Inc()
	err := o.eventBus.Publish(ctx, entity.CheckoutReservationPending{
		Header:         entity.NewEventHeaderWithIdempotencyKey(result.ConfirmationID),
		CheckoutID:     o.state.CheckoutID,
		SessionID:      o.sessionID,
		FailedTourIDs:  result.FailedTourIDs,
		AmountPaid:     result.AmountPaid,
		PaymentMethod:  result.PaymentMethod,
		ConfirmationID: result.ConfirmationID,
	})
	if err != nil {
		logger.WithError(err).Error("could not publish CheckoutReservationPending")
	}
}

// reportFollowUpFailure logs and publishes a failed best-effort follow-up.
// It never fails the checkout: the booking exists and back office can repair it.
func (o *Orchestrator) reportFollowUpFailure(
	ctx context.Context,
	bookingID string,
	step string,
	cause error,
	confirmation entity.PaymentConfirmation,
) {
	metrics.ReconciliationFollowUpFailures.WithLabelValues(step).Inc()

	log.FromContext(ctx).
		WithField("booking_id", bookingID).
		WithField("step", step).
		WithError(cause).
		Error("reconciliation follow-up failed, leaving for back office")

	err := o.eventBus.Publish(ctx, entity.ReconciliationFollowUpFailed{
		Header:         entity.NewEventHeaderWithIdempotencyKey(confirmation.ConfirmationID + bookingID + step),
		CheckoutID:     o.state.CheckoutID,
		BookingID:      bookingID,
		Step:           step,
		Reason:         cause.Error(),
		ConfirmationID: confirmation.ConfirmationID,
	})
	if err != nil {
		log.FromContext(ctx).WithError(err).Error("could not publish ReconciliationFollowUpFailed")
	}
}
