package event

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"tours/entity"
)

func (h Handler) StoreCompletedCheckoutHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"StoreCompletedCheckoutHandler",
		func(ctx context.Context, event *entity.CheckoutCompleted) error {
			log.FromContext(ctx).
				WithField("checkout_id", event.CheckoutID).
				Info("Storing completed checkout in the ops read model")

			if err := h.opsReadModel.OnCheckoutCompleted(ctx, event); err != nil {
				return fmt.Errorf("could not store completed checkout: %w", err)
			}

			return nil
		},
	)
}

func (h Handler) StorePendingReservationHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"StorePendingReservationHandler",
		func(ctx context.Context, event *entity.CheckoutReservationPending) error {
			log.FromContext(ctx).
				WithField("checkout_id", event.CheckoutID).
				Warn("Storing pending reservation, customer was charged without a booking")

			if err := h.opsReadModel.OnCheckoutReservationPending(ctx, event); err != nil {
				return fmt.Errorf("could not store pending reservation: %w", err)
			}

			return nil
		},
	)
}
