package event

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"tours/entity"
)

func (h Handler) RecordFollowUpFailureHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"RecordFollowUpFailureHandler",
		func(ctx context.Context, event *entity.ReconciliationFollowUpFailed) error {
			log.FromContext(ctx).
				WithField("booking_id", event.BookingID).
				WithField("step", event.Step).
				Info("Recording reconciliation repair task")

			err := h.repairsRepo.Store(ctx, entity.RepairTask{
				ID:             event.Header.ID,
				CheckoutID:     event.CheckoutID,
				BookingID:      event.BookingID,
				Step:           event.Step,
				Reason:         event.Reason,
				ConfirmationID: event.ConfirmationID,
				OccurredAt:     event.Header.PublishedAt,
			})
			if err != nil {
				return fmt.Errorf("could not store repair task: %w", err)
			}

			return nil
		},
	)
}
