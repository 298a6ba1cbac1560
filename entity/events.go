package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

// CheckoutCompleted is published when payment was captured and at least one
// booking was created.
type CheckoutCompleted struct {
	Header           EventHeader `json:"header"`
	CheckoutID       string      `json:"checkout_id"`
	SessionID        string      `json:"session_id"`
	PrimaryBookingID string      `json:"primary_booking_id"`
	BookingIDs       []string    `json:"booking_ids"`
	FailedTourIDs    []string    `json:"failed_tour_ids"`
	AmountPaid       Money       `json:"amount_paid"`
	PaymentMethod    string      `json:"payment_method"`
	ConfirmationID   string      `json:"confirmation_id"`
}

// CheckoutReservationPending is published when payment was captured but no
// booking could be created. The customer was charged; support has to step in.
type CheckoutReservationPending struct {
	Header         EventHeader `json:"header"`
	CheckoutID     string      `json:"checkout_id"`
	SessionID      string      `json:"session_id"`
	FailedTourIDs  []string    `json:"failed_tour_ids"`
	AmountPaid     Money       `json:"amount_paid"`
	PaymentMethod  string      `json:"payment_method"`
	ConfirmationID string      `json:"confirmation_id"`
}

// ReconciliationFollowUpFailed records a best-effort follow-up (mark paid,
// confirm) that did not go through. The booking exists, back office repairs it.
type ReconciliationFollowUpFailed struct {
	Header         EventHeader `json:"header"`
	CheckoutID     string      `json:"checkout_id"`
	BookingID      string      `json:"booking_id"`
	Step           string      `json:"step"`
	Reason         string      `json:"reason"`
	ConfirmationID string      `json:"confirmation_id"`
}
