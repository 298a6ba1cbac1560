package entity

import "time"

const (
	OpsCheckoutStatusCompleted          = "completed"
	OpsCheckoutStatusReservationPending = "reservation_pending"
)

// OpsCheckout is the back-office read model of a finished checkout.
type OpsCheckout struct {
	CheckoutID       string    `json:"checkout_id"`
	SessionID        string    `json:"session_id"`
	Status           string    `json:"status"`
	PrimaryBookingID string    `json:"primary_booking_id"`
	BookingIDs       []string  `json:"booking_ids"`
	FailedTourIDs    []string  `json:"failed_tour_ids"`
	AmountPaid       Money     `json:"amount_paid"`
	PaymentMethod    string    `json:"payment_method"`
	ConfirmationID   string    `json:"confirmation_id"`
	CompletedAt      time.Time `json:"completed_at"`
	LastUpdate       time.Time `json:"last_update"`
}

// RepairTask is one reconciliation follow-up that failed after payment capture
// and needs manual or scheduled repair.
type RepairTask struct {
	ID             string     `json:"id" db:"id"`
	CheckoutID     string     `json:"checkout_id" db:"checkout_id"`
	BookingID      string     `json:"booking_id" db:"booking_id"`
	Step           string     `json:"step" db:"step"`
	Reason         string     `json:"reason" db:"reason"`
	ConfirmationID string     `json:"confirmation_id" db:"confirmation_id"`
	OccurredAt     time.Time  `json:"occurred_at" db:"occurred_at"`
	ResolvedAt     *time.Time `json:"resolved_at" db:"resolved_at"`
}
