package checkout

import "tours/entity"

type Phase string

const (
	// PhaseCollectingTraveler is the first checkout step: traveler info.
	PhaseCollectingTraveler Phase = "collecting_traveler"
	// PhaseSelectingPayment: traveler validated, waiting for a payment method.
	// Payment errors return here; traveler data is preserved.
	PhaseSelectingPayment Phase = "selecting_payment"
	// PhaseAwaitingPayment: a payment intent exists, capture may be requested.
	PhaseAwaitingPayment Phase = "awaiting_payment"
	// PhaseCapturing: a capture is in flight. Re-entry is rejected, which is
	// what makes "no double charge" a property of the machine.
	PhaseCapturing Phase = "capturing"
	// PhaseReconciling: payment captured, bookings being created. Runs to
	// completion; cancellation is no longer possible.
	PhaseReconciling Phase = "reconciling"
	// PhaseReservationPending: payment captured but no booking could be
	// created. Deliberately distinct from any generic failure.
	PhaseReservationPending Phase = "reservation_pending"
	PhaseDone               Phase = "done"
)

func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseReservationPending
}

// State is the full checkout state exposed to handlers. Copies returned by
// Orchestrator.State are detached from the live machine.
type State struct {
	CheckoutID string                 `json:"checkout_id"`
	Phase      Phase                  `json:"phase"`
	Traveler   entity.TravelerProfile `json:"traveler"`
	Intent     *entity.PaymentIntent  `json:"intent,omitempty"`
	LastError  string                 `json:"last_error,omitempty"`
	Result     *Result                `json:"result,omitempty"`
}

// Result summarizes reconciliation: which bookings exist, which cart items
// could not be booked, and what was paid.
type Result struct {
	PrimaryBookingID string       `json:"primary_booking_id,omitempty"`
	BookingIDs       []string     `json:"booking_ids"`
	FailedTourIDs    []string     `json:"failed_tour_ids,omitempty"`
	AmountPaid       entity.Money `json:"amount_paid"`
	PaymentMethod    string       `json:"payment_method"`
	ConfirmationID   string       `json:"confirmation_id"`
}

func (s State) copy() State {
	out := s
	if s.Intent != nil {
		intent := *s.Intent
		out.Intent = &intent
	}
	if s.Result != nil {
		result := *s.Result
		result.BookingIDs = append([]string(nil), s.Result.BookingIDs...)
		result.FailedTourIDs = append([]string(nil), s.Result.FailedTourIDs...)
		out.Result = &result
	}
	return out
}
