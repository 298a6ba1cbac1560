package entity

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Booking is owned by the backend booking service. After creation we only read
// it; status transitions happen through the reconciliation follow-up requests.
type Booking struct {
	ID            string        `json:"id"`
	BookingCode   string        `json:"booking_code"`
	TourID        string        `json:"tour_id"`
	TravelDate    time.Time     `json:"travel_date"`
	PartyCount    int           `json:"party_count"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`
}

// BookingRequest is the creation payload sent to the backend, one per cart item.
type BookingRequest struct {
	TourID     string    `json:"tour_id"`
	TravelDate time.Time `json:"travel_date"`
	PartyCount int       `json:"party_count"`
}
