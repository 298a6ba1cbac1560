package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"

	"tours/entity"
)

type BookingsMock struct {
	lock sync.Mutex

	Bookings map[string]entity.Booking

	// FailCreateFor fails booking creation for the given tour IDs.
	FailCreateFor  map[string]error
	FailMarkPaid   error
	FailConfirm    error
	Receipts       map[string][]byte
	CreateCalls    int
	MarkPaidCalls  int
	ConfirmedCalls int
}

func (m *BookingsMock) Create(ctx context.Context, request entity.BookingRequest) (entity.Booking, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.CreateCalls++
	if err, ok := m.FailCreateFor[request.TourID]; ok {
		return entity.Booking{}, err
	}
	if m.Bookings == nil {
		m.Bookings = map[string]entity.Booking{}
	}

	booking := entity.Booking{
		ID:            uuid.NewString(),
		BookingCode:   shortuuid.New(),
		TourID:        request.TourID,
		TravelDate:    request.TravelDate,
		PartyCount:    request.PartyCount,
		Status:        entity.BookingStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
	}
	m.Bookings[booking.ID] = booking

	return booking, nil
}

func (m *BookingsMock) MarkPaid(
	ctx context.Context,
	bookingID string,
	paymentMethod string,
	confirmationID string,
) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.MarkPaidCalls++
	if m.FailMarkPaid != nil {
		return m.FailMarkPaid
	}

	booking, ok := m.Bookings[bookingID]
	if !ok {
		return entity.ErrNotFound
	}

	booking.PaymentStatus = entity.PaymentStatusPaid
	booking.PaymentMethod = paymentMethod
	m.Bookings[bookingID] = booking

	return nil
}

func (m *BookingsMock) UpdateStatus(ctx context.Context, bookingID string, status entity.BookingStatus) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.ConfirmedCalls++
	if m.FailConfirm != nil {
		return m.FailConfirm
	}

	booking, ok := m.Bookings[bookingID]
	if !ok {
		return entity.ErrNotFound
	}

	booking.Status = status
	m.Bookings[bookingID] = booking

	return nil
}

func (m *BookingsMock) Get(ctx context.Context, bookingID string) (entity.Booking, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	booking, ok := m.Bookings[bookingID]
	if !ok {
		return entity.Booking{}, entity.ErrNotFound
	}

	return booking, nil
}

func (m *BookingsMock) DownloadReceipt(ctx context.Context, bookingID string) ([]byte, string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	document, ok := m.Receipts[bookingID]
	if !ok {
		return nil, "", entity.ErrNotFound
	}

	return document, "application/pdf", nil
}
