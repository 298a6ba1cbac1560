package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"tours/entity"
)

type BookingsClient struct {
	addr   string
	client *http.Client
}

func NewBookingsClient(addr string, client *http.Client) BookingsClient {
	if addr == "" {
		panic("missing booking service addr")
	}
	if client == nil {
		panic("missing http client")
	}

	return BookingsClient{addr: addr, client: client}
}

type updateBookingPaymentRequest struct {
	PaymentStatus  entity.PaymentStatus `json:"payment_status"`
	PaymentMethod  string               `json:"payment_method"`
	ConfirmationID string               `json:"confirmation_id"`
}

type updateBookingStatusRequest struct {
	Status entity.BookingStatus `json:"status"`
}

func (c BookingsClient) Create(ctx context.Context, request entity.BookingRequest) (entity.Booking, error) {
	var booking entity.Booking
	status, err := doJSON(ctx, c.client, http.MethodPost, c.addr+"/bookings", "", request, &booking)
	if err != nil {
		return entity.Booking{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return entity.Booking{}, fmt.Errorf("unexpected status code for POST /bookings: %d", status)
	}

	return booking, nil
}

func (c BookingsClient) MarkPaid(
	ctx context.Context,
	bookingID string,
	paymentMethod string,
	confirmationID string,
) error {
	request := updateBookingPaymentRequest{
		PaymentStatus:  entity.PaymentStatusPaid,
		PaymentMethod:  paymentMethod,
		ConfirmationID: confirmationID,
	}

	status, err := doJSON(
		ctx,
		c.client,
		http.MethodPut,
		c.addr+"/bookings/"+bookingID+"/payment",
		"",
		request,
		nil,
	)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("unexpected status code for PUT /bookings/%s/payment: %d", bookingID, status)
	}

	return nil
}

func (c BookingsClient) UpdateStatus(ctx context.Context, bookingID string, bookingStatus entity.BookingStatus) error {
	status, err := doJSON(
		ctx,
		c.client,
		http.MethodPut,
		c.addr+"/bookings/"+bookingID+"/status",
		"",
		updateBookingStatusRequest{Status: bookingStatus},
		nil,
	)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("unexpected status code for PUT /bookings/%s/status: %d", bookingID, status)
	}

	return nil
}

func (c BookingsClient) Get(ctx context.Context, bookingID string) (entity.Booking, error) {
	var booking entity.Booking
	status, err := doJSON(ctx, c.client, http.MethodGet, c.addr+"/bookings/"+bookingID, "", nil, &booking)
	if err != nil {
		return entity.Booking{}, err
	}
	if status == http.StatusNotFound {
		return entity.Booking{}, entity.ErrNotFound
	}
	if status != http.StatusOK {
		return entity.Booking{}, fmt.Errorf("unexpected status code for GET /bookings/%s: %d", bookingID, status)
	}

	return booking, nil
}

// DownloadReceipt streams the receipt document for a booking. The document is
// opaque to us; content type comes from the backend.
func (c BookingsClient) DownloadReceipt(ctx context.Context, bookingID string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.addr+"/bookings/"+bookingID+"/receipt", nil)
	if err != nil {
		return nil, "", fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", entity.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code for GET /bookings/%s/receipt: %d", bookingID, resp.StatusCode)
	}

	document, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("could not read receipt document: %w", err)
	}

	return document, resp.Header.Get("Content-Type"), nil
}
