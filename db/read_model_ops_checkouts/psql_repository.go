package read_model_ops_checkouts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tours/entity"
)

// OpsCheckoutReadModel keeps the back-office view of finished checkouts.
// The whole read model is stored as a JSON payload, keyed by checkout ID.
type OpsCheckoutReadModel struct {
	db *sqlx.DB
}

func NewOpsCheckoutReadModel(db *sqlx.DB) OpsCheckoutReadModel {
	if db == nil {
		panic("db is nil")
	}

	return OpsCheckoutReadModel{db: db}
}

func (r OpsCheckoutReadModel) AllCheckouts(ctx context.Context, statusFilter string) ([]entity.OpsCheckout, error) {
	query := "SELECT payload FROM read_model_ops_checkouts"
	var queryArgs []any

	if statusFilter != "" {
		query += " WHERE payload->>'status' = $1"
		queryArgs = append(queryArgs, statusFilter)
	}

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []entity.OpsCheckout
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		var checkout entity.OpsCheckout
		if err := json.Unmarshal(payload, &checkout); err != nil {
			return nil, err
		}

		result = append(result, checkout)
	}

	return result, rows.Err()
}

func (r OpsCheckoutReadModel) CheckoutReadModel(ctx context.Context, checkoutID string) (entity.OpsCheckout, error) {
	var payload []byte

	err := r.db.QueryRowContext(
		ctx,
		"SELECT payload FROM read_model_ops_checkouts WHERE checkout_id = $1",
		checkoutID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.OpsCheckout{}, entity.ErrNotFound
	} else if err != nil {
		return entity.OpsCheckout{}, err
	}

	var checkout entity.OpsCheckout
	if err := json.Unmarshal(payload, &checkout); err != nil {
		return entity.OpsCheckout{}, err
	}

	return checkout, nil
}

func (r OpsCheckoutReadModel) OnCheckoutCompleted(ctx context.Context, event *entity.CheckoutCompleted) error {
	return r.upsertReadModel(ctx, entity.OpsCheckout{
		CheckoutID:       event.CheckoutID,
		SessionID:        event.SessionID,
		Status:           entity.OpsCheckoutStatusCompleted,
		PrimaryBookingID: event.PrimaryBookingID,
		BookingIDs:       event.BookingIDs,
		FailedTourIDs:    event.FailedTourIDs,
		AmountPaid:       event.AmountPaid,
		PaymentMethod:    event.PaymentMethod,
		ConfirmationID:   event.ConfirmationID,
		CompletedAt:      event.Header.PublishedAt,
	})
}

func (r OpsCheckoutReadModel) OnCheckoutReservationPending(ctx context.Context, event *entity.CheckoutReservationPending) error {
	return r.upsertReadModel(ctx, entity.OpsCheckout{
		CheckoutID:     event.CheckoutID,
		SessionID:      event.SessionID,
		Status:         entity.OpsCheckoutStatusReservationPending,
		FailedTourIDs:  event.FailedTourIDs,
		AmountPaid:     event.AmountPaid,
		PaymentMethod:  event.PaymentMethod,
		ConfirmationID: event.ConfirmationID,
		CompletedAt:    event.Header.PublishedAt,
	})
}

func (r OpsCheckoutReadModel) upsertReadModel(ctx context.Context, rm entity.OpsCheckout) error {
	rm.LastUpdate = time.Now()

	payload, err := json.Marshal(rm)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO
			read_model_ops_checkouts (payload, checkout_id)
		VALUES
			($1, $2)
		ON CONFLICT (checkout_id) DO UPDATE SET payload = excluded.payload;
		`, payload, rm.CheckoutID)
	if err != nil {
		return fmt.Errorf("could not update read model: %w", err)
	}

	return nil
}
