package read_model_ops_checkouts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbutils "tours/db"
	"tours/entity"
)

func TestOpsCheckoutReadModel_storeAndFind(t *testing.T) {
	ctx := context.Background()

	repo := NewOpsCheckoutReadModel(dbutils.GetDb(t))

	completed := &entity.CheckoutCompleted{
		Header:           entity.NewEventHeader(),
		CheckoutID:       uuid.NewString(),
		SessionID:        uuid.NewString(),
		PrimaryBookingID: uuid.NewString(),
		BookingIDs:       []string{uuid.NewString(), uuid.NewString()},
		AmountPaid:       entity.MustNewMoney("1203.60", "USD"),
		PaymentMethod:    "card",
		ConfirmationID:   uuid.NewString(),
	}

	// storing is idempotent on the checkout ID
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.OnCheckoutCompleted(ctx, completed))
	}

	checkout, err := repo.CheckoutReadModel(ctx, completed.CheckoutID)
	require.NoError(t, err)
	assert.Equal(t, entity.OpsCheckoutStatusCompleted, checkout.Status)
	assert.Equal(t, completed.PrimaryBookingID, checkout.PrimaryBookingID)
	assert.Equal(t, completed.BookingIDs, checkout.BookingIDs)
	assert.Equal(t, "1203.60 USD", checkout.AmountPaid.String())
}

func TestOpsCheckoutReadModel_statusFilter(t *testing.T) {
	ctx := context.Background()

	repo := NewOpsCheckoutReadModel(dbutils.GetDb(t))

	pending := &entity.CheckoutReservationPending{
		Header:         entity.NewEventHeader(),
		CheckoutID:     uuid.NewString(),
		SessionID:      uuid.NewString(),
		FailedTourIDs:  []string{"tour-machu"},
		AmountPaid:     entity.MustNewMoney("450.00", "USD"),
		PaymentMethod:  "card",
		ConfirmationID: uuid.NewString(),
	}
	require.NoError(t, repo.OnCheckoutReservationPending(ctx, pending))

	checkouts, err := repo.AllCheckouts(ctx, entity.OpsCheckoutStatusReservationPending)
	require.NoError(t, err)

	found := false
	for _, checkout := range checkouts {
		assert.Equal(t, entity.OpsCheckoutStatusReservationPending, checkout.Status)
		if checkout.CheckoutID == pending.CheckoutID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestOpsCheckoutReadModel_notFound(t *testing.T) {
	ctx := context.Background()

	repo := NewOpsCheckoutReadModel(dbutils.GetDb(t))

	_, err := repo.CheckoutReadModel(ctx, uuid.NewString())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestOpsCheckoutReadModel_lastUpdateAdvances(t *testing.T) {
	ctx := context.Background()

	repo := NewOpsCheckoutReadModel(dbutils.GetDb(t))

	event := &entity.CheckoutCompleted{
		Header:         entity.NewEventHeader(),
		CheckoutID:     uuid.NewString(),
		SessionID:      uuid.NewString(),
		BookingIDs:     []string{uuid.NewString()},
		AmountPaid:     entity.MustNewMoney("100.00", "USD"),
		PaymentMethod:  "card",
		ConfirmationID: uuid.NewString(),
	}
	require.NoError(t, repo.OnCheckoutCompleted(ctx, event))

	checkout, err := repo.CheckoutReadModel(ctx, event.CheckoutID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), checkout.LastUpdate, time.Minute)
}
