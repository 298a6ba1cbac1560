package checkout_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tours/checkout"
	"tours/entity"
)

func TestSimulatedProvider_captureAfterDelay(t *testing.T) {
	provider := checkout.NewSimulatedProvider("bank_transfer", 10*time.Millisecond)

	intent, err := provider.CreateIntent(context.Background(), entity.MustNewMoney("100.00", "USD"))
	require.NoError(t, err)
	assert.Equal(t, "bank_transfer", intent.Method)

	confirmation, err := provider.Capture(context.Background(), intent)
	require.NoError(t, err)
	assert.NotEmpty(t, confirmation.ConfirmationID)
	assert.Equal(t, intent.Amount, confirmation.Amount)
}

func TestSimulatedProvider_captureRespectsContext(t *testing.T) {
	provider := checkout.NewSimulatedProvider("bank_transfer", time.Minute)

	intent, err := provider.CreateIntent(context.Background(), entity.MustNewMoney("100.00", "USD"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = provider.Capture(ctx, intent)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
