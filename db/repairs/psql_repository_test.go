package repairs

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

func newTask() entity.RepairTask {
	return entity.RepairTask{
		ID:             uuid.NewString(),
		CheckoutID:     uuid.NewString(),
		BookingID:      uuid.NewString(),
		Step:           "mark_paid",
		Reason:         "bookings service unavailable",
		ConfirmationID: uuid.NewString(),
		OccurredAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestRepairsRepository_Store_idempotency(t *testing.T) {
	ctx := context.Background()

	repo := NewPostgresRepository(dbutils.GetDb(t))

	task := newTask()

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Store(ctx, task))

		tasks, err := repo.FindUnresolved(ctx)
		require.NoError(t, err)

		count := 0
		for _, unresolved := range tasks {
			if unresolved.ID == task.ID {
				count++
			}
		}
		// redelivered events must not duplicate the task
		assert.Equal(t, 1, count)
	}
}

func TestRepairsRepository_MarkResolved(t *testing.T) {
	ctx := context.Background()

	repo := NewPostgresRepository(dbutils.GetDb(t))

	task := newTask()
	require.NoError(t, repo.Store(ctx, task))

	require.NoError(t, repo.MarkResolved(ctx, task.ID))

	tasks, err := repo.FindUnresolved(ctx)
	require.NoError(t, err)
	for _, unresolved := range tasks {
		assert.NotEqual(t, task.ID, unresolved.ID)
	}

	// resolving twice fails, the task is no longer unresolved
	require.Error(t, repo.MarkResolved(ctx, task.ID))
}

func TestRepairsRepository_MarkResolved_unknownTask(t *testing.T) {
	ctx := context.Background()

	repo := NewPostgresRepository(dbutils.GetDb(t))

	require.Error(t, repo.MarkResolved(ctx, uuid.NewString()))
}
