package repairs

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tours/entity"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Store is idempotent on the task ID, so redelivered events do not create
// duplicate repair tasks.
func (r *PostgresRepository) Store(ctx context.Context, task entity.RepairTask) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO reconciliation_repairs (id, checkout_id, booking_id, step, reason, confirmation_id, occurred_at)
		VALUES (:id, :checkout_id, :booking_id, :step, :reason, :confirmation_id, :occurred_at)
		ON CONFLICT (id) DO NOTHING
	`, task)
	return err
}

func (r *PostgresRepository) FindUnresolved(ctx context.Context) ([]entity.RepairTask, error) {
	var tasks []entity.RepairTask
	err := r.db.SelectContext(ctx, &tasks, `
		SELECT id, checkout_id, booking_id, step, reason, confirmation_id, occurred_at, resolved_at
		FROM reconciliation_repairs
		WHERE resolved_at IS NULL
		ORDER BY occurred_at
	`)
	return tasks, err
}

func (r *PostgresRepository) MarkResolved(ctx context.Context, taskID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reconciliation_repairs
		SET resolved_at = NOW()
		WHERE id = $1 AND resolved_at IS NULL
	`, taskID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("unresolved repair task with ID %s not found", taskID)
	}

	return nil
}
