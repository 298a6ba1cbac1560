package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
	CREATE TABLE IF NOT EXISTS read_model_ops_checkouts (
		checkout_id TEXT PRIMARY KEY,
		payload JSONB NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reconciliation_repairs (
		id TEXT PRIMARY KEY,
		checkout_id TEXT NOT NULL,
		booking_id TEXT NOT NULL,
		step TEXT NOT NULL,
		reason TEXT NOT NULL,
		confirmation_id TEXT NOT NULL,
		occurred_at TIMESTAMP NOT NULL,
		resolved_at TIMESTAMP NULL
	);
`

func InitializeDatabaseSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}

	return nil
}
