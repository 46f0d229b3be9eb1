package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Get reads row 0 of the normal table.
func (r *PGRepo) Get(ctx context.Context) (Status, error) {
	const query = `SELECT is_maintenance, message, until FROM normal WHERE id = 0`

	var (
		isMaintenance sql.NullBool
		message       sql.NullString
		until         sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query).Scan(&isMaintenance, &message, &until)
	if errors.Is(err, sql.ErrNoRows) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("query maintenance status: %w", err)
	}

	status := Status{IsMaintenance: isMaintenance.Valid && isMaintenance.Bool}
	if message.Valid {
		msg := message.String
		status.Message = &msg
	}
	if until.Valid {
		t := until.Time.UTC()
		status.Until = &t
	}
	return status, nil
}
