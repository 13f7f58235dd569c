package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/TIHeitorDS/SASBApp/internal/store"
)

const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"

	constraintNoOverlap     = "appointments_no_overlap"
	constraintAppointmentPK = "appointments_pkey"
)

// translateError maps driver errors onto store sentinels. Unknown errors pass
// through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == codeExclusionViolation && pgErr.ConstraintName == constraintNoOverlap:
		return store.ErrConflict
	case pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintAppointmentPK:
		return store.ErrIdempotencyConflict
	}
	return err
}
