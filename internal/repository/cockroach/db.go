package cockroach

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories need. pgxmock satisfies
// it too, so repository SQL can be tested without a database.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Sentinel errors mapped by the service layer onto the API error taxonomy.
var (
	// ErrActiveCallExists means a participant already holds an active-call
	// slot; raised by the call_active_slots primary key, never by a
	// read-then-write check.
	ErrActiveCallExists = errors.New("participant already has an active call")

	ErrCallNotFound  = errors.New("call not found")
	ErrCallNotActive = errors.New("call is not active")
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique-constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
