package cockroach

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"voicebridge-backend/internal/domain"
)

// CallRepository handles call session data operations
type CallRepository struct {
	db DB
}

// NewCallRepository creates a new call repository
func NewCallRepository(db DB) *CallRepository {
	return &CallRepository{db: db}
}

const callColumns = `call_id, caller_id, callee_id, caller_language, callee_language,
		       status, start_time, end_time, duration_seconds, end_reason, created_at`

// CreateActive inserts a new active call and claims the active-call slot of
// both participants in one transaction. The slot table's primary key turns the
// "at most one active call per user" invariant into a storage-level
// constraint: a concurrent initiation naming either participant loses with
// ErrActiveCallExists instead of silently double-booking.
func (r *CallRepository) CreateActive(ctx context.Context, call *domain.CallSession) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO calls (
			call_id, caller_id, callee_id, caller_language, callee_language, status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING start_time, created_at
	`

	err = tx.QueryRow(ctx, query,
		call.CallID,
		call.CallerID,
		call.CalleeID,
		call.CallerLanguage,
		call.CalleeLanguage,
		call.Status,
	).Scan(&call.StartTime, &call.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create call: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO call_active_slots (user_id, call_id)
		VALUES ($1, $3), ($2, $3)
	`, call.CallerID, call.CalleeID, call.CallID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrActiveCallExists
		}
		return fmt.Errorf("failed to claim active slots: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrActiveCallExists
		}
		return fmt.Errorf("failed to commit call creation: %w", err)
	}

	return nil
}

// GetByID retrieves a call by ID
func (r *CallRepository) GetByID(ctx context.Context, callID uuid.UUID) (*domain.CallSession, error) {
	query := `SELECT ` + callColumns + ` FROM calls WHERE call_id = $1`

	call, err := scanCall(r.db.QueryRow(ctx, query, callID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCallNotFound
		}
		return nil, fmt.Errorf("failed to get call: %w", err)
	}

	return call, nil
}

// GetActiveByUser retrieves the active call naming userID as either party.
// Returns (nil, nil) when the user holds no active-call slot.
func (r *CallRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.CallSession, error) {
	query := `
		SELECT c.call_id, c.caller_id, c.callee_id, c.caller_language, c.callee_language,
		       c.status, c.start_time, c.end_time, c.duration_seconds, c.end_reason, c.created_at
		FROM calls c
		JOIN call_active_slots s ON s.call_id = c.call_id
		WHERE s.user_id = $1
	`

	call, err := scanCall(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active call: %w", err)
	}

	return call, nil
}

// End transitions an active call to ended, computes its duration and frees
// both participants' slots. The status guard in the UPDATE makes the
// transition one-way: a second end sees zero rows and gets ErrCallNotActive.
func (r *CallRepository) End(ctx context.Context, callID uuid.UUID, reason *string) (*domain.CallSession, error) {
	return r.finish(ctx, callID, domain.CallStatusEnded, reason)
}

// MarkMissed transitions an active call to missed and frees the slots. Driven
// by the no-answer timeout collaborator, not by the HTTP surface.
func (r *CallRepository) MarkMissed(ctx context.Context, callID uuid.UUID) (*domain.CallSession, error) {
	return r.finish(ctx, callID, domain.CallStatusMissed, nil)
}

func (r *CallRepository) finish(ctx context.Context, callID uuid.UUID, status domain.CallStatus, reason *string) (*domain.CallSession, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE calls
		SET status = $2,
		    end_time = now(),
		    duration_seconds = EXTRACT(EPOCH FROM (now() - start_time))::INT,
		    end_reason = $3
		WHERE call_id = $1 AND status = 'active'
		RETURNING ` + callColumns

	call, err := scanCall(tx.QueryRow(ctx, query, callID, status, reason))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Distinguish a missing call from one already in a terminal state
			var current string
			lookupErr := tx.QueryRow(ctx, `SELECT status FROM calls WHERE call_id = $1`, callID).Scan(&current)
			if lookupErr == pgx.ErrNoRows {
				return nil, ErrCallNotFound
			}
			if lookupErr != nil {
				return nil, fmt.Errorf("failed to check call status: %w", lookupErr)
			}
			return nil, ErrCallNotActive
		}
		return nil, fmt.Errorf("failed to end call: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM call_active_slots WHERE call_id = $1`, callID); err != nil {
		return nil, fmt.Errorf("failed to release active slots: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit call end: %w", err)
	}

	return call, nil
}

// GetUserCalls retrieves a page of a user's calls, newest first, with the
// total count for pagination
func (r *CallRepository) GetUserCalls(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.CallSession, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM calls
		WHERE caller_id = $1 OR callee_id = $1
	`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count user calls: %w", err)
	}

	query := `
		SELECT ` + callColumns + `
		FROM calls
		WHERE caller_id = $1 OR callee_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get user calls: %w", err)
	}
	defer rows.Close()

	var calls []*domain.CallSession
	for rows.Next() {
		call, err := scanCall(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan call: %w", err)
		}
		calls = append(calls, call)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read user calls: %w", err)
	}

	return calls, total, nil
}

// scanCall scans one calls row in callColumns order
func scanCall(row pgx.Row) (*domain.CallSession, error) {
	call := &domain.CallSession{}
	err := row.Scan(
		&call.CallID,
		&call.CallerID,
		&call.CalleeID,
		&call.CallerLanguage,
		&call.CalleeLanguage,
		&call.Status,
		&call.StartTime,
		&call.EndTime,
		&call.DurationSeconds,
		&call.EndReason,
		&call.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return call, nil
}
