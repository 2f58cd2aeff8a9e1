package cockroach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicebridge-backend/internal/domain"
)

func newCallRows(call *domain.CallSession) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"call_id", "caller_id", "callee_id", "caller_language", "callee_language",
		"status", "start_time", "end_time", "duration_seconds", "end_reason", "created_at",
	}).AddRow(
		call.CallID, call.CallerID, call.CalleeID, call.CallerLanguage, call.CalleeLanguage,
		call.Status, call.StartTime, call.EndTime, call.DurationSeconds, call.EndReason, call.CreatedAt,
	)
}

func TestCreateActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallRepository(mock)
	call := &domain.CallSession{
		CallID:         uuid.New(),
		CallerID:       uuid.New(),
		CalleeID:       uuid.New(),
		CallerLanguage: "en",
		CalleeLanguage: "fr",
		Status:         domain.CallStatusActive,
	}

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO calls`).
		WithArgs(call.CallID, call.CallerID, call.CalleeID, "en", "fr", domain.CallStatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"start_time", "created_at"}).AddRow(now, now))
	mock.ExpectExec(`INSERT INTO call_active_slots`).
		WithArgs(call.CallerID, call.CalleeID, call.CallID).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	err = repo.CreateActive(context.Background(), call)

	assert.NoError(t, err)
	assert.Equal(t, now, call.StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateActive_SlotTaken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallRepository(mock)
	call := &domain.CallSession{
		CallID:         uuid.New(),
		CallerID:       uuid.New(),
		CalleeID:       uuid.New(),
		CallerLanguage: "en",
		CalleeLanguage: "fr",
		Status:         domain.CallStatusActive,
	}

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO calls`).
		WithArgs(call.CallID, call.CallerID, call.CalleeID, "en", "fr", domain.CallStatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"start_time", "created_at"}).AddRow(now, now))
	mock.ExpectExec(`INSERT INTO call_active_slots`).
		WithArgs(call.CallerID, call.CalleeID, call.CallID).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "call_active_slots_pkey"})
	mock.ExpectRollback()

	err = repo.CreateActive(context.Background(), call)

	assert.ErrorIs(t, err, ErrActiveCallExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallRepository(mock)
	callID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM calls WHERE call_id`).
		WithArgs(callID).
		WillReturnError(pgx.ErrNoRows)

	call, err := repo.GetByID(context.Background(), callID)

	assert.Nil(t, call)
	assert.ErrorIs(t, err, ErrCallNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveByUser_None(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallRepository(mock)
	userID := uuid.New()

	mock.ExpectQuery(`JOIN call_active_slots`).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	call, err := repo.GetActiveByUser(context.Background(), userID)

	assert.Nil(t, call)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnd(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallRepository(mock)
	callID := uuid.New()
	now := time.Now()
	duration := 42
	ended := &domain.CallSession{
		CallID:          callID,
		CallerID:        uuid.New(),
		CalleeID:        uuid.New(),
		CallerLanguage:  "en",
		CalleeLanguage:  "fr",
		Status:          domain.CallStatusEnded,
		StartTime:       now.Add(-42 * time.Second),
		EndTime:         &now,
		DurationSeconds: &duration,
		CreatedAt:       now.Add(-42 * time.Second),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE calls`).
		WithArgs(callID, domain.CallStatusEnded, (*string)(nil)).
		WillReturnRows(newCallRows(ended))
	mock.ExpectExec(`DELETE FROM call_active_slots`).
		WithArgs(callID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	result, err := repo.End(context.Background(), callID, nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.CallStatusEnded, result.Status)
	assert.Equal(t, 42, *result.DurationSeconds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnd_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallRepository(mock)
	callID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE calls`).
		WithArgs(callID, domain.CallStatusEnded, (*string)(nil)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT status FROM calls`).
		WithArgs(callID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	result, err := repo.End(context.Background(), callID, nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrCallNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnd_AlreadyEnded(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallRepository(mock)
	callID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE calls`).
		WithArgs(callID, domain.CallStatusEnded, (*string)(nil)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT status FROM calls`).
		WithArgs(callID).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("ended"))
	mock.ExpectRollback()

	result, err := repo.End(context.Background(), callID, nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrCallNotActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserCalls(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallRepository(mock)
	userID := uuid.New()
	now := time.Now()
	call := &domain.CallSession{
		CallID:         uuid.New(),
		CallerID:       userID,
		CalleeID:       uuid.New(),
		CallerLanguage: "en",
		CalleeLanguage: "es",
		Status:         domain.CallStatusEnded,
		StartTime:      now,
		CreatedAt:      now,
	}

	mock.ExpectQuery(`SELECT count`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`ORDER BY created_at DESC`).
		WithArgs(userID, 10, 0).
		WillReturnRows(newCallRows(call))

	calls, total, err := repo.GetUserCalls(context.Background(), userID, 10, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, calls, 1)
	assert.Equal(t, call.CallID, calls[0].CallID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("plain error")))
}
