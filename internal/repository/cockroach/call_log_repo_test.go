package cockroach

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicebridge-backend/internal/domain"
)

func TestCreateLog(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallLogRepository(mock)
	entry := &domain.CallLogEntry{
		LogID:          uuid.New(),
		CallID:         uuid.New(),
		SpeakerID:      uuid.New(),
		OriginalText:   "Hello",
		TranslatedText: "Bonjour",
		SourceLanguage: "en",
		TargetLanguage: "fr",
	}

	// The server assigns the receive time via RETURNING
	receivedAt := time.Now()
	mock.ExpectQuery(`INSERT INTO call_logs[\s\S]+RETURNING timestamp`).
		WithArgs(entry.LogID, entry.CallID, entry.SpeakerID,
			"Hello", "Bonjour", "en", "fr").
		WillReturnRows(pgxmock.NewRows([]string{"timestamp"}).AddRow(receivedAt))

	err = repo.Create(context.Background(), entry)

	assert.NoError(t, err)
	assert.Equal(t, receivedAt, entry.Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLog_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallLogRepository(mock)
	entry := &domain.CallLogEntry{
		LogID:     uuid.New(),
		CallID:    uuid.New(),
		SpeakerID: uuid.New(),
	}

	mock.ExpectQuery(`INSERT INTO call_logs`).
		WithArgs(entry.LogID, entry.CallID, entry.SpeakerID, "", "", "", "").
		WillReturnError(pgx.ErrTxClosed)

	err = repo.Create(context.Background(), entry)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCall(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallLogRepository(mock)
	callID := uuid.New()
	callerID := uuid.New()
	calleeID := uuid.New()
	base := time.Now()

	// Rows come back oldest first; the query matcher pins the ordering clause
	rows := pgxmock.NewRows([]string{
		"log_id", "call_id", "speaker_id", "original_text", "translated_text",
		"source_language", "target_language", "timestamp",
	}).
		AddRow(uuid.New(), callID, callerID, "Hello", "Bonjour", "en", "fr", base).
		AddRow(uuid.New(), callID, calleeID, "Bonjour", "Hello", "fr", "en", base.Add(time.Second)).
		AddRow(uuid.New(), callID, callerID, "How are you", "Comment vas-tu", "en", "fr", base.Add(2*time.Second))

	mock.ExpectQuery(`FROM call_logs\s+WHERE call_id = \$1\s+ORDER BY timestamp ASC`).
		WithArgs(callID).
		WillReturnRows(rows)

	entries, err := repo.ListByCall(context.Background(), callID)

	assert.NoError(t, err)
	require.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.Before(entries[i-1].Timestamp))
	}
	assert.Equal(t, "Hello", entries[0].OriginalText)
	assert.Equal(t, calleeID, entries[1].SpeakerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCall_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewCallLogRepository(mock)
	callID := uuid.New()

	mock.ExpectQuery(`ORDER BY timestamp ASC`).
		WithArgs(callID).
		WillReturnRows(pgxmock.NewRows([]string{
			"log_id", "call_id", "speaker_id", "original_text", "translated_text",
			"source_language", "target_language", "timestamp",
		}))

	entries, err := repo.ListByCall(context.Background(), callID)

	assert.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
