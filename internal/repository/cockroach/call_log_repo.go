package cockroach

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"voicebridge-backend/internal/domain"
)

// CallLogRepository handles the per-call utterance log. Entries are append
// only; rows are removed solely through the calls cascade.
type CallLogRepository struct {
	db DB
}

// NewCallLogRepository creates a new call log repository
func NewCallLogRepository(db DB) *CallLogRepository {
	return &CallLogRepository{db: db}
}

// Create appends a log entry. The server assigns the timestamp so entries
// order by receive time regardless of which speaker produced them.
func (r *CallLogRepository) Create(ctx context.Context, entry *domain.CallLogEntry) error {
	query := `
		INSERT INTO call_logs (
			log_id, call_id, speaker_id, original_text, translated_text,
			source_language, target_language
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING timestamp
	`

	err := r.db.QueryRow(ctx, query,
		entry.LogID,
		entry.CallID,
		entry.SpeakerID,
		entry.OriginalText,
		entry.TranslatedText,
		entry.SourceLanguage,
		entry.TargetLanguage,
	).Scan(&entry.Timestamp)

	if err != nil {
		return fmt.Errorf("failed to create call log: %w", err)
	}

	return nil
}

// ListByCall retrieves all entries for a call ascending by timestamp
func (r *CallLogRepository) ListByCall(ctx context.Context, callID uuid.UUID) ([]*domain.CallLogEntry, error) {
	query := `
		SELECT log_id, call_id, speaker_id, original_text, translated_text,
		       source_language, target_language, timestamp
		FROM call_logs
		WHERE call_id = $1
		ORDER BY timestamp ASC
	`

	rows, err := r.db.Query(ctx, query, callID)
	if err != nil {
		return nil, fmt.Errorf("failed to get call logs: %w", err)
	}
	defer rows.Close()

	var entries []*domain.CallLogEntry
	for rows.Next() {
		entry := &domain.CallLogEntry{}
		err := rows.Scan(
			&entry.LogID,
			&entry.CallID,
			&entry.SpeakerID,
			&entry.OriginalText,
			&entry.TranslatedText,
			&entry.SourceLanguage,
			&entry.TargetLanguage,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan call log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read call logs: %w", err)
	}

	return entries, nil
}
