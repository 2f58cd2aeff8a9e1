package domain

import (
	"time"

	"github.com/google/uuid"
)

// CallStatus represents the lifecycle state of a call session
type CallStatus string

const (
	CallStatusActive CallStatus = "active"
	CallStatusEnded  CallStatus = "ended"
	CallStatusMissed CallStatus = "missed"
)

// IsTerminal reports whether the status admits no further transitions
func (s CallStatus) IsTerminal() bool {
	return s == CallStatusEnded || s == CallStatusMissed
}

// CallSession represents a translated voice call between two users
// Maps to CockroachDB calls table
type CallSession struct {
	CallID          uuid.UUID  `json:"call_id" db:"call_id"`
	CallerID        uuid.UUID  `json:"caller_id" db:"caller_id"`
	CalleeID        uuid.UUID  `json:"callee_id" db:"callee_id"`
	CallerLanguage  string     `json:"caller_language" db:"caller_language"`
	CalleeLanguage  string     `json:"callee_language" db:"callee_language"`
	Status          CallStatus `json:"status" db:"status"`
	StartTime       time.Time  `json:"start_time" db:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty" db:"end_time"`
	DurationSeconds *int       `json:"duration_seconds,omitempty" db:"duration_seconds"`
	EndReason       *string    `json:"end_reason,omitempty" db:"end_reason"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// HasParticipant reports whether userID is the caller or the callee
func (c *CallSession) HasParticipant(userID uuid.UUID) bool {
	return c.CallerID == userID || c.CalleeID == userID
}

// CallLogEntry represents one translated utterance within a call.
// Entries are immutable after creation and owned by their call session
// (removed with it via ON DELETE CASCADE).
type CallLogEntry struct {
	LogID          uuid.UUID `json:"log_id" db:"log_id"`
	CallID         uuid.UUID `json:"call_id" db:"call_id"`
	SpeakerID      uuid.UUID `json:"speaker_id" db:"speaker_id"`
	OriginalText   string    `json:"original_text" db:"original_text"`
	TranslatedText string    `json:"translated_text" db:"translated_text"`
	SourceLanguage string    `json:"source_language" db:"source_language"`
	TargetLanguage string    `json:"target_language" db:"target_language"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
}

// CallHistoryPage is a page of a user's call history
type CallHistoryPage struct {
	Calls      []*CallSession `json:"calls"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}
