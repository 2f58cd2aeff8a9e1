package call

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voicebridge-backend/internal/domain"
	"voicebridge-backend/internal/repository/cockroach"
	apperrors "voicebridge-backend/pkg/errors"
	"voicebridge-backend/pkg/logger"
	"voicebridge-backend/pkg/metrics"
	"voicebridge-backend/pkg/pagination"
)

// CallRepository interface
type CallRepository interface {
	CreateActive(ctx context.Context, call *domain.CallSession) error
	GetByID(ctx context.Context, callID uuid.UUID) (*domain.CallSession, error)
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*domain.CallSession, error)
	End(ctx context.Context, callID uuid.UUID, reason *string) (*domain.CallSession, error)
	MarkMissed(ctx context.Context, callID uuid.UUID) (*domain.CallSession, error)
	GetUserCalls(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.CallSession, int64, error)
}

// CallLogRepository interface
type CallLogRepository interface {
	Create(ctx context.Context, entry *domain.CallLogEntry) error
	ListByCall(ctx context.Context, callID uuid.UUID) ([]*domain.CallLogEntry, error)
}

// UserDirectory resolves user ids to profiles. Owned by the external user
// service; the registry only reads identity and preferred language from it.
type UserDirectory interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// Service owns the call state machine and the single-active-call invariant
type Service struct {
	callRepo CallRepository
	logRepo  CallLogRepository
	users    UserDirectory
	metrics  *metrics.Metrics
}

// NewService creates a new call service
func NewService(callRepo CallRepository, logRepo CallLogRepository, users UserDirectory, m *metrics.Metrics) *Service {
	return &Service{
		callRepo: callRepo,
		logRepo:  logRepo,
		users:    users,
		metrics:  m,
	}
}

// InitiateCall validates both participants and atomically claims an active
// slot for each. The claim itself happens in the repository transaction; this
// method never pre-checks "is the user busy" with a separate read, since a
// concurrent initiation could slip between that read and the insert.
func (s *Service) InitiateCall(ctx context.Context, callerID, calleeID uuid.UUID, callerLanguage string) (*domain.CallSession, error) {
	if callerID == calleeID {
		return nil, apperrors.InvalidInputError("You cannot call yourself")
	}

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if caller == nil {
		return nil, apperrors.UserNotFoundError()
	}

	callee, err := s.users.GetByID(ctx, calleeID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if callee == nil {
		return nil, apperrors.UserNotFoundError()
	}

	// Explicit argument wins, else the caller's stored preference
	language := callerLanguage
	if language == "" {
		language = caller.PreferredLanguage
	}

	call := &domain.CallSession{
		CallID:         uuid.New(),
		CallerID:       callerID,
		CalleeID:       calleeID,
		CallerLanguage: language,
		CalleeLanguage: callee.PreferredLanguage,
		Status:         domain.CallStatusActive,
	}

	if err := s.callRepo.CreateActive(ctx, call); err != nil {
		if errors.Is(err, cockroach.ErrActiveCallExists) {
			return nil, apperrors.UserBusyError()
		}
		return nil, apperrors.DatabaseError(err)
	}

	if s.metrics != nil {
		s.metrics.RecordCallStarted()
	}
	logger.Info("call initiated",
		zap.String("call_id", call.CallID.String()),
		zap.String("caller_id", callerID.String()),
		zap.String("callee_id", calleeID.String()),
	)

	return call, nil
}

// EndCall transitions an active call to ended. Only a participant may end it;
// the ACTIVE guard lives in the repository UPDATE, so applying the transition
// twice fails the second time no matter how the two requests interleave.
func (s *Service) EndCall(ctx context.Context, callID, requesterID uuid.UUID, reason string) (*domain.CallSession, error) {
	call, err := s.callRepo.GetByID(ctx, callID)
	if err != nil {
		if errors.Is(err, cockroach.ErrCallNotFound) {
			return nil, apperrors.CallNotFoundError()
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !call.HasParticipant(requesterID) {
		return nil, apperrors.ForbiddenError("You are not part of this call")
	}

	// Fast path; the authoritative guard is the repository UPDATE, which
	// catches a concurrent end that lands between this read and the write
	if call.Status.IsTerminal() {
		return nil, apperrors.CallNotActiveError()
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	ended, err := s.callRepo.End(ctx, callID, reasonPtr)
	if err != nil {
		switch {
		case errors.Is(err, cockroach.ErrCallNotFound):
			return nil, apperrors.CallNotFoundError()
		case errors.Is(err, cockroach.ErrCallNotActive):
			return nil, apperrors.CallNotActiveError()
		default:
			return nil, apperrors.DatabaseError(err)
		}
	}

	if s.metrics != nil {
		var duration time.Duration
		if ended.DurationSeconds != nil {
			duration = time.Duration(*ended.DurationSeconds) * time.Second
		}
		s.metrics.RecordCallFinished(string(domain.CallStatusEnded), duration)
	}
	logger.Info("call ended",
		zap.String("call_id", callID.String()),
		zap.String("requester_id", requesterID.String()),
	)

	return ended, nil
}

// MarkMissed is the hook for the no-answer timeout collaborator: it moves an
// active call to the missed terminal state and frees both slots.
func (s *Service) MarkMissed(ctx context.Context, callID uuid.UUID) (*domain.CallSession, error) {
	missed, err := s.callRepo.MarkMissed(ctx, callID)
	if err != nil {
		switch {
		case errors.Is(err, cockroach.ErrCallNotFound):
			return nil, apperrors.CallNotFoundError()
		case errors.Is(err, cockroach.ErrCallNotActive):
			return nil, apperrors.CallNotActiveError()
		default:
			return nil, apperrors.DatabaseError(err)
		}
	}

	if s.metrics != nil {
		s.metrics.RecordCallFinished(string(domain.CallStatusMissed), 0)
	}

	return missed, nil
}

// GetActiveCall returns the active call naming userID as either party, or nil
func (s *Service) GetActiveCall(ctx context.Context, userID uuid.UUID) (*domain.CallSession, error) {
	call, err := s.callRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return call, nil
}

// GetCallByID returns a call only to its participants
func (s *Service) GetCallByID(ctx context.Context, callID, requesterID uuid.UUID) (*domain.CallSession, error) {
	call, err := s.callRepo.GetByID(ctx, callID)
	if err != nil {
		if errors.Is(err, cockroach.ErrCallNotFound) {
			return nil, apperrors.CallNotFoundError()
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !call.HasParticipant(requesterID) {
		return nil, apperrors.ForbiddenError("You are not part of this call")
	}

	return call, nil
}

// GetCallHistory returns a page of the user's calls, newest first
func (s *Service) GetCallHistory(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.CallHistoryPage, error) {
	if page < 1 {
		page = pagination.DefaultPage
	}
	if limit < pagination.MinLimit {
		limit = pagination.DefaultLimit
	}
	if limit > pagination.MaxLimit {
		limit = pagination.MaxLimit
	}

	offset := (page - 1) * limit
	calls, total, err := s.callRepo.GetUserCalls(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if calls == nil {
		calls = []*domain.CallSession{}
	}

	return &domain.CallHistoryPage{
		Calls:      calls,
		Total:      total,
		Page:       page,
		TotalPages: pagination.TotalPages(total, limit),
	}, nil
}

// AppendLog records one translated utterance for a call. The speaker must be
// a participant; the entry is immutable once written.
func (s *Service) AppendLog(ctx context.Context, callID, speakerID uuid.UUID, originalText, translatedText, sourceLang, targetLang string) (*domain.CallLogEntry, error) {
	call, err := s.callRepo.GetByID(ctx, callID)
	if err != nil {
		if errors.Is(err, cockroach.ErrCallNotFound) {
			return nil, apperrors.CallNotFoundError()
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !call.HasParticipant(speakerID) {
		return nil, apperrors.ForbiddenError("You are not part of this call")
	}

	entry := &domain.CallLogEntry{
		LogID:          uuid.New(),
		CallID:         callID,
		SpeakerID:      speakerID,
		OriginalText:   originalText,
		TranslatedText: translatedText,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	return entry, nil
}

// ListLogs returns a call's log entries ascending by timestamp, after the
// same participant check as GetCallByID
func (s *Service) ListLogs(ctx context.Context, callID, requesterID uuid.UUID) ([]*domain.CallLogEntry, error) {
	if _, err := s.GetCallByID(ctx, callID, requesterID); err != nil {
		return nil, err
	}

	entries, err := s.logRepo.ListByCall(ctx, callID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if entries == nil {
		entries = []*domain.CallLogEntry{}
	}

	return entries, nil
}
