package translation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"voicebridge-backend/pkg/ctxutil"
	apperrors "voicebridge-backend/pkg/errors"
	"voicebridge-backend/pkg/logger"
	"voicebridge-backend/pkg/metrics"
)

const (
	cacheKeyPrefix = "translation:"
	cacheTTL       = 7 * 24 * time.Hour
)

// Store is the key-value cache capability the service needs. Any backend
// works; the cache is never authoritative, so every failure path here is
// recoverable.
type Store interface {
	// Get returns the cached value; the bool is false on a miss. A non-nil
	// error means the backend failed, which callers treat as a miss.
	Get(ctx context.Context, key string) (string, bool, error)
	// SetEx stores a value with a TTL, best effort.
	SetEx(ctx context.Context, key string, ttl time.Duration, value string) error
}

// Provider is the single-method capability of the external translation
// provider, so providers are swappable without touching cache logic.
type Provider interface {
	TranslateRemote(ctx context.Context, text, sourceCode, targetCode string) (string, error)
}

// Service is the cache-aside translation layer in front of the provider
type Service struct {
	store    Store
	provider Provider
	metrics  *metrics.Metrics
}

// NewService creates a new translation service
func NewService(store Store, provider Provider, m *metrics.Metrics) *Service {
	return &Service{
		store:    store,
		provider: provider,
		metrics:  m,
	}
}

// Translate returns text translated from sourceLang to targetLang, consulting
// the cache first and falling back to the provider on a miss. Provider
// failures surface as ServiceUnavailable; cache failures never surface at all.
func (s *Service) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if text == "" {
		s.record("invalid")
		return "", apperrors.InvalidInputError("Text to translate must not be empty")
	}

	normSrc := Normalize(sourceLang)
	normTgt := Normalize(targetLang)
	key := cacheKey(normSrc, normTgt, text)

	if cached, ok := s.lookupCache(ctx, key); ok {
		s.record("ok")
		return cached, nil
	}

	providerCtx, cancel := ctxutil.WithProviderTimeout(ctx)
	defer cancel()

	start := time.Now()
	translated, err := s.provider.TranslateRemote(providerCtx, text, normSrc, normTgt)
	if s.metrics != nil {
		s.metrics.RecordProviderLatency(time.Since(start))
	}
	if err != nil {
		logger.Error("translation provider failed",
			zap.String("source", normSrc),
			zap.String("target", normTgt),
			zap.Error(err),
		)
		s.record("unavailable")
		return "", apperrors.ServiceUnavailableError("Translation service unavailable")
	}

	s.storeCache(ctx, key, translated)
	s.record("ok")
	return translated, nil
}

// GetSupportedLanguages returns the canonical language codes
func (s *Service) GetSupportedLanguages() []string {
	return SupportedLanguages()
}

// lookupCache checks the cache, treating backend failures as misses
func (s *Service) lookupCache(ctx context.Context, key string) (string, bool) {
	if s.store == nil {
		return "", false
	}

	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		logger.Warn("translation cache read failed", zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordCacheError("get")
		}
		return "", false
	}
	if !ok {
		if s.metrics != nil {
			s.metrics.RecordCacheMiss()
		}
		return "", false
	}

	if s.metrics != nil {
		s.metrics.RecordCacheHit()
	}
	return value, true
}

// storeCache writes the result best effort; failures are logged and swallowed
func (s *Service) storeCache(ctx context.Context, key, value string) {
	if s.store == nil {
		return
	}

	if err := s.store.SetEx(ctx, key, cacheTTL, value); err != nil {
		logger.Warn("translation cache write failed", zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordCacheError("setex")
		}
	}
}

func (s *Service) record(result string) {
	if s.metrics != nil {
		s.metrics.RecordTranslation(result)
	}
}

// cacheKey builds the cache key from the normalized codes and the exact,
// un-normalized utterance: entries are specific to exact text.
func cacheKey(normSrc, normTgt, text string) string {
	return fmt.Sprintf("%s%s:%s:%s", cacheKeyPrefix, normSrc, normTgt, text)
}
