package ctxutil

import (
	"context"
	"time"
)

// Default timeouts for different operations
const (
	// CacheTimeout is for cache lookups and writes, which must never
	// hold up the request critical path
	CacheTimeout = 2 * time.Second

	// DBTimeout is for database queries
	DBTimeout = 10 * time.Second

	// ProviderTimeout bounds calls to the external translation provider
	ProviderTimeout = 5 * time.Second
)

// WithCacheTimeout creates a context with the cache timeout
func WithCacheTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, CacheTimeout)
}

// WithDBTimeout creates a context with the database timeout
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, DBTimeout)
}

// WithProviderTimeout creates a context with the provider timeout
func WithProviderTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, ProviderTimeout)
}
