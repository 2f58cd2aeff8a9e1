package translation

import (
	"context"

	"voicebridge-backend/pkg/resilience"
)

// ResilientProvider decorates a Provider with a circuit breaker so a dead
// upstream fails fast instead of holding every request for the full timeout
type ResilientProvider struct {
	provider Provider
	breaker  *resilience.Breaker
}

// NewResilientProvider wraps provider with breaker
func NewResilientProvider(provider Provider, breaker *resilience.Breaker) *ResilientProvider {
	return &ResilientProvider{
		provider: provider,
		breaker:  breaker,
	}
}

// TranslateRemote delegates to the wrapped provider under the breaker
func (p *ResilientProvider) TranslateRemote(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	var translated string
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		translated, callErr = p.provider.TranslateRemote(ctx, text, sourceCode, targetCode)
		return callErr
	})
	if err != nil {
		return "", err
	}
	return translated, nil
}
