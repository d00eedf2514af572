// Package social resolves provider access tokens into provider profiles.
package social

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/signkeeper/internal/common"
)

// Profile is the subset of a provider's user profile the server relies on.
// ID is the provider's stable user id rendered as a decimal string.
type Profile struct {
	ID       string
	Provider string
	Nickname string
}

// Resolver exchanges a provider access token for the profile it belongs to.
// Every failure wraps common.ErrSocialAuth.
type Resolver interface {
	Resolve(ctx context.Context, provider, accessToken string) (*Profile, error)
}

// Fetcher talks to a single provider.
type Fetcher interface {
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
}

// Registry routes Resolve calls to the Fetcher registered for the provider tag.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

var _ Resolver = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]Fetcher)}
}

// Register binds provider to f, replacing any previous binding.
func (r *Registry) Register(provider string, f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchers[provider] = f
}

// Providers lists the registered provider tags.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.fetchers))
	for p := range r.fetchers {
		out = append(out, p)
	}
	return out
}

func (r *Registry) Resolve(ctx context.Context, provider, accessToken string) (*Profile, error) {
	r.mu.RLock()
	f, ok := r.fetchers[provider]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", common.ErrUnsupportedProvider, provider)
	}

	p, err := f.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	p.Provider = provider
	return p, nil
}
