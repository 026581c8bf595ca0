// Package refdata provides the named external data fetchers handed to
// pages that need reference data before they can be built.
package refdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownService is returned when no fetcher is registered under a name.
var ErrUnknownService = errors.New("unknown reference data service")

// Fetcher returns the JSON payload for one key, typically a person's CRN.
type Fetcher interface {
	Fetch(ctx context.Context, token, key string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, token, key string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, token, key string) ([]byte, error) {
	return f(ctx, token, key)
}

// Services is a registry of named fetchers. It is safe for concurrent use.
type Services struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewServices returns an empty registry.
func NewServices() *Services {
	return &Services{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces the fetcher for name.
func (s *Services) Register(name string, f Fetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchers[name] = f
}

// Names lists the registered service names, sorted.
func (s *Services) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.fetchers))
	for n := range s.fetchers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Fetch runs the named fetcher and decodes its payload into out. Fetcher
// errors are returned wrapped but otherwise untouched.
func (s *Services) Fetch(ctx context.Context, name, token, key string, out any) error {
	s.mu.RLock()
	f, ok := s.fetchers[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, name)
	}

	payload, err := f.Fetch(ctx, token, key)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s: decode payload: %w", name, err)
	}
	return nil
}
