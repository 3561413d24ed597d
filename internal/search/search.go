// Package search coordinates the active place-search provider. Search is a
// best-effort convenience feature: provider failures degrade to an empty
// result set and are never surfaced as a failure of the app itself.
package search

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
)

// MaxResults caps how many candidates reach ranking and the UI.
const MaxResults = 8

// Provider is implemented by each place-search adapter. Implementations
// normalize their provider's response shape into canonical results and drop
// entries without a usable display name. The origin, when present, is a
// ranking bias hint for the provider, not a filter.
type Provider interface {
	Search(ctx context.Context, query string, origin *model.Coordinate) ([]model.SearchResult, error)
}

type Service struct {
	provider Provider
	log      zerolog.Logger
}

// NewService wraps a provider. A nil provider is a valid configuration
// (no API key set); every query then resolves to no results.
func NewService(provider Provider, log zerolog.Logger) *Service {
	return &Service{provider: provider, log: log}
}

// Search resolves a free-text query against the provider. Blank queries
// short-circuit without contacting the provider. Any provider error is
// logged and absorbed into an empty result set. The returned slice is never
// nil and never longer than MaxResults.
func (s *Service) Search(ctx context.Context, query string, origin *model.Coordinate) []model.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SearchResult{}
	}

	if s.provider == nil {
		s.log.Warn().Msg("place search requested but no provider is configured")
		return []model.SearchResult{}
	}

	results, err := s.provider.Search(ctx, query, origin)
	if err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("place search failed")
		return []model.SearchResult{}
	}

	if results == nil {
		results = []model.SearchResult{}
	}
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}

// Searcher serializes searches from a single caller so that a new query
// supersedes an in-flight one: the older request is cancelled and, if it
// completes anyway, its results are reported stale instead of being raced
// into the caller's state.
type Searcher struct {
	svc *Service

	mu     sync.Mutex
	rev    uint64
	cancel context.CancelFunc
}

func NewSearcher(svc *Service) *Searcher {
	return &Searcher{svc: svc}
}

// Search runs the query, cancelling any in-flight search first. The second
// return value is false when this search was itself superseded before it
// finished; its results must be discarded.
func (s *Searcher) Search(ctx context.Context, query string, origin *model.Coordinate) ([]model.SearchResult, bool) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.rev++
	rev := s.rev
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	results := s.svc.Search(ctx, query, origin)

	s.mu.Lock()
	defer s.mu.Unlock()
	if rev != s.rev {
		return nil, false
	}
	return results, true
}
