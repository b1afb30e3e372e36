package domain

import (
	"context"
	"errors"
)

// SearchQuery is one call to the upstream property search.
type SearchQuery struct {
	Query    string
	Region   string
	Language string
}

type SearchClient interface {
	Search(ctx context.Context, q SearchQuery) ([]Candidate, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

var (
	// ErrNoProperty means the upstream returned nothing resolvable. A distinct
	// "not found" outcome, not an internal error.
	ErrNoProperty = errors.New("no property found")

	// ErrUpstream means the search collaborator errored or timed out. Never
	// silently treated as "no candidates".
	ErrUpstream = errors.New("upstream search failed")
)
