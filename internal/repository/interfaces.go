package repository

import (
	"context"
	"errors"

	"github.com/rpattn/neoql/internal/domain"
	"github.com/rpattn/neoql/internal/query"
)

// ErrNotFound reports a lookup that matched no near-Earth object.
var ErrNotFound = errors.New("near-Earth object not found")

// NeoRepository defines the interface for NEO lookups and close approach
// queries.
type NeoRepository interface {
	NeoByDesignation(ctx context.Context, designation string) (*domain.NearEarthObject, error)
	NeoByName(ctx context.Context, name string) (*domain.NearEarthObject, error)
	Approaches(ctx context.Context) []*domain.CloseApproach
	Query(ctx context.Context, criteria domain.Criteria, sort domain.Sort, limit int) query.Stream
	Stats(ctx context.Context) Stats
}

// Stats summarizes the loaded data set.
type Stats struct {
	Neos       int `json:"neos"`
	Approaches int `json:"approaches"`
}
