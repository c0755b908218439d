package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/rpattn/neoql/internal/domain"
	"github.com/rpattn/neoql/internal/query"
)

// NeoDatabase is an in-memory index of near-Earth objects and their close
// approaches. It is immutable after construction, so any number of
// goroutines may read from it concurrently; each query gets its own
// stream.
type NeoDatabase struct {
	neos          []*domain.NearEarthObject
	approaches    []*domain.CloseApproach
	byDesignation map[string]*domain.NearEarthObject
	byName        map[string]*domain.NearEarthObject
}

// NewNeoDatabase links every approach to its NEO by designation, fills
// each NEO's approach list in load order, and builds the lookup indexes.
// An approach whose designation is not in the catalogue gets a placeholder
// NEO with an unknown diameter, so approach.Neo is never nil.
func NewNeoDatabase(neos []*domain.NearEarthObject, approaches []*domain.CloseApproach) *NeoDatabase {
	byDesignation := make(map[string]*domain.NearEarthObject, len(neos))
	byName := make(map[string]*domain.NearEarthObject)
	all := make([]*domain.NearEarthObject, 0, len(neos))

	for _, neo := range neos {
		if _, exists := byDesignation[neo.Designation]; exists {
			continue
		}
		byDesignation[neo.Designation] = neo
		all = append(all, neo)
		if neo.Name != "" {
			byName[neo.Name] = neo
		}
	}

	for _, approach := range approaches {
		neo, ok := byDesignation[approach.Designation]
		if !ok {
			neo = domain.NewNearEarthObject(approach.Designation, "", math.NaN(), false)
			byDesignation[approach.Designation] = neo
			all = append(all, neo)
		}
		approach.Neo = neo
		neo.Approaches = append(neo.Approaches, approach)
	}

	return &NeoDatabase{
		neos:          all,
		approaches:    approaches,
		byDesignation: byDesignation,
		byName:        byName,
	}
}

// NeoByDesignation returns the NEO with the given primary designation.
func (db *NeoDatabase) NeoByDesignation(_ context.Context, designation string) (*domain.NearEarthObject, error) {
	neo, ok := db.byDesignation[designation]
	if !ok {
		return nil, fmt.Errorf("%w: designation %q", ErrNotFound, designation)
	}
	return neo, nil
}

// NeoByName returns the NEO with the given IAU name. The empty name never
// matches.
func (db *NeoDatabase) NeoByName(_ context.Context, name string) (*domain.NearEarthObject, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrNotFound)
	}
	neo, ok := db.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: name %q", ErrNotFound, name)
	}
	return neo, nil
}

// Approaches returns every close approach in load order. The slice is
// shared; callers must not mutate it.
func (db *NeoDatabase) Approaches(_ context.Context) []*domain.CloseApproach {
	return db.approaches
}

// Query returns a lazy stream of the approaches matching the criteria,
// optionally ordered and limited.
func (db *NeoDatabase) Query(_ context.Context, criteria domain.Criteria, sort domain.Sort, limit int) query.Stream {
	return query.Run(db.approaches, criteria, sort, limit)
}

// Stats summarizes the loaded data set.
func (db *NeoDatabase) Stats(_ context.Context) Stats {
	return Stats{Neos: len(db.neos), Approaches: len(db.approaches)}
}

var _ NeoRepository = (*NeoDatabase)(nil)
