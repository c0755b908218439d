package domain

import "math"

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortField enumerates the close approach attributes results can be
// ordered by.
type SortField string

const (
	SortFieldDate     SortField = "date"
	SortFieldDistance SortField = "distance"
	SortFieldVelocity SortField = "velocity"
	SortFieldDiameter SortField = "diameter"
)

// Sort captures an ordering preference for query results. The zero value
// means no ordering.
type Sort struct {
	Field     SortField
	Direction SortDirection
}

// IsZero reports whether no ordering was requested.
func (s Sort) IsZero() bool {
	return s.Field == ""
}

// Less reports whether a orders before b in ascending direction. Unknown
// diameters order after every known one.
func (s Sort) Less(a, b *CloseApproach) bool {
	switch s.Field {
	case SortFieldDistance:
		return a.Distance < b.Distance
	case SortFieldVelocity:
		return a.Velocity < b.Velocity
	case SortFieldDiameter:
		da, db := a.NeoDiameter(), b.NeoDiameter()
		if math.IsNaN(da) {
			return false
		}
		if math.IsNaN(db) {
			return true
		}
		return da < db
	default:
		return a.Time.Before(b.Time)
	}
}
