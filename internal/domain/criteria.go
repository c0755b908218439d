package domain

import "time"

// Criteria carries the optional search criteria a caller may combine. A
// nil field means the criterion was not supplied and produces no filter.
// Hazardous is tri-state: nil matches everything, a pointer to false
// matches only non-hazardous NEOs, a pointer to true only hazardous ones.
type Criteria struct {
	Date        *time.Time `validate:"omitempty"`
	StartDate   *time.Time `validate:"omitempty"`
	EndDate     *time.Time `validate:"omitempty"`
	DistanceMin *float64   `validate:"omitempty,gte=0"`
	DistanceMax *float64   `validate:"omitempty,gte=0"`
	VelocityMin *float64   `validate:"omitempty,gte=0"`
	VelocityMax *float64   `validate:"omitempty,gte=0"`
	DiameterMin *float64   `validate:"omitempty,gte=0"`
	DiameterMax *float64   `validate:"omitempty,gte=0"`
	Hazardous   *bool      `validate:"omitempty"`
}

// Filters expands the supplied criteria into attribute filters, one per
// non-nil field, in a fixed order: date, start date, end date, distance
// bounds, velocity bounds, diameter bounds, hazardous. Empty criteria
// yield an empty slice.
func (c Criteria) Filters() []AttributeFilter {
	var filters []AttributeFilter
	if c.Date != nil {
		filters = append(filters, DateFilter(ComparatorEq, *c.Date))
	}
	if c.StartDate != nil {
		filters = append(filters, DateFilter(ComparatorGe, *c.StartDate))
	}
	if c.EndDate != nil {
		filters = append(filters, DateFilter(ComparatorLe, *c.EndDate))
	}
	if c.DistanceMin != nil {
		filters = append(filters, DistanceFilter(ComparatorGe, *c.DistanceMin))
	}
	if c.DistanceMax != nil {
		filters = append(filters, DistanceFilter(ComparatorLe, *c.DistanceMax))
	}
	if c.VelocityMin != nil {
		filters = append(filters, VelocityFilter(ComparatorGe, *c.VelocityMin))
	}
	if c.VelocityMax != nil {
		filters = append(filters, VelocityFilter(ComparatorLe, *c.VelocityMax))
	}
	if c.DiameterMin != nil {
		filters = append(filters, DiameterFilter(ComparatorGe, *c.DiameterMin))
	}
	if c.DiameterMax != nil {
		filters = append(filters, DiameterFilter(ComparatorLe, *c.DiameterMax))
	}
	if c.Hazardous != nil {
		filters = append(filters, HazardousFilter(ComparatorEq, *c.Hazardous))
	}
	return filters
}

// IsZero reports whether no criterion is supplied.
func (c Criteria) IsZero() bool {
	return c.Date == nil && c.StartDate == nil && c.EndDate == nil &&
		c.DistanceMin == nil && c.DistanceMax == nil &&
		c.VelocityMin == nil && c.VelocityMax == nil &&
		c.DiameterMin == nil && c.DiameterMax == nil &&
		c.Hazardous == nil
}
