package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnsupportedCriterion reports a filter that cannot be evaluated against
// a close approach, either because its attribute selector is unknown or
// because the comparator does not apply to the attribute's type.
var ErrUnsupportedCriterion = errors.New("unsupported filter criterion")

// FilterAttribute enumerates the close approach attributes a filter can
// select.
type FilterAttribute string

const (
	FilterAttributeDate      FilterAttribute = "date"
	FilterAttributeDistance  FilterAttribute = "distance"
	FilterAttributeVelocity  FilterAttribute = "velocity"
	FilterAttributeDiameter  FilterAttribute = "diameter"
	FilterAttributeHazardous FilterAttribute = "hazardous"
)

// Comparator enumerates the comparison operators a filter can apply
// between the selected attribute and the reference value.
type Comparator string

const (
	ComparatorEq Comparator = "eq"
	ComparatorNe Comparator = "ne"
	ComparatorLt Comparator = "lt"
	ComparatorLe Comparator = "le"
	ComparatorGt Comparator = "gt"
	ComparatorGe Comparator = "ge"
)

// AttributeFilter is one search criterion: an attribute selector, a
// comparator, and a reference value. Exactly one of Date, Number, and Flag
// carries the reference, determined by Attribute. Filters are value types
// and safe to copy.
type AttributeFilter struct {
	Attribute FilterAttribute
	Op        Comparator
	Date      time.Time
	Number    float64
	Flag      bool
}

// DateFilter builds a filter on the calendar date of the approach time.
// Time-of-day on both sides is ignored.
func DateFilter(op Comparator, date time.Time) AttributeFilter {
	return AttributeFilter{Attribute: FilterAttributeDate, Op: op, Date: date}
}

// DistanceFilter builds a filter on the approach distance in au.
func DistanceFilter(op Comparator, distance float64) AttributeFilter {
	return AttributeFilter{Attribute: FilterAttributeDistance, Op: op, Number: distance}
}

// VelocityFilter builds a filter on the relative velocity in km/s.
func VelocityFilter(op Comparator, velocity float64) AttributeFilter {
	return AttributeFilter{Attribute: FilterAttributeVelocity, Op: op, Number: velocity}
}

// DiameterFilter builds a filter on the approaching NEO's diameter in km.
// A NEO with an unknown (NaN) diameter fails every ordered comparison and
// eq, and satisfies ne.
func DiameterFilter(op Comparator, diameter float64) AttributeFilter {
	return AttributeFilter{Attribute: FilterAttributeDiameter, Op: op, Number: diameter}
}

// HazardousFilter builds a filter on the approaching NEO's hazardous flag.
// Only eq and ne apply to it.
func HazardousFilter(op Comparator, hazardous bool) AttributeFilter {
	return AttributeFilter{Attribute: FilterAttributeHazardous, Op: op, Flag: hazardous}
}

// Matches reports whether the close approach satisfies the filter. It
// returns an error wrapping ErrUnsupportedCriterion when the filter cannot
// be evaluated; the result is false in that case.
func (f AttributeFilter) Matches(approach *CloseApproach) (bool, error) {
	switch f.Attribute {
	case FilterAttributeDate:
		return compareDate(f.Op, approach.Time, f.Date)
	case FilterAttributeDistance:
		return compareNumber(f.Op, approach.Distance, f.Number)
	case FilterAttributeVelocity:
		return compareNumber(f.Op, approach.Velocity, f.Number)
	case FilterAttributeDiameter:
		return compareNumber(f.Op, approach.NeoDiameter(), f.Number)
	case FilterAttributeHazardous:
		return compareFlag(f.Op, approach.NeoHazardous(), f.Flag)
	default:
		return false, fmt.Errorf("%w: attribute %q", ErrUnsupportedCriterion, string(f.Attribute))
	}
}

func (f AttributeFilter) String() string {
	switch f.Attribute {
	case FilterAttributeDate:
		return fmt.Sprintf("%s %s %s", f.Attribute, f.Op, f.Date.Format("2006-01-02"))
	case FilterAttributeHazardous:
		return fmt.Sprintf("%s %s %t", f.Attribute, f.Op, f.Flag)
	default:
		return fmt.Sprintf("%s %s %v", f.Attribute, f.Op, f.Number)
	}
}

// compareNumber applies the comparator with native float semantics, so a
// NaN operand fails eq and every ordered comparison and satisfies ne.
func compareNumber(op Comparator, value, ref float64) (bool, error) {
	switch op {
	case ComparatorEq:
		return value == ref, nil
	case ComparatorNe:
		return value != ref, nil
	case ComparatorLt:
		return value < ref, nil
	case ComparatorLe:
		return value <= ref, nil
	case ComparatorGt:
		return value > ref, nil
	case ComparatorGe:
		return value >= ref, nil
	default:
		return false, fmt.Errorf("%w: comparator %q", ErrUnsupportedCriterion, string(op))
	}
}

func compareDate(op Comparator, value, ref time.Time) (bool, error) {
	v := calendarDate(value)
	r := calendarDate(ref)
	switch op {
	case ComparatorEq:
		return v.Equal(r), nil
	case ComparatorNe:
		return !v.Equal(r), nil
	case ComparatorLt:
		return v.Before(r), nil
	case ComparatorLe:
		return !v.After(r), nil
	case ComparatorGt:
		return v.After(r), nil
	case ComparatorGe:
		return !v.Before(r), nil
	default:
		return false, fmt.Errorf("%w: comparator %q", ErrUnsupportedCriterion, string(op))
	}
}

func compareFlag(op Comparator, value, ref bool) (bool, error) {
	switch op {
	case ComparatorEq:
		return value == ref, nil
	case ComparatorNe:
		return value != ref, nil
	default:
		return false, fmt.Errorf("%w: comparator %q on hazardous", ErrUnsupportedCriterion, string(op))
	}
}

// calendarDate strips the time-of-day, leaving midnight UTC on the same
// calendar date.
func calendarDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
