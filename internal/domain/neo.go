package domain

import (
	"fmt"
	"math"
)

// NearEarthObject represents one catalogued near-Earth object.
//
// Designation is the primary designation and is always present. Name is the
// IAU name and is empty for unnamed objects. Diameter is in kilometers and
// is NaN when no measurement exists.
type NearEarthObject struct {
	Designation string
	Name        string
	Diameter    float64
	Hazardous   bool
	Approaches  []*CloseApproach
}

// NewNearEarthObject creates a NEO. Pass math.NaN() as the diameter when it
// is unknown.
func NewNearEarthObject(designation, name string, diameter float64, hazardous bool) *NearEarthObject {
	return &NearEarthObject{
		Designation: designation,
		Name:        name,
		Diameter:    diameter,
		Hazardous:   hazardous,
	}
}

// Fullname returns the designation, with the IAU name appended in
// parentheses when the object has one.
func (n *NearEarthObject) Fullname() string {
	if n.Name == "" {
		return n.Designation
	}
	return fmt.Sprintf("%s (%s)", n.Designation, n.Name)
}

// HasDiameter reports whether a diameter measurement exists.
func (n *NearEarthObject) HasDiameter() bool {
	return !math.IsNaN(n.Diameter)
}

func (n *NearEarthObject) String() string {
	hazard := "is not"
	if n.Hazardous {
		hazard = "is"
	}
	if n.HasDiameter() {
		return fmt.Sprintf("NEO %s has a diameter of %.3f km and %s potentially hazardous", n.Fullname(), n.Diameter, hazard)
	}
	return fmt.Sprintf("NEO %s has an unknown diameter and %s potentially hazardous", n.Fullname(), hazard)
}
