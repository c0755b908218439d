package domain

import (
	"fmt"
	"math"
	"time"
)

// TimeLayout is the timestamp format used by the close approach data
// products and by every textual rendering of an approach time.
const TimeLayout = "2006-01-02 15:04"

// CloseApproach represents one close approach of a NEO to Earth.
//
// Time is the UTC time of closest approach. Distance is the nominal
// approach distance in astronomical units and Velocity the relative
// velocity in km/s. Neo is linked after load and is never nil in a
// database built by ingestion.
type CloseApproach struct {
	Designation string
	Time        time.Time
	Distance    float64
	Velocity    float64
	Neo         *NearEarthObject
}

// NewCloseApproach creates an unlinked close approach.
func NewCloseApproach(designation string, t time.Time, distance, velocity float64) *CloseApproach {
	return &CloseApproach{
		Designation: designation,
		Time:        t,
		Distance:    distance,
		Velocity:    velocity,
	}
}

// TimeString formats the approach time in the data product layout.
func (c *CloseApproach) TimeString() string {
	return c.Time.UTC().Format(TimeLayout)
}

// Fullname returns the full name of the approaching NEO, falling back to
// the bare designation when the NEO is not linked.
func (c *CloseApproach) Fullname() string {
	if c.Neo != nil {
		return c.Neo.Fullname()
	}
	return c.Designation
}

// NeoDiameter returns the approaching NEO's diameter in kilometers, NaN
// when unknown or when the NEO is not linked.
func (c *CloseApproach) NeoDiameter() float64 {
	if c.Neo == nil {
		return math.NaN()
	}
	return c.Neo.Diameter
}

// NeoHazardous reports whether the approaching NEO is flagged potentially
// hazardous. An unlinked NEO counts as not hazardous.
func (c *CloseApproach) NeoHazardous() bool {
	return c.Neo != nil && c.Neo.Hazardous
}

func (c *CloseApproach) String() string {
	return fmt.Sprintf("At %s, %q approaches Earth at a distance of %.2f au and a velocity of %.2f km/s", c.TimeString(), c.Fullname(), c.Distance, c.Velocity)
}
