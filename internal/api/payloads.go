package api

import (
	"github.com/rpattn/neoql/internal/domain"
	"github.com/rpattn/neoql/internal/query"
)

// NeoPayload is the JSON rendering of a near-Earth object. An unknown
// diameter serializes as null.
type NeoPayload struct {
	Designation          string            `json:"designation"`
	Name                 string            `json:"name"`
	DiameterKm           *float64          `json:"diameter_km"`
	PotentiallyHazardous bool              `json:"potentially_hazardous"`
	Approaches           []ApproachPayload `json:"approaches,omitempty"`
}

// ApproachPayload is the JSON rendering of one close approach.
type ApproachPayload struct {
	DatetimeUTC string   `json:"datetime_utc"`
	DistanceAU  float64  `json:"distance_au"`
	VelocityKmS float64  `json:"velocity_km_s"`
	Designation string   `json:"designation"`
	Name        string   `json:"name"`
	DiameterKm  *float64 `json:"diameter_km"`
	Hazardous   bool     `json:"potentially_hazardous"`
}

func neoPayload(neo *domain.NearEarthObject) NeoPayload {
	payload := NeoPayload{
		Designation:          neo.Designation,
		Name:                 neo.Name,
		PotentiallyHazardous: neo.Hazardous,
	}
	if neo.HasDiameter() {
		diameter := neo.Diameter
		payload.DiameterKm = &diameter
	}
	return payload
}

func neoPayloadWithApproaches(neo *domain.NearEarthObject) NeoPayload {
	payload := neoPayload(neo)
	payload.Approaches = make([]ApproachPayload, 0, len(neo.Approaches))
	for _, approach := range neo.Approaches {
		payload.Approaches = append(payload.Approaches, approachPayload(approach))
	}
	return payload
}

func approachPayload(approach *domain.CloseApproach) ApproachPayload {
	payload := ApproachPayload{
		DatetimeUTC: approach.TimeString(),
		DistanceAU:  approach.Distance,
		VelocityKmS: approach.Velocity,
		Designation: approach.Designation,
	}
	if neo := approach.Neo; neo != nil {
		payload.Name = neo.Name
		payload.Hazardous = neo.Hazardous
		if neo.HasDiameter() {
			diameter := neo.Diameter
			payload.DiameterKm = &diameter
		}
	}
	return payload
}

func approachPayloads(stream query.Stream) ([]ApproachPayload, error) {
	payloads := make([]ApproachPayload, 0)
	for stream.Next() {
		payloads = append(payloads, approachPayload(stream.Value()))
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return payloads, nil
}
