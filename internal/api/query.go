package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rpattn/neoql/internal/domain"
	"github.com/rpattn/neoql/pkg/validator"
)

// dateLayout is the calendar date format accepted by every date criterion.
const dateLayout = "2006-01-02"

// QueryRequest is the JSON body of POST /api/query. Dates are calendar
// dates in YYYY-MM-DD form; absent fields apply no filter.
type QueryRequest struct {
	Date        *string  `json:"date"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	DistanceMin *float64 `json:"distance_min"`
	DistanceMax *float64 `json:"distance_max"`
	VelocityMin *float64 `json:"velocity_min"`
	VelocityMax *float64 `json:"velocity_max"`
	DiameterMin *float64 `json:"diameter_min"`
	DiameterMax *float64 `json:"diameter_max"`
	Hazardous   *bool    `json:"hazardous"`
	Limit       int      `json:"limit"`
	Sort        string   `json:"sort"`
	Order       string   `json:"order"`
}

// resolvedQuery is a request translated into engine inputs.
type resolvedQuery struct {
	criteria domain.Criteria
	sort     domain.Sort
	limit    int
}

func (q QueryRequest) resolve() (resolvedQuery, []validator.ValidationError) {
	var verrs []validator.ValidationError
	req := resolvedQuery{
		criteria: domain.Criteria{
			DistanceMin: q.DistanceMin,
			DistanceMax: q.DistanceMax,
			VelocityMin: q.VelocityMin,
			VelocityMax: q.VelocityMax,
			DiameterMin: q.DiameterMin,
			DiameterMax: q.DiameterMax,
			Hazardous:   q.Hazardous,
		},
	}

	req.criteria.Date = resolveDate("date", q.Date, &verrs)
	req.criteria.StartDate = resolveDate("start_date", q.StartDate, &verrs)
	req.criteria.EndDate = resolveDate("end_date", q.EndDate, &verrs)

	if q.Limit < 0 {
		verrs = append(verrs, validator.ValidationError{
			Field:   "limit",
			Message: "must be zero or positive",
			Value:   q.Limit,
		})
	} else {
		req.limit = q.Limit
	}

	req.sort = resolveSort(q.Sort, q.Order, &verrs)
	return req, verrs
}

func resolveDate(field string, raw *string, verrs *[]validator.ValidationError) *time.Time {
	if raw == nil {
		return nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*raw))
	if err != nil {
		*verrs = append(*verrs, validator.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be a date in %s form", dateLayout),
			Value:   *raw,
		})
		return nil
	}
	return &t
}

func resolveSort(field, order string, verrs *[]validator.ValidationError) domain.Sort {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return domain.Sort{}
	}
	switch domain.SortField(field) {
	case domain.SortFieldDate, domain.SortFieldDistance, domain.SortFieldVelocity, domain.SortFieldDiameter:
	default:
		*verrs = append(*verrs, validator.ValidationError{
			Field:   "sort",
			Message: "must be one of date, distance, velocity, diameter",
			Value:   field,
		})
		return domain.Sort{}
	}

	direction := domain.SortDirectionAsc
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
	case "desc":
		direction = domain.SortDirectionDesc
	default:
		*verrs = append(*verrs, validator.ValidationError{
			Field:   "order",
			Message: "must be asc or desc",
			Value:   order,
		})
	}
	return domain.Sort{Field: domain.SortField(field), Direction: direction}
}

// queryFromValues reads the criteria, sort, and limit from URL query
// parameters using the same wire names as the JSON body.
func queryFromValues(values url.Values) (resolvedQuery, []validator.ValidationError) {
	var verrs []validator.ValidationError
	req := QueryRequest{
		Date:      stringParam(values, "date"),
		StartDate: stringParam(values, "start_date"),
		EndDate:   stringParam(values, "end_date"),
		Sort:      values.Get("sort"),
		Order:     values.Get("order"),
	}

	req.DistanceMin = floatParam(values, "distance_min", &verrs)
	req.DistanceMax = floatParam(values, "distance_max", &verrs)
	req.VelocityMin = floatParam(values, "velocity_min", &verrs)
	req.VelocityMax = floatParam(values, "velocity_max", &verrs)
	req.DiameterMin = floatParam(values, "diameter_min", &verrs)
	req.DiameterMax = floatParam(values, "diameter_max", &verrs)
	req.Hazardous = boolParam(values, "hazardous", &verrs)

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			verrs = append(verrs, validator.ValidationError{
				Field:   "limit",
				Message: "must be zero or a positive integer",
				Value:   raw,
			})
		} else {
			req.Limit = parsed
		}
	}

	resolved, resolveErrs := req.resolve()
	return resolved, append(verrs, resolveErrs...)
}

func stringParam(values url.Values, name string) *string {
	if raw := strings.TrimSpace(values.Get(name)); raw != "" {
		return &raw
	}
	return nil
}

func floatParam(values url.Values, name string, verrs *[]validator.ValidationError) *float64 {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*verrs = append(*verrs, validator.ValidationError{
			Field:   name,
			Message: "must be a number",
			Value:   raw,
		})
		return nil
	}
	return &parsed
}

func boolParam(values url.Values, name string, verrs *[]validator.ValidationError) *bool {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		*verrs = append(*verrs, validator.ValidationError{
			Field:   name,
			Message: "must be true or false",
			Value:   raw,
		})
		return nil
	}
	return &parsed
}
