package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rpattn/neoql/internal/domain"
)

// ValidationError represents a single rejected criterion.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult aggregates the outcome of validating a criteria set.
// Warnings flag suspicious but legal combinations and never fail the
// query.
type ValidationResult struct {
	IsValid  bool              `json:"isValid"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []ValidationError `json:"warnings,omitempty"`
}

// CriteriaValidator checks query criteria before evaluation.
type CriteriaValidator struct {
	validate *validator.Validate
}

// NewCriteriaValidator creates a new criteria validator.
func NewCriteriaValidator() *CriteriaValidator {
	return &CriteriaValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// criterionNames maps struct fields to the wire names clients use.
var criterionNames = map[string]string{
	"Date":        "date",
	"StartDate":   "start_date",
	"EndDate":     "end_date",
	"DistanceMin": "distance_min",
	"DistanceMax": "distance_max",
	"VelocityMin": "velocity_min",
	"VelocityMax": "velocity_max",
	"DiameterMin": "diameter_min",
	"DiameterMax": "diameter_max",
	"Hazardous":   "hazardous",
}

// ValidateCriteria checks scalar bounds through the struct tags and the
// cross-field rules tags cannot express: every min must not exceed its
// max, and start_date must not come after end_date. Combining date with a
// date range is legal but redundant and only produces a warning.
func (cv *CriteriaValidator) ValidateCriteria(c domain.Criteria) ValidationResult {
	result := ValidationResult{}

	if err := cv.validate.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldError := range fieldErrors {
				result.Errors = append(result.Errors, ValidationError{
					Field:   criterionName(fieldError.Field()),
					Message: tagMessage(fieldError),
					Value:   fieldError.Value(),
				})
			}
		} else {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "criteria",
				Message: err.Error(),
			})
		}
	}

	if c.DistanceMin != nil && c.DistanceMax != nil && *c.DistanceMin > *c.DistanceMax {
		result.Errors = append(result.Errors, boundsError("distance_max", "distance_min", *c.DistanceMax))
	}
	if c.VelocityMin != nil && c.VelocityMax != nil && *c.VelocityMin > *c.VelocityMax {
		result.Errors = append(result.Errors, boundsError("velocity_max", "velocity_min", *c.VelocityMax))
	}
	if c.DiameterMin != nil && c.DiameterMax != nil && *c.DiameterMin > *c.DiameterMax {
		result.Errors = append(result.Errors, boundsError("diameter_max", "diameter_min", *c.DiameterMax))
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "end_date",
			Message: "must not come before start_date",
			Value:   c.EndDate.Format("2006-01-02"),
		})
	}

	if c.Date != nil && (c.StartDate != nil || c.EndDate != nil) {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "date",
			Message: "combining date with start_date or end_date is redundant",
		})
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func criterionName(field string) string {
	if name, ok := criterionNames[field]; ok {
		return name
	}
	return field
}

func tagMessage(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "gte":
		return fmt.Sprintf("must be at least %s", fieldError.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fieldError.Param())
	default:
		return fmt.Sprintf("failed %s validation", fieldError.Tag())
	}
}

func boundsError(field, lower string, value float64) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be greater than or equal to %s", lower),
		Value:   value,
	}
}
