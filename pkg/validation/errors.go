package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// messages maps a validator tag to a format taking the field name and the tag parameter.
var messages = map[string]string{
	"required":           "%s is required",
	"max":                "%s must be at most %s long",
	"gte":                "%s must be greater than or equal to %s",
	"lte":                "%s must be less than or equal to %s",
	"ip":                 "%s must be a valid IP address%.0s",
	"dive":               "%s contains an invalid entry%.0s",
	"past":               "%s must not be in the future%.0s",
	"violation_type":     "%s must be one of fake_product, damaged_product, wrong_product, late_delivery, missing_items%.0s",
	"violation_severity": "%s must be one of low, medium, high, critical%.0s",
	"alert_status":       "%s must be one of pending, investigating, resolved, dismissed%.0s",
}

// ValidationError carries one message per offending field
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Error joins the field messages in field order
func (v *ValidationError) Error() string {
	fields := make([]string, 0, len(v.Errors))
	for field := range v.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + v.Errors[field]
	}
	return strings.Join(parts, "; ")
}

// NewValidationError converts validator failures into field messages
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	v := &ValidationError{Errors: make(map[string]string, len(errs))}
	for _, fe := range errs {
		v.Errors[fe.Field()] = message(fe)
	}
	return v
}

func message(fe validator.FieldError) string {
	format, ok := messages[fe.Tag()]
	if !ok {
		return fe.Field() + " is invalid"
	}
	return fmt.Sprintf(format, fe.Field(), fe.Param())
}

// AddError records a message for field
func (v *ValidationError) AddError(field, msg string) {
	if v.Errors == nil {
		v.Errors = make(map[string]string)
	}
	v.Errors[field] = msg
}

// HasErrors reports whether any field failed
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// GetFieldError returns the message recorded for field
func (v *ValidationError) GetFieldError(field string) (string, bool) {
	msg, ok := v.Errors[field]
	return msg, ok
}
