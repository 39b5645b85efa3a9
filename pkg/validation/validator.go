package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

var (
	violationTypes      = map[string]bool{"fake_product": true, "damaged_product": true, "wrong_product": true, "late_delivery": true, "missing_items": true}
	violationSeverities = map[string]bool{"low": true, "medium": true, "high": true, "critical": true}
	alertStatuses       = map[string]bool{"pending": true, "investigating": true, "resolved": true, "dismissed": true}
)

// Get returns the shared validator with custom tags registered.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()

		// Report JSON field names instead of Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = validate.RegisterValidation("violation_type", oneOfSet(violationTypes))
		_ = validate.RegisterValidation("violation_severity", oneOfSet(violationSeverities))
		_ = validate.RegisterValidation("alert_status", oneOfSet(alertStatuses))
		_ = validate.RegisterValidation("past", validatePast)
	})
	return validate
}

// ValidateStruct validates s and converts failures into a *ValidationError.
func ValidateStruct(s interface{}) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return err
}

func oneOfSet(allowed map[string]bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return allowed[fl.Field().String()]
	}
}

func validatePast(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.IsZero() || !t.After(time.Now())
}
