// Package validation is the shared request-schema engine: every resource
// declares its field rules through one builder and gets back the first
// violated rule as a 400 error.
package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/hospadmin/hospital-admin/internal"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type ValidatorFunc func(interface{}) *internal.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{fields: make([]FieldValidator, 0)}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func fail(message string) *internal.AppError {
	return internal.NewValidationError(message, internal.ErrCodeValidationFailed)
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		switch v := value.(type) {
		case string:
			if v == "" {
				return fail(fmt.Sprintf("%s is required", fv.FieldName))
			}
		case int64:
			if v == 0 {
				return fail(fmt.Sprintf("%s is required", fv.FieldName))
			}
		case *int64:
			if v == nil {
				return fail(fmt.Sprintf("%s is required", fv.FieldName))
			}
		case *string:
			if v == nil || *v == "" {
				return fail(fmt.Sprintf("%s is required", fv.FieldName))
			}
		case time.Time:
			if v.IsZero() {
				return fail(fmt.Sprintf("%s is required", fv.FieldName))
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		if v, ok := value.(string); ok && v != "" && len(v) < min {
			return fail(fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		switch v := value.(type) {
		case string:
			if len(v) > max {
				return fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max))
			}
		case *string:
			if v != nil && len(*v) > max {
				return fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max))
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinInt(min int64) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		if v, ok := value.(int64); ok && v < min {
			return fail(fmt.Sprintf("%s must be at least %d", fv.FieldName, min))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxInt(max int64) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		if v, ok := value.(int64); ok && v > max {
			return fail(fmt.Sprintf("%s must not exceed %d", fv.FieldName, max))
		}
		return nil
	})
	return fv
}

// Alphanumeric matches the username rule: letters and digits only.
func (fv *FieldValidator) Alphanumeric() *FieldValidator {
	pattern := regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		if v, ok := value.(string); ok && v != "" && !pattern.MatchString(v) {
			return fail(fmt.Sprintf("%s may only contain letters and digits", fv.FieldName))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v != nil {
				s = *v
			}
		}
		if s != "" && !emailPattern.MatchString(s) {
			return fail(fmt.Sprintf("%s is not a valid email address", fv.FieldName))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Pattern(pattern *regexp.Regexp, message string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v != nil {
				s = *v
			}
		}
		if s != "" && !pattern.MatchString(s) {
			return fail(message)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOfString(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v != nil {
				s = *v
			}
		}
		if s == "" {
			return nil
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fail(fmt.Sprintf("%s must be one of %v", fv.FieldName, allowed))
	})
	return fv
}

func (fv *FieldValidator) OneOfInt(allowed ...int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		var n int
		switch v := value.(type) {
		case int:
			n = v
		case *int:
			if v == nil {
				return nil
			}
			n = *v
		default:
			return nil
		}
		for _, a := range allowed {
			if n == a {
				return nil
			}
		}
		return fail(fmt.Sprintf("%s must be one of %v", fv.FieldName, allowed))
	})
	return fv
}

func (fv *FieldValidator) NotFuture() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *internal.AppError {
		if v, ok := value.(time.Time); ok && v.After(time.Now()) {
			return fail(fmt.Sprintf("%s cannot be in the future", fv.FieldName))
		}
		return nil
	})
	return fv
}

// Custom attaches an arbitrary rule, used for cross-field constraints such
// as "salary_min must not exceed salary_max".
func (fv *FieldValidator) Custom(validator ValidatorFunc) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs all rules in declaration order and returns the first
// violation, which handlers pass through as the 400 response message.
func (v *ValidationBuilder) Validate() *internal.AppError {
	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
