package repository

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// ValidationError carries one message per offending form field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	RegisterRules(v)
	return v
}

// RegisterRules installs the field naming and custom rules shared by the
// store and request binding.
func RegisterRules(v *validator.Validate) {
	v.RegisterTagNameFunc(FormFieldName)
	_ = v.RegisterValidation("finite", isFinite)
}

// isFinite rejects NaN and the infinities that float parsing accepts.
func isFinite(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		return !math.IsNaN(f.Float()) && !math.IsInf(f.Float(), 0)
	}
	return true
}

// FormFieldName names struct fields after their form tag so that messages
// line up with the submitted inputs.
func FormFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
	if name == "" {
		return fld.Name
	}
	return name
}

// ValidateStruct runs the binding rules of v outside of a request.
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return NewValidationError(err)
	}
	return nil
}

// NewValidationError converts a validator or binding error into field
// messages. Errors that do not name a field are reported under "form".
func NewValidationError(err error) *ValidationError {
	var existing *ValidationError
	if errors.As(err, &existing) {
		return existing
	}

	out := &ValidationError{Fields: map[string]string{}}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Fields["form"] = "The submitted form is malformed."
		return out
	}

	for _, fe := range verrs {
		if _, seen := out.Fields[fe.Field()]; seen {
			continue
		}
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "finite":
		return fmt.Sprintf("The %s must be a number.", field)
	case "max":
		return fmt.Sprintf("The %s must not exceed %s characters.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}
