// Package forms implements two-phase form handling: a pure validation
// step producing either normalized values or per-field error messages,
// and a separate apply step that copies the values onto a model before
// the caller persists it with its server-assigned fields.
package forms

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a submitted field name to its validation messages.
type Errors map[string][]string

// Add appends a message for the given field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether any field failed validation.
func (e Errors) Any() bool {
	return len(e) > 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the submitted JSON field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs tag validation and folds the failures into Errors.
func checkStruct(form interface{}, errs Errors) {
	err := validate.Struct(form)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("__all__", err.Error())
		return
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), messageFor(fe))
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	default:
		return fmt.Sprintf("This value fails the %q constraint.", fe.Tag())
	}
}
