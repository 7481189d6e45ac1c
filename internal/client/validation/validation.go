// Package validation wraps go-playground/validator with the field rules of
// the signup and settings forms and turns failures into user-facing messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/yoursay/internal/client/models"
)

// ErrValidation is matched by every *Error.
var ErrValidation = errors.New("validation error")

// Error is a client-side field check failure. It is recoverable: the user
// is re-prompted for the same field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *Error) Unwrap() error {
	return ErrValidation
}

var (
	zipcodeRe = regexp.MustCompile(`^[0-9]{5}$`)
	codeRe    = regexp.MustCompile(`^[0-9]{6}$`)
)

// Validator checks structs and single values against the form rules.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	configureValidator(v)
	return &Validator{v: v}
}

func configureValidator(validate *validator.Validate) {
	_ = validate.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
		return zipcodeRe.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		return codeRe.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("usstate", func(fl validator.FieldLevel) bool {
		return models.IsState(fl.Field().String())
	})
	_ = validate.RegisterValidation("topic", func(fl validator.FieldLevel) bool {
		return models.IsTopic(fl.Field().String())
	})
	validate.RegisterTagNameFunc(useJSONTagNames)
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Struct validates s and returns the first failure as *Error.
func (v *Validator) Struct(s any) error {
	return translate(v.v.Struct(s), "")
}

// Var validates a single value under the given field name.
func (v *Validator) Var(field string, value any, tag string) error {
	return translate(v.v.Var(value, tag), field)
}

func translate(err error, field string) error {
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	fe := errs[0]
	name := field
	if name == "" {
		name = fe.Field()
	}
	// dive reports slice elements as preferences[2]
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}
	return &Error{Field: name, Message: message(name, fe.Tag())}
}

func message(field, tag string) string {
	switch tag {
	case "zipcode":
		return "Please enter a valid 5-digit zip code."
	case "otp":
		return "Please enter a valid 6-digit code."
	case "usstate":
		return "Please select a valid two-letter state code."
	case "topic":
		return "Please choose topics from the list."
	case "email":
		return "Please enter a valid email address."
	case "eqfield":
		return "Passwords do not match."
	case "unique":
		return "Each topic can be selected only once."
	case "max":
		return fmt.Sprintf("You can't choose more than %d topics of interest.", models.MaxTopics)
	case "min":
		return "Please select at least one political topic."
	}

	switch field {
	case "email":
		return "Please enter your email."
	case "password", "confirm_password":
		return "Please enter your password twice."
	case "state":
		return "Please select your state."
	case "code":
		return "Please enter a valid 6-digit code."
	}
	return "This field is required."
}
