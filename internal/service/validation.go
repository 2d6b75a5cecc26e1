package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the struct tags on v and returns the first failure as a
// ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return ValidationError{Field: fe.Field(), Msg: tagMessage(fe.Tag(), fe.Param())}
	}
	return ValidationError{Msg: err.Error()}
}

// Validator adapts Validate to frameworks that take a Validate(any) error
// hook, such as echo.
type Validator struct{}

func (Validator) Validate(i any) error { return Validate(i) }

func validEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

func tagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + param
	case "oneof":
		return "must be one of " + param
	default:
		return fmt.Sprintf("failed %q validation", tag)
	}
}
