package serrors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type ValidationErrors map[string]string

// ProcessValidatorErrors turns validator failures into field -> message pairs.
// label maps a struct field to its user-facing name; an empty result falls back to the field name.
func ProcessValidatorErrors(errs validator.ValidationErrors, label func(field string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		name := fe.Field()
		if label != nil {
			if l := label(fe.Field()); l != "" {
				name = l
			}
		}
		out[fe.Field()] = validationMessage(name, fe)
	}
	return out
}

// FromValidate converts the result of validator.Struct. A nil error yields nil.
func FromValidate(err error, label func(field string) string) ValidationErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ProcessValidatorErrors(verrs, label)
	}
	return ValidationErrors{"_": err.Error()}
}

func validationMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "required_if":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "e164":
		return fmt.Sprintf("%s must be a phone number in international format", name)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
