package util

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"notehub/internal/clients/notehub"

	"github.com/go-playground/validator/v10"
)

// TagRule is the validation tag that accepts only known note tags.
const TagRule = "notetag"

func noteTagRule(fl validator.FieldLevel) bool {
	return notehub.Tag(fl.Field().String()).Valid()
}

// RegisterTagValidator registers the "notetag" validation tag with the validator.
// Registering twice is not an error.
func RegisterTagValidator(v *validator.Validate) error {
	err := v.RegisterValidation(TagRule, noteTagRule)
	if err != nil && err.Error() == "validator: tag '"+TagRule+"' already exists" {
		return nil
	}
	return err
}

// NewValidator returns a validator that reports fields by their json name
// and knows the note rules.
func NewValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	if err := RegisterTagValidator(v); err != nil {
		return nil, err
	}
	return v, nil
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return strings.ToLower(fld.Name)
	}
	return name
}

// ValidateCtx executes v.StructCtx and returns validator.ValidationErrors
// untouched so callers can translate them with Messages.
func ValidateCtx(ctx context.Context, v *validator.Validate, req any) error {
	return v.StructCtx(ctx, req)
}

// Messages turns validation errors into one human message per field, keyed
// by json field name. Errors that are not validation errors yield nil.
func Messages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = Message(fe.Field(), fe.Tag(), fe.Param())
	}
	return out
}

// Message renders the message for one failed rule.
func Message(field, tag, param string) string {
	switch {
	case field == "content" && tag == "max":
		return "Max " + param + " characters"
	case tag == TagRule:
		return "Invalid " + field
	case field == "":
		return "Invalid input"
	}

	label := strings.ToUpper(field[:1]) + field[1:]
	switch tag {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, param)
	default:
		return label + " is invalid"
	}
}
