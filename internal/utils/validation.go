package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// RegisterValidators adds the "username" and "eventtag" binding tags.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("eventtag", func(fl validator.FieldLevel) bool {
		return IsValidTag(NormalizeTag(fl.Field().String()))
	})
}
