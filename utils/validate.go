package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// gstinPattern matches a 15 character Indian GSTIN: state code, PAN, entity number, 'Z', checksum.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("gstin", func(fl validator.FieldLevel) bool {
		return gstinPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct validates any struct value using the shared validator instance.
// Failures are returned as validator.ValidationErrors.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}

// ValidGSTIN reports whether s is a well-formed GSTIN.
func ValidGSTIN(s string) bool {
	return gstinPattern.MatchString(s)
}
