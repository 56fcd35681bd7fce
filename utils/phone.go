package utils

import (
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// NormalizePhone parses a phone number for the given default region and returns it in
// E.164 form. Blank input is returned unchanged.
func NormalizePhone(phoneNumber, region string) (string, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return "", nil
	}
	p, err := libphonenumber.Parse(phoneNumber, region)
	if err != nil {
		return "", fmt.Errorf("phone number %q: %w", phoneNumber, err)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("phone number %q is not valid", phoneNumber)
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}
