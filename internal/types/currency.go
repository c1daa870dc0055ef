package types

import (
	"strings"

	ierr "github.com/buzzhq/buzz/internal/errors"
	"golang.org/x/text/currency"
)

const (
	DefaultCurrency = "INR"
	DefaultLocale   = "en-US"
)

// NormalizeCurrency upper-cases and trims an ISO 4217 code
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidCurrency reports whether code is a known ISO 4217 currency
func IsValidCurrency(code string) bool {
	_, err := currency.ParseISO(NormalizeCurrency(code))
	return err == nil
}

// ValidateCurrency returns a validation error for unknown codes
func ValidateCurrency(code string) error {
	if !IsValidCurrency(code) {
		return ierr.NewError("invalid currency").
			WithHintf("Currency %q is not a valid ISO 4217 code", code).
			WithReportableDetails(map[string]any{
				"currency": code,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsMatchingCurrency compares two codes ignoring case and whitespace
func IsMatchingCurrency(a, b string) bool {
	return NormalizeCurrency(a) == NormalizeCurrency(b)
}
