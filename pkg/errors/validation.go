package errors

import (
	"strings"
	"unicode"
)

// ValidateTreatmentName validates a treatment identifier.
// Treatment names are case-sensitive, exact-match identifiers: no fuzzy
// matching or normalization happens downstream, so the only checks here
// are structural sanity, not spelling.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No leading/trailing whitespace (almost always a data-entry artifact)
//   - Maximum length of 256 characters
func ValidateTreatmentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTreatment, "treatment name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidTreatment, "treatment name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTreatment, "treatment name contains control characters: %q", name)
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidTreatment, "treatment name has leading or trailing whitespace: %q", name)
	}

	return nil
}

// ValidateStudyID validates a study identifier.
// Study IDs group comparisons into trials, so an empty ID would silently
// merge unrelated comparisons into one phantom multi-arm study.
func ValidateStudyID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "study ID cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "study ID too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "study ID contains control characters: %q", id)
		}
	}

	return nil
}

// ValidateSimulations validates a Monte-Carlo simulation count.
// Zero is allowed and means "use the default".
func ValidateSimulations(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "simulation count cannot be negative: %d", n)
	}

	const maxSimulations = 10_000_000
	if n > maxSimulations {
		return New(ErrCodeInvalidInput, "simulation count too large: %d (max %d)", n, maxSimulations)
	}

	return nil
}
