package errors

import (
	"math"
	"unicode"
)

// ValidateChartID validates a stored chart identifier for safety.
// IDs become file names in the file store and document keys in MongoDB,
// so they are restricted to a conservative character set:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - Only letters, digits, '-' and '_'
func ValidateChartID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidChartID, "chart id cannot be empty")
	}

	const maxIDLength = 128
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidChartID, "chart id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_') {
			return New(ErrCodeInvalidChartID, "chart id contains invalid character %q", r)
		}
	}

	return nil
}

// ValidateViewport checks that a viewport has finite, positive dimensions.
func ValidateViewport(width, height float64) error {
	if !finite(width) || !finite(height) {
		return New(ErrCodeInvalidViewport, "viewport dimensions must be finite")
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidViewport, "viewport must be positive, got %vx%v", width, height)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
