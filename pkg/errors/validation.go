package errors

import (
	"regexp"
	"strings"
	"unicode"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateSeriesName checks that a series name can be used as a dataset
// column and as an SVG/HTML key.
//
// Rules:
//   - No empty names
//   - No control characters
//   - No quotes or angle brackets (they end up inside attributes and scripts)
//   - Maximum length of 64 characters
func ValidateSeriesName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidSeries, "series name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidSeries, "series name too long (max 64 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSeries, "series name contains control characters")
		}
	}
	if strings.ContainsAny(name, `"'<>`) {
		return New(ErrCodeInvalidSeries, "series name %q contains quotes or angle brackets", name)
	}
	return nil
}

// ValidateColor checks that c is a #rgb or #rrggbb hex color.
func ValidateColor(c string) error {
	if !hexColor.MatchString(c) {
		return New(ErrCodeInvalidConfig, "invalid color %q (want #rgb or #rrggbb)", c)
	}
	return nil
}

// ValidatePath validates a dataset or output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "path too long (max 4096 characters)")
	}
	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}
