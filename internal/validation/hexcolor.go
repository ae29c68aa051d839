package validation

import (
	"errors"
	"regexp"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor accepts #rgb and #rrggbb.
func ValidateHexColor(color string) error {
	if !hexColorPattern.MatchString(color) {
		return errors.New("invalid hex color")
	}
	return nil
}
