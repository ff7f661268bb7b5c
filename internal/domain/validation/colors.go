// Package validation checks user supplied workspace values.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var hexColorRE = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether value is a #RGB or #RRGGBB color.
func IsHexColor(value string) bool {
	return hexColorRE.MatchString(value)
}

// NormalizeColor validates a workspace accent color and expands the short
// #RGB form to lowercase #rrggbb.
func NormalizeColor(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !IsHexColor(value) {
		return "", fmt.Errorf("color %q must be a hex color like #RRGGBB", value)
	}
	value = strings.ToLower(value)
	if len(value) == 4 {
		value = string([]byte{'#', value[1], value[1], value[2], value[2], value[3], value[3]})
	}
	return value, nil
}
