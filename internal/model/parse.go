package model

import (
	"fmt"
	"strconv"
	"strings"

	"boxmux/internal/geometry"
)

// ParsePosValue converts a YAML scalar (string or number) into a
// geometry.Edge, per Section 6: "Percentage strings use a trailing '%'
// ...; absolute values are integers."
func ParsePosValue(raw any) (geometry.Edge, error) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if strings.HasSuffix(s, "%") {
			n, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
			if err != nil {
				return geometry.Edge{}, fmt.Errorf("invalid percentage %q: %w", v, err)
			}
			return geometry.Pct(n), nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return geometry.Edge{}, fmt.Errorf("invalid position value %q: %w", v, err)
		}
		return geometry.Abs(n), nil
	case int:
		return geometry.Abs(float64(v)), nil
	case int64:
		return geometry.Abs(float64(v)), nil
	case float64:
		return geometry.Abs(v), nil
	default:
		return geometry.Edge{}, fmt.Errorf("unsupported position value type %T", raw)
	}
}
