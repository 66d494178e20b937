package render

import "math"

// Finite returns a shallow copy of values with NaN and infinite numbers
// replaced by nil so the map can be JSON encoded.
func Finite(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	out := make(map[string]any, len(values))
	for key, value := range values {
		if n, ok := value.(float64); ok && (math.IsNaN(n) || math.IsInf(n, 0)) {
			out[key] = nil
			continue
		}
		out[key] = value
	}
	return out
}
