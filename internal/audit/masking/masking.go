// Package masking redacts personal data before it reaches the audit trail.
package masking

import "strings"

const maskToken = "****"

// Keys whose values are always redacted.
var sensitiveKeys = map[string]struct{}{
	"mobile_number": {},
	"id_number":     {},
	"email":         {},
	"password":      {},
}

// MaskValue redacts a value while keeping a minimal suffix for auditing.
func MaskValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return maskToken
	}
	return maskToken + trimmed[len(trimmed)-4:]
}

// MaskJSON returns a copy of the input with sensitive values redacted.
// Nested maps and slices are walked recursively.
func MaskJSON(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}

	masked := make(map[string]any, len(input))
	for key, value := range input {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			continue
		}
		if _, sensitive := sensitiveKeys[trimmedKey]; sensitive {
			if cast, ok := value.(string); ok {
				masked[trimmedKey] = MaskValue(cast)
				continue
			}
		}
		masked[trimmedKey] = maskValue(value)
	}

	if len(masked) == 0 {
		return nil
	}
	return masked
}

func maskValue(value any) any {
	switch cast := value.(type) {
	case map[string]any:
		return MaskJSON(cast)
	case []any:
		out := make([]any, 0, len(cast))
		for _, item := range cast {
			out = append(out, maskValue(item))
		}
		return out
	default:
		return value
	}
}
