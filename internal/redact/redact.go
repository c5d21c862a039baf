// Package redact masks sensitive values in structured log metadata before it
// is written to any sink.
package redact

import "strings"

// Masked replaces the value of any field whose key looks sensitive.
const Masked = "***MASKED***"

// Truncated replaces subtrees nested deeper than maxDepth. The cap guards the
// walk (and the downstream JSON encoder) against pathological or cyclic input.
const Truncated = "***TRUNCATED***"

const maxDepth = 10

// Key substrings that mark a field as sensitive. Matching is case-insensitive
// and substring-based, so "accessToken", "Authorization" and "api_key" all hit.
var sensitiveKeys = []string{
	"password",
	"token",
	"authorization",
	"auth",
	"secret",
	"key",
	"credential",
	"bearer",
	"jwt",
	"session",
}

// Redact returns a copy of v with sensitive fields masked. Maps and slices are
// cloned and walked recursively; everything else is returned unchanged. The
// input is never mutated.
func Redact(v any) any {
	return redactValue(v, 0)
}

func redactValue(v any, depth int) any {
	switch val := v.(type) {
	case map[string]any:
		if depth >= maxDepth {
			return Truncated
		}
		out := make(map[string]any, len(val))
		for k, item := range val {
			if isSensitive(k) {
				out[k] = Masked
				continue
			}
			out[k] = redactValue(item, depth+1)
		}
		return out
	case []any:
		if depth >= maxDepth {
			return Truncated
		}
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = redactValue(item, depth+1)
		}
		return out
	default:
		return v
	}
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
