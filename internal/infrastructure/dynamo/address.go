package dynamo

import "strings"

// postalAliases lists every spelling of the postal-code field seen in stored
// items and API payloads, in precedence order. Historical clients wrote all
// three; storage keeps exactly one canonical key.
var postalAliases = []string{"postalCode", "zipCode", "zip_code"}

const fieldPostalCode = "postal_code"

// NormalizeAddress rewrites an address-like mapping so that only canonical
// snake_case keys remain. camelCase variants are converted; when both
// spellings of the same field are present the snake_case value wins. The
// postal-code aliases postalCode, zipCode and zip_code all collapse into the
// single postal_code key. The input map is never mutated; nil or empty input
// yields an empty map. Applying the normalizer twice is a no-op.
func NormalizeAddress(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	if len(in) == 0 {
		return out
	}

	// Resolve postal code first: an existing canonical key wins, otherwise
	// the first alias present (in precedence order) supplies the value.
	postal, havePostal := in[fieldPostalCode]
	if !havePostal {
		for _, alias := range postalAliases {
			if v, ok := in[alias]; ok {
				postal, havePostal = v, true
				break
			}
		}
	}

	for k, v := range in {
		if k == fieldPostalCode || isPostalAlias(k) {
			continue
		}
		canonical := camelToSnake(k)
		if canonical != k {
			// snake_case wins when both spellings are present.
			if _, exists := in[canonical]; exists {
				continue
			}
		}
		out[canonical] = v
	}
	if havePostal {
		out[fieldPostalCode] = postal
	}
	return out
}

func isPostalAlias(key string) bool {
	for _, alias := range postalAliases {
		if key == alias {
			return true
		}
	}
	return false
}

// camelToSnake converts a camelCase identifier to snake_case. Keys already
// in snake_case pass through unchanged.
func camelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
