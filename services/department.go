package services

import "strings"

// departments that must never be singularized
const presalesDepartment = "presales"

// NormalizeDepartment canonicalizes a free-text department name so that
// stored tags and filter values compare equal regardless of case, spacing,
// or naive pluralization. The same function must be applied to BOTH sides of
// every comparison; normalizing only one side is the classic visibility bug.
//
// Rules, in order: empty input maps to ""; whitespace is trimmed and internal
// runs collapse to a single space; the result is lowercased; "presales" is
// returned as-is (it is a department name, not a plural); any other value
// longer than three characters ending in 's' loses the trailing 's'.
func NormalizeDepartment(input string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(input), " "))
	if normalized == "" {
		return ""
	}
	if normalized == presalesDepartment {
		return normalized
	}
	if len(normalized) > 3 && strings.HasSuffix(normalized, "s") {
		return normalized[:len(normalized)-1]
	}
	return normalized
}
