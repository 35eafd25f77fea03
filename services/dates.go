package services

import (
	"fmt"
	"time"
)

// dateLayout is the canonical on-disk date format.
const dateLayout = "2006-01-02"

// acceptedDateLayouts are the inbound formats we tolerate before normalizing.
var acceptedDateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// NormalizeDate parses a caller-supplied date and renders it as YYYY-MM-DD.
// An empty string passes through unchanged so optional dates stay optional;
// anything non-empty that fails to parse is an error, never persisted as-is.
func NormalizeDate(input string) (string, error) {
	if input == "" {
		return "", nil
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.Format(dateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", input)
}

// dateBefore reports whether a <= b. Empty values compare as "unset" and
// never violate ordering.
func dateNotAfter(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	return a <= b
}
