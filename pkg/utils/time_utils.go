package utils

import (
	"fmt"
	"time"
)

// LambdaTimeLayout is the timestamp layout used by the Lambda API for LastModified
// Example: "2024-03-01T12:34:56.789+0000"
const LambdaTimeLayout = "2006-01-02T15:04:05.000-0700"

// lastModifiedLayouts accept an optional fractional second and either offset style
var lastModifiedLayouts = []string{"2006-01-02T15:04:05Z0700", time.RFC3339}

// ParseLastModified parses a Lambda LastModified value and returns it in UTC
func ParseLastModified(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range lastModifiedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// CalculateElapsedDays calculates the number of days elapsed since a given time
func CalculateElapsedDays(since time.Time) int {
	return int(time.Since(since).Hours() / 24)
}

// RetentionCutoff returns the point in time before which a function is old enough to delete
func RetentionCutoff(now time.Time, retentionDays int) time.Time {
	return now.UTC().Add(-time.Duration(retentionDays) * 24 * time.Hour)
}
