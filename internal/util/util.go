package util

import (
	"math"
	"time"
)

// Contains checks if a slice contains a specific string
func Contains(slice []string, val string) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}

// IntPtr returns a pointer to the given int
func IntPtr(i int) *int {
	return &i
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Round Method to round to 2 decimals
func Round(f float64) float64 {
	return math.Round(f*100) / 100
}

// DurationToMs converts a duration to milliseconds rounded to 2 decimals.
func DurationToMs(d time.Duration) float64 {
	return Round(float64(d) / float64(time.Millisecond))
}

// MsToDuration converts a millisecond count to a duration.
func MsToDuration[T ~int | ~int64](ms T) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
