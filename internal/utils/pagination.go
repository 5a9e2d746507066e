// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampLimit parses a page-size query value and bounds it to [1, max],
// falling back to def when the value is absent or unparseable.
func ClampLimit(s string, def, max int) int {
	limit := AtoiDefault(s, def)
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}

// ClampOffset parses an offset query value, treating absent, unparseable,
// and negative values as 0.
func ClampOffset(s string) int {
	offset := AtoiDefault(s, 0)
	if offset < 0 {
		offset = 0
	}
	return offset
}
