package models

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a range name is not one of daily, monthly or yearly
var ErrInvalidRange = errors.New("invalid range")

// Range is the reporting window picked in the dashboard's range selector
type Range string

const (
	RangeDaily   Range = "daily"
	RangeMonthly Range = "monthly"
	RangeYearly  Range = "yearly"
)

// DefaultRange is the range selected when the dashboard starts
const DefaultRange = RangeMonthly

var rangeOrder = []Range{RangeDaily, RangeMonthly, RangeYearly}

// ParseRange converts a string into a Range
func ParseRange(s string) (Range, error) {
	for _, r := range rangeOrder {
		if string(r) == s {
			return r, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidRange, s)
}

// Next returns the range that follows r in selector order, wrapping around
func (r Range) Next() Range {
	for i, candidate := range rangeOrder {
		if candidate == r {
			return rangeOrder[(i+1)%len(rangeOrder)]
		}
	}

	return DefaultRange
}
