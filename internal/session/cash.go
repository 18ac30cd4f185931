package session

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidStartingCash marks an opening balance that is not a non-negative number.
var ErrInvalidStartingCash = errors.New("invalid starting cash")

var leadingNumber = regexp.MustCompile(`^[+-]?\d+(\.\d+)?`)

// ParseStartingCash reads the leading number of raw, ignoring surrounding space
// and a currency sign. Whole units are kept unless allowFraction is set, in
// which case the value is cut to two decimal places.
func ParseStartingCash(raw string, allowFraction bool) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSpace(strings.TrimLeft(trimmed, "£$€"))
	match := leadingNumber.FindString(trimmed)
	if match == "" {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidStartingCash, raw)
	}
	value, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidStartingCash, err)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidStartingCash, raw)
	}
	if allowFraction {
		return value.Truncate(2), nil
	}
	return value.Truncate(0), nil
}
