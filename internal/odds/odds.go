package odds

import (
	"errors"
	"fmt"
)

// Format identifies how a raw bookmaker price is quoted.
type Format string

const (
	FormatAmerican Format = "american"
	FormatDecimal  Format = "decimal"
)

// ErrInvalidPrice marks a price with no implied probability inside (0,1).
var ErrInvalidPrice = errors.New("invalid price format")

// Quote is one bookmaker's raw price for a single outcome.
type Quote struct {
	Source  string
	Outcome string
	Format  Format
	Price   float64
}

// Normalize converts a raw price into its implied win probability.
// American odds above zero pay Price per 100 staked; below zero they
// require -Price staked to win 100. Decimal odds are total return per unit
// staked and must exceed 1. A price whose probability lands on or outside
// the (0,1) boundary is rejected, never clamped.
func Normalize(q Quote) (float64, error) {
	var p float64
	switch q.Format {
	case FormatAmerican:
		switch {
		case q.Price > 0:
			p = 100 / (q.Price + 100)
		case q.Price < 0:
			p = -q.Price / (-q.Price + 100)
		default:
			return 0, fmt.Errorf("%w: american odds %g", ErrInvalidPrice, q.Price)
		}
	case FormatDecimal:
		if q.Price <= 1 {
			return 0, fmt.Errorf("%w: decimal odds %g not above 1", ErrInvalidPrice, q.Price)
		}
		p = 1 / q.Price
	default:
		return 0, fmt.Errorf("%w: unknown format %q", ErrInvalidPrice, q.Format)
	}
	if !(p > 0 && p < 1) {
		return 0, fmt.Errorf("%w: implied probability %g outside (0,1)", ErrInvalidPrice, p)
	}
	return p, nil
}

// ParseFormat maps a config or query value onto a known price format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatAmerican:
		return FormatAmerican, nil
	case FormatDecimal:
		return FormatDecimal, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidPrice, s)
	}
}
