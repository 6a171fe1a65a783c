package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
)

// maxAmountInCents bounds a single amount so that balance arithmetic on
// int64 cents cannot overflow
const maxAmountInCents = math.MaxInt64 / 1000

// ParseAmountToCents validates an amount string and converts it to cents.
// Accepted formats: "12", "12.3", "12.34". Amounts are non-negative; the
// entry direction decides the sign.
func ParseAmountToCents(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0, errs.ErrInvalidAmount
	}

	if strings.HasPrefix(amount, "-") {
		return 0, errs.ErrNegativeAmount
	}

	whole := amount
	frac := ""
	if idx := strings.IndexByte(amount, '.'); idx >= 0 {
		whole = amount[:idx]
		frac = amount[idx+1:]
	}

	if whole == "" || len(frac) > 2 {
		return 0, errs.ErrInvalidAmount
	}

	wholePart, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, errs.ErrAmountOverflow
		}
		return 0, errs.ErrInvalidAmount
	}

	var fracPart int64
	if frac != "" {
		fracPart, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, errs.ErrInvalidAmount
		}
		if len(frac) == 1 {
			fracPart *= 10
		}
	}

	if wholePart > maxAmountInCents {
		return 0, errs.ErrAmountOverflow
	}

	return wholePart*100 + fracPart, nil
}

// CentsToAmount formats cents as a string with exactly two decimal places
func CentsToAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
