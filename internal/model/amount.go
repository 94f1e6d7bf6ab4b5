package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits kept for every amount.
const AmountScale = 4

var (
	// ErrMalformedAmount is returned when an amount token is not a valid
	// non-negative decimal numeral after cleaning.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrInvalidDateToken is returned when a month/day token cannot form a
	// calendar date.
	ErrInvalidDateToken = errors.New("invalid date token")
)

var cleanedAmountPattern = regexp.MustCompile(`^\d+(\.\d{1,4})?$`)

// ParseAmount strips a leading currency symbol, thousands separators and
// whitespace from raw and parses what is left as an exact decimal.
// "$12,345.67" -> 12345.67
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if r, size := utf8.DecodeRuneInString(s); unicode.Is(unicode.Sc, r) {
		s = s[size:]
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if !cleanedAmountPattern.MatchString(cleaned) {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrMalformedAmount, raw)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q: %v", ErrMalformedAmount, raw, err)
	}
	return d.Round(AmountScale), nil
}

// ParseMonthDay combines a "MM/DD" token with year into a UTC date.
func ParseMonthDay(token string, year int) (time.Time, error) {
	monthStr, dayStr, ok := strings.Cut(strings.TrimSpace(token), "/")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q has no separator", ErrInvalidDateToken, token)
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q: %v", ErrInvalidDateToken, monthStr, err)
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q: %v", ErrInvalidDateToken, dayStr, err)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d out of range in %q", ErrInvalidDateToken, month, token)
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (02/30 -> 03/02); reject that instead.
	if day < 1 || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, fmt.Errorf("%w: day %d out of range in %q for %d", ErrInvalidDateToken, day, token, year)
	}
	return date, nil
}
