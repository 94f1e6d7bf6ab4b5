// Package resolve finds the statement year and the beginning and ending
// balances. Each field is write-once: the first page that yields it wins.
package resolve

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/stmtbooks/stmtbooks/internal/model"
)

var (
	yearPattern      = regexp.MustCompile(`\b(\d{4})\s+through\b`)
	beginningPattern = regexp.MustCompile(`(?m)^[ \t]*Beginning Balance[ \t]+(\$?[ \t]?[\d,]*\d\.\d{2})`)
	endingPattern    = regexp.MustCompile(`(?m)^[ \t]*Ending Balance[ \t]+(\$?[ \t]?[\d,]*\d\.\d{2})`)
)

// Page returns whatever header fields text contains on its own.
func Page(text string) model.Resolved {
	var r model.Resolved
	if m := yearPattern.FindStringSubmatch(text); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			r.Year = &y
		}
	}
	r.BeginningBalance = balance(beginningPattern, text)
	r.EndingBalance = balance(endingPattern, text)
	return r
}

func balance(re *regexp.Regexp, text string) *decimal.Decimal {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	d, err := model.ParseAmount(m[1])
	if err != nil {
		return nil
	}
	return &d
}

// Merge fills each field of acc that is still unset from page. Fields that
// acc already holds are never replaced.
func Merge(acc, page model.Resolved) model.Resolved {
	if acc.Year == nil {
		acc.Year = page.Year
	}
	if acc.BeginningBalance == nil {
		acc.BeginningBalance = page.BeginningBalance
	}
	if acc.EndingBalance == nil {
		acc.EndingBalance = page.EndingBalance
	}
	return acc
}

// Resolve folds Merge over pages in document order.
func Resolve(pages []string) model.Resolved {
	var acc model.Resolved
	for _, p := range pages {
		acc = Merge(acc, Page(p))
	}
	return acc
}
