// Package extract turns pattern candidates into dated, exact-amount
// transactions.
package extract

import (
	"errors"
	"fmt"

	"github.com/stmtbooks/stmtbooks/internal/model"
	"github.com/stmtbooks/stmtbooks/internal/patterns"
)

// ErrUnresolvedYear is returned when entries must be dated but no statement
// year has been found.
var ErrUnresolvedYear = errors.New("statement year unresolved")

// Skipped is a candidate whose date or amount could not be parsed.
type Skipped struct {
	Candidate patterns.Candidate
	Page      int
	Err       error
}

func (s Skipped) Error() string {
	return fmt.Sprintf("page %d %s %q: %v", s.Page, s.Candidate.Category, s.Candidate.DateToken, s.Err)
}

func (s Skipped) Unwrap() error { return s.Err }

// Result holds the transactions built from one page for one category, plus
// the candidates that were dropped.
type Result struct {
	Transactions []model.Transaction
	Skipped      []Skipped
}

// Extract applies the category's pattern to text and builds transactions
// dated in year. page is recorded on each transaction.
func Extract(c model.Category, text string, year *int, page int) (Result, error) {
	p, err := patterns.For(c)
	if err != nil {
		return Result{}, err
	}
	return Build(p.Find(text), year, page)
}

// Build converts candidates in order. A bad date or amount skips only that
// candidate; a missing year fails the whole call since no entry can be dated.
func Build(cands []patterns.Candidate, year *int, page int) (Result, error) {
	if len(cands) == 0 {
		return Result{}, nil
	}
	if year == nil {
		return Result{}, fmt.Errorf("%w: %d %s entries on page %d", ErrUnresolvedYear, len(cands), cands[0].Category, page)
	}

	var res Result
	for _, c := range cands {
		txn, err := build(c, *year, page)
		if err != nil {
			res.Skipped = append(res.Skipped, Skipped{Candidate: c, Page: page, Err: err})
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res, nil
}

func build(c patterns.Candidate, year, page int) (model.Transaction, error) {
	date, err := model.ParseMonthDay(c.DateToken, year)
	if err != nil {
		return model.Transaction{}, err
	}
	amount, err := model.ParseAmount(c.AmountToken)
	if err != nil {
		return model.Transaction{}, err
	}
	return model.Transaction{
		Category: c.Category,
		Date:     date,
		Amount:   amount,
		Page:     page,
	}, nil
}
