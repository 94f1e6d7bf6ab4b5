// Package report renders a processed statement as a human-readable
// summary, a structured JSON record and a transactions CSV.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/stmtbooks/stmtbooks/internal/model"
	"github.com/stmtbooks/stmtbooks/internal/pipeline"
)

const displayDate = "2006-01-02"

// WriteText writes one line per scanned transaction followed by the
// summary block.
func WriteText(w io.Writer, res *pipeline.Result) error {
	ew := &errWriter{w: w}

	for _, txn := range res.Scanned {
		ew.printf("page %-3d %-19s %s %12s\n",
			txn.Page, txn.Category.Label(), txn.Date.Format(displayDate), txn.Amount.StringFixed(2))
	}
	if len(res.Scanned) > 0 {
		ew.printf("\n")
	}

	t := res.Totals
	ew.printf("Statement year: %s\n", yearString(res.Statement.Year))
	ew.printf("Revenue: %s\n", t.Revenue.StringFixed(2))
	ew.printf("Expenses: %s\n", t.Expenses.StringFixed(2))
	if t.IsLoss() {
		ew.printf("Loss: %s\n", t.ProfitOrLoss.Abs().StringFixed(2))
	} else {
		ew.printf("Profit: %s\n", t.ProfitOrLoss.StringFixed(2))
	}
	if t.OwnersDraws().IsPositive() {
		ew.printf("Owner's draws: %s\n", t.OwnersDraws().StringFixed(2))
	}

	switch {
	case res.ReconcileErr != nil:
		ew.printf("Reconciliation skipped: %v\n", res.ReconcileErr)
	case res.Reconciliation != nil && res.Reconciliation.Mismatch != nil:
		rec := res.Reconciliation
		ew.printf("Net change in balance: %s\n", rec.NetFromBalances.StringFixed(2))
		ew.printf("Net change from transactions: %s\n", rec.NetFromTransactions.StringFixed(2))
		ew.printf("Difference: %s\n", rec.Mismatch.StringFixed(2))
	}

	if pages := res.SkippedPages(); len(pages) > 0 {
		ew.printf("Skipped pages: %v\n", pages)
	}
	if n := len(res.Skipped); n > 0 {
		ew.printf("Skipped entries: %d\n", n)
	}
	return ew.err
}

func yearString(year *int) string {
	if year == nil {
		return "unresolved"
	}
	return strconv.Itoa(*year)
}

// CategoryCounts returns how many transactions of each category were scanned.
func CategoryCounts(s model.Statement) map[model.Category]int {
	out := make(map[model.Category]int, len(model.Categories))
	for _, c := range model.Categories {
		out[c] = len(s.Transactions(c))
	}
	return out
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
