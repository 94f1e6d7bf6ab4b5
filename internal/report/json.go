package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stmtbooks/stmtbooks/internal/aggregate"
	"github.com/stmtbooks/stmtbooks/internal/model"
	"github.com/stmtbooks/stmtbooks/internal/pipeline"
	"github.com/stmtbooks/stmtbooks/internal/reconcile"
)

// Record is the structured form of one processed document.
type Record struct {
	RunID            string                 `json:"run_id"`
	Document         string                 `json:"document"`
	GeneratedAt      time.Time              `json:"generated_at"`
	StatementYear    *int                   `json:"statement_year,omitempty"`
	BeginningBalance *decimal.Decimal       `json:"beginning_balance,omitempty"`
	EndingBalance    *decimal.Decimal       `json:"ending_balance,omitempty"`
	Pages            int                    `json:"pages"`
	Counts           map[model.Category]int `json:"counts"`
	Transactions     []RecordTxn            `json:"transactions"`
	Totals           aggregate.Totals       `json:"totals"`
	Reconciliation   *reconcile.Result      `json:"reconciliation,omitempty"`
	ReconcileError   string                 `json:"reconcile_error,omitempty"`
	SkippedPages     []int                  `json:"skipped_pages,omitempty"`
	SkippedEntries   []RecordSkip           `json:"skipped_entries,omitempty"`
}

// RecordTxn is a transaction inside a Record.
type RecordTxn struct {
	Row
	Date string `json:"date"`
}

// RecordSkip is an entry that was recognized but could not be parsed.
type RecordSkip struct {
	Page        int            `json:"page"`
	Category    model.Category `json:"category"`
	DateToken   string         `json:"date_token"`
	AmountToken string         `json:"amount_token"`
	Error       string         `json:"error"`
}

// NewRecord builds the Record for res.
func NewRecord(runID, document string, res *pipeline.Result, now time.Time) Record {
	rec := Record{
		RunID:            runID,
		Document:         document,
		GeneratedAt:      now.UTC(),
		StatementYear:    res.Statement.Year,
		BeginningBalance: res.Statement.BeginningBalance,
		EndingBalance:    res.Statement.EndingBalance,
		Pages:            len(res.Pages),
		Counts:           CategoryCounts(res.Statement),
		Transactions:     []RecordTxn{},
		Totals:           res.Totals,
		Reconciliation:   res.Reconciliation,
		SkippedPages:     res.SkippedPages(),
	}
	if res.ReconcileErr != nil {
		rec.ReconcileError = res.ReconcileErr.Error()
	}
	for _, row := range Rows(res.Scanned) {
		rec.Transactions = append(rec.Transactions, RecordTxn{Row: row, Date: row.Date.Format(dateFormat)})
	}
	for _, s := range res.Skipped {
		rec.SkippedEntries = append(rec.SkippedEntries, RecordSkip{
			Page:        s.Page,
			Category:    s.Candidate.Category,
			DateToken:   s.Candidate.DateToken,
			AmountToken: s.Candidate.AmountToken,
			Error:       s.Err.Error(),
		})
	}
	return rec
}

// WriteJSON writes rec as indented JSON.
func WriteJSON(w io.Writer, rec Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return nil
}
