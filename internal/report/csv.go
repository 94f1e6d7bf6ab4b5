package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stmtbooks/stmtbooks/internal/id"
	"github.com/stmtbooks/stmtbooks/internal/model"
)

// Header is the CSV header for <name>.csv.
const Header = "txn_id,page,date,category,direction,amount"

const (
	numFields    = 6
	dateFormat   = "2006-01-02"
	colTxnID     = 0
	colPage      = 1
	colDate      = 2
	colCategory  = 3
	colDirection = 4
	colAmount    = 5
)

// Row is one exported transaction.
type Row struct {
	ID        string          `json:"txn_id"`
	Page      int             `json:"page"`
	Date      time.Time       `json:"-"`
	Category  model.Category  `json:"category"`
	Direction model.Direction `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
}

// Rows assigns IDs to txns in scan order, numbering each month from 001.
func Rows(txns []model.Transaction) []Row {
	seq := id.NewSequencer()
	rows := make([]Row, len(txns))
	for i, txn := range txns {
		rows[i] = Row{
			ID:        seq.Next(txn.Date),
			Page:      txn.Page,
			Date:      txn.Date,
			Category:  txn.Category,
			Direction: txn.Category.Direction(),
			Amount:    txn.Amount,
		}
	}
	return rows
}

// WriteTransactions writes rows to w, including the header.
func WriteTransactions(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTransactions reads rows written by WriteTransactions.
func ReadTransactions(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var rows []Row
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(row Row) []string {
	rec := make([]string, numFields)
	rec[colTxnID] = row.ID
	rec[colPage] = strconv.Itoa(row.Page)
	rec[colDate] = row.Date.Format(dateFormat)
	rec[colCategory] = string(row.Category)
	rec[colDirection] = string(row.Direction)
	rec[colAmount] = formatAmount(row.Amount)
	return rec
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(rec []string) (Row, error) {
	if len(rec) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	if _, _, _, err := id.ParseTxnID(rec[colTxnID]); err != nil {
		return Row{}, err
	}

	page, err := strconv.Atoi(rec[colPage])
	if err != nil {
		return Row{}, fmt.Errorf("parsing page %q: %w", rec[colPage], err)
	}

	date, err := time.Parse(dateFormat, rec[colDate])
	if err != nil {
		return Row{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
	}

	cat := model.Category(rec[colCategory])
	if !cat.Valid() {
		return Row{}, fmt.Errorf("unknown category %q", rec[colCategory])
	}
	dir := model.Direction(rec[colDirection])
	if dir != cat.Direction() {
		return Row{}, fmt.Errorf("direction %q does not match category %s", rec[colDirection], cat)
	}

	amount, err := decimal.NewFromString(rec[colAmount])
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", rec[colAmount], err)
	}

	return Row{
		ID:        rec[colTxnID],
		Page:      page,
		Date:      date,
		Category:  cat,
		Direction: dir,
		Amount:    amount,
	}, nil
}

// formatAmount prints cents when that is exact and all four digits otherwise.
func formatAmount(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.StringFixed(model.AmountScale)
}
