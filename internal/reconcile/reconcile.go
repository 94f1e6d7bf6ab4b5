// Package reconcile cross-checks the balance-implied net change of a
// statement against the net change implied by its transactions.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stmtbooks/stmtbooks/internal/aggregate"
	"github.com/stmtbooks/stmtbooks/internal/model"
)

// ErrMissingBalance is returned when the beginning or ending balance was
// never found.
var ErrMissingBalance = errors.New("missing balance")

// Result compares both net changes. Mismatch is nil when they agree
// exactly. A mismatch is a diagnostic: statements routinely carry checks,
// fees and other entries that are not modeled.
type Result struct {
	NetFromBalances     decimal.Decimal  `json:"net_from_balances"`
	NetFromTransactions decimal.Decimal  `json:"net_from_transactions"`
	Mismatch            *decimal.Decimal `json:"mismatch,omitempty"`
}

// Check reconciles s against totals.
func Check(s model.Statement, totals aggregate.Totals) (Result, error) {
	switch {
	case s.BeginningBalance == nil && s.EndingBalance == nil:
		return Result{}, fmt.Errorf("%w: beginning and ending balance not found", ErrMissingBalance)
	case s.BeginningBalance == nil:
		return Result{}, fmt.Errorf("%w: beginning balance not found", ErrMissingBalance)
	case s.EndingBalance == nil:
		return Result{}, fmt.Errorf("%w: ending balance not found", ErrMissingBalance)
	}

	res := Result{
		NetFromBalances: s.EndingBalance.Sub(*s.BeginningBalance),
		NetFromTransactions: totals.Revenue.
			Sub(totals.CardPurchases).
			Sub(totals.OnlinePayments).
			Sub(totals.TransfersOut),
	}
	if !res.NetFromBalances.Equal(res.NetFromTransactions) {
		diff := res.NetFromBalances.Sub(res.NetFromTransactions)
		res.Mismatch = &diff
	}
	return res, nil
}
