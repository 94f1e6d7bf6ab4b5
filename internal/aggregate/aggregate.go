// Package aggregate sums a statement's transactions into revenue and
// expense totals.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/stmtbooks/stmtbooks/internal/model"
)

// Totals are statement-level sums. A negative ProfitOrLoss is a loss.
type Totals struct {
	Revenue        decimal.Decimal `json:"revenue"`
	CardPurchases  decimal.Decimal `json:"card_purchases_total"`
	OnlinePayments decimal.Decimal `json:"online_payments_total"`
	Expenses       decimal.Decimal `json:"expenses_total"`
	ProfitOrLoss   decimal.Decimal `json:"profit_or_loss"`
	TransfersOut   decimal.Decimal `json:"transfers_out_total"`
}

// IsLoss reports whether expenses exceed revenue.
func (t Totals) IsLoss() bool { return t.ProfitOrLoss.IsNegative() }

// OwnersDraws is the transfers-out total under the name used in reports.
func (t Totals) OwnersDraws() decimal.Decimal { return t.TransfersOut }

// Aggregate computes Totals for s. Empty categories sum to exactly zero.
func Aggregate(s model.Statement) Totals {
	t := Totals{
		Revenue:        Sum(s.Deposits),
		CardPurchases:  Sum(s.CardPurchases),
		OnlinePayments: Sum(s.OnlinePayments),
		TransfersOut:   Sum(s.TransfersOut),
	}
	t.Expenses = t.CardPurchases.Add(t.OnlinePayments)
	t.ProfitOrLoss = t.Revenue.Sub(t.Expenses)
	return t
}

// Sum adds the amounts of txns.
func Sum(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		total = total.Add(txn.Amount)
	}
	return total
}
