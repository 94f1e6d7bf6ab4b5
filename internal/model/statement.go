package model

import "github.com/shopspring/decimal"

// Resolved holds the write-once header fields of a statement. A nil field
// has not been found yet.
type Resolved struct {
	Year             *int
	BeginningBalance *decimal.Decimal
	EndingBalance    *decimal.Decimal
}

// Complete reports whether all three fields are set.
func (r Resolved) Complete() bool {
	return r.Year != nil && r.BeginningBalance != nil && r.EndingBalance != nil
}

// Statement is everything recognized in one document.
type Statement struct {
	Resolved

	Deposits       []Transaction
	CardPurchases  []Transaction
	OnlinePayments []Transaction
	TransfersOut   []Transaction
}

// Append adds txn to the list for its category.
func (s *Statement) Append(txn Transaction) {
	switch txn.Category {
	case CategoryDeposit:
		s.Deposits = append(s.Deposits, txn)
	case CategoryCardPurchase:
		s.CardPurchases = append(s.CardPurchases, txn)
	case CategoryOnlinePayment:
		s.OnlinePayments = append(s.OnlinePayments, txn)
	case CategoryTransferOut:
		s.TransfersOut = append(s.TransfersOut, txn)
	}
}

// Transactions returns the list for a category.
func (s Statement) Transactions(c Category) []Transaction {
	switch c {
	case CategoryDeposit:
		return s.Deposits
	case CategoryCardPurchase:
		return s.CardPurchases
	case CategoryOnlinePayment:
		return s.OnlinePayments
	case CategoryTransferOut:
		return s.TransfersOut
	}
	return nil
}

// Count returns the total number of transactions across categories.
func (s Statement) Count() int {
	return len(s.Deposits) + len(s.CardPurchases) + len(s.OnlinePayments) + len(s.TransfersOut)
}

// Clone returns a deep copy whose lists and header fields share no memory
// with s.
func (s Statement) Clone() Statement {
	out := Statement{
		Deposits:       append([]Transaction(nil), s.Deposits...),
		CardPurchases:  append([]Transaction(nil), s.CardPurchases...),
		OnlinePayments: append([]Transaction(nil), s.OnlinePayments...),
		TransfersOut:   append([]Transaction(nil), s.TransfersOut...),
	}
	if s.Year != nil {
		y := *s.Year
		out.Year = &y
	}
	if s.BeginningBalance != nil {
		b := *s.BeginningBalance
		out.BeginningBalance = &b
	}
	if s.EndingBalance != nil {
		e := *s.EndingBalance
		out.EndingBalance = &e
	}
	return out
}
