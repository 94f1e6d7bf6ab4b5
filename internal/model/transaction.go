package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category identifies which of the four recognized transaction kinds a
// Transaction belongs to.
type Category string

const (
	CategoryDeposit       Category = "deposit"
	CategoryCardPurchase  Category = "card_purchase"
	CategoryOnlinePayment Category = "online_payment"
	CategoryTransferOut   Category = "transfer_out"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryDeposit,
	CategoryCardPurchase,
	CategoryOnlinePayment,
	CategoryTransferOut,
}

// Direction is the implied money flow of a category.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Direction returns the flow implied by the category. Deposits are the only
// credits; everything else leaves the account.
func (c Category) Direction() Direction {
	if c == CategoryDeposit {
		return DirectionCredit
	}
	return DirectionDebit
}

// Label returns the human-readable name used in reports.
func (c Category) Label() string {
	switch c {
	case CategoryDeposit:
		return "Deposit"
	case CategoryCardPurchase:
		return "Debit Card Purchase"
	case CategoryOnlinePayment:
		return "Online Payment"
	case CategoryTransferOut:
		return "Transfer Out"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Transaction is a single recognized statement entry. Amount is never
// negative; the sign comes from Category.Direction.
type Transaction struct {
	Category Category
	Date     time.Time       // always fully resolved, UTC midnight
	Amount   decimal.Decimal // fixed-point, AmountScale fractional digits
	Page     int             // 1-based page the entry was found on
}
