package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stmtbooks/stmtbooks/internal/model"
)

const samplePage = `TRANSACTION DETAIL
DATE DESCRIPTION AMOUNT
05/01 Recurring Card Purchase 05/01 Netflix.Com Los Gatos CA Card 1234 15.49
05/03 Orig CO Name:Acme Corp Orig ID:1234 Desc Date:May 03 CO Entry
Descr:Payments Sec:CCD Trace#:0210 Eed:230503 Ind ID:St-X1 $1,234.56
05/07 Recurring Card Purchase 05/07 Spotify Usa New York NY Card 1234 9.99
05/09 Online Transfer To Chk ...9876 Transaction#: 1234567 500.00
05/10 Zelle Payment To Jane Jpm99 Xfer 250.00
05/12 Orig CO Name:Beta LLC Orig ID:99 CO Entry Descr:Payments Sec:CCD 2,000.00
`

func find(t *testing.T, c model.Category, text string) []Candidate {
	t.Helper()
	p, err := For(c)
	require.NoError(t, err)
	return p.Find(text)
}

func TestFind_Deposits(t *testing.T) {
	got := find(t, model.CategoryDeposit, samplePage)
	require.Len(t, got, 2)

	assert.Equal(t, "05/03", got[0].DateToken)
	assert.Equal(t, "$1,234.56", got[0].AmountToken)
	assert.Equal(t, "05/12", got[1].DateToken)
	assert.Equal(t, "2,000.00", got[1].AmountToken)
	assert.Less(t, got[0].End, got[1].Start)
}

func TestFind_CardPurchases(t *testing.T) {
	got := find(t, model.CategoryCardPurchase, samplePage)
	require.Len(t, got, 2)
	assert.Equal(t, "05/01", got[0].DateToken)
	assert.Equal(t, "15.49", got[0].AmountToken)
	assert.Equal(t, "05/07", got[1].DateToken)
	assert.Equal(t, "9.99", got[1].AmountToken)
}

func TestFind_OnlinePaymentsAndTransfers(t *testing.T) {
	pay := find(t, model.CategoryOnlinePayment, samplePage)
	require.Len(t, pay, 1)
	assert.Equal(t, "05/10", pay[0].DateToken)
	assert.Equal(t, "250.00", pay[0].AmountToken)

	out := find(t, model.CategoryTransferOut, samplePage)
	require.Len(t, out, 1)
	assert.Equal(t, "05/09", out[0].DateToken)
	assert.Equal(t, "500.00", out[0].AmountToken)
}

func TestFind_SpecExample(t *testing.T) {
	got := find(t, model.CategoryDeposit, "05/12 Orig CO Name ACME Descr:Payments ... $1,234.56")
	require.Len(t, got, 1)
	assert.Equal(t, "05/12", got[0].DateToken)
	assert.Equal(t, "$1,234.56", got[0].AmountToken)
}

func TestFind_Exclusivity(t *testing.T) {
	text := "04/15 Recurring Card Purchase 04/15 Adobe Inc San Jose CA Card 1234 54.99\n"
	for _, c := range model.Categories {
		got := find(t, c, text)
		if c == model.CategoryCardPurchase {
			assert.Len(t, got, 1)
		} else {
			assert.Empty(t, got, "category %s", c)
		}
	}
}

func TestFind_DoesNotSwallowLaterAmounts(t *testing.T) {
	// The first entry has no amount on its line; its block ends where the
	// second entry begins, so the second amount is not attributed to it.
	text := "05/01 Recurring Card Purchase Foo\n05/02 Recurring Card Purchase Bar 3.00\n05/03 Recurring Card Purchase Baz 4.00\n"
	got := find(t, model.CategoryCardPurchase, text)
	require.Len(t, got, 2)
	assert.Equal(t, "05/02", got[0].DateToken)
	assert.Equal(t, "3.00", got[0].AmountToken)
	assert.Equal(t, "05/03", got[1].DateToken)
	assert.Equal(t, "4.00", got[1].AmountToken)
}

func TestFind_BlockEndsAtOtherCategory(t *testing.T) {
	text := "05/03 Orig CO Name:Acme CO Entry Descr:Payments Sec:CCD\n05/04 Recurring Card Purchase Foo 9.99\n"

	assert.Empty(t, find(t, model.CategoryDeposit, text))

	cards := find(t, model.CategoryCardPurchase, text)
	require.Len(t, cards, 1)
	assert.Equal(t, "05/04", cards[0].DateToken)
	assert.Equal(t, "9.99", cards[0].AmountToken)
}

func TestFind_TransferFlagAfterAmount(t *testing.T) {
	text := "05/06 Online Transfer To Chk ...9876 50.00*\n05/07 Zelle Payment To Bob Xfer 20.00*\n"

	out := find(t, model.CategoryTransferOut, text)
	require.Len(t, out, 1)
	assert.Equal(t, "50.00", out[0].AmountToken)

	pay := find(t, model.CategoryOnlinePayment, text)
	require.Len(t, pay, 1)
	assert.Equal(t, "20.00", pay[0].AmountToken)

	// Card purchases keep the strict line-end rule.
	assert.Empty(t, find(t, model.CategoryCardPurchase, "05/08 Recurring Card Purchase Foo 3.00*\n"))
	// A trailing digit is part of a longer number, not a mark.
	assert.Empty(t, find(t, model.CategoryTransferOut, "05/09 Online Transfer To Chk 12.345\n"))
}

func TestFind_EntriesOnOneLine(t *testing.T) {
	text := "05/01 Recurring Card Purchase Foo 1.50 05/02 Recurring Card Purchase Bar 2.50"
	got := find(t, model.CategoryCardPurchase, text)
	require.Len(t, got, 2)
	assert.Equal(t, "1.50", got[0].AmountToken)
	assert.Equal(t, "2.50", got[1].AmountToken)
}

func TestFind_DepositRequiresMarker(t *testing.T) {
	text := "05/03 Orig CO Name:Acme Corp CO Entry Descr:Refund Sec:CCD 10.00\n"
	assert.Empty(t, find(t, model.CategoryDeposit, text))
}

func TestFind_AmountMustEndLine(t *testing.T) {
	text := "05/01 Recurring Card Purchase 12.00 pending\n"
	assert.Empty(t, find(t, model.CategoryCardPurchase, text))
}

func TestFind_CRLF(t *testing.T) {
	text := "05/01 Recurring Card Purchase Foo 7.00\r\n"
	got := find(t, model.CategoryCardPurchase, text)
	require.Len(t, got, 1)
	assert.Equal(t, "7.00", got[0].AmountToken)
}

func TestFind_IgnoresYearLikeDates(t *testing.T) {
	text := "12/2023 Recurring Card Purchase Foo 7.00\n"
	assert.Empty(t, find(t, model.CategoryCardPurchase, text))
}

func TestLibrary(t *testing.T) {
	lib := Library()
	require.Len(t, lib, len(model.Categories))
	for i, p := range lib {
		assert.Equal(t, model.Categories[i], p.Category)
	}

	_, err := For(model.Category("check"))
	assert.Error(t, err)
}
