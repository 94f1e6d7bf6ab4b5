// Package patterns defines how each transaction category appears in
// linearized statement text and splits a page into candidate entries.
//
// Statement text has no delimiter between consecutive entries other than the
// next entry's own date and marker phrase. Rather than relying on a
// shortest-match regex across the whole page, a page is cut into blocks that
// start at each anchor (date token plus marker) and run to the next anchor of
// any category or the end of the page. Each block is then searched for
// its optional secondary marker and its first line-terminal amount.
package patterns

import (
	"fmt"
	"regexp"

	"github.com/stmtbooks/stmtbooks/internal/model"
)

// Pattern describes one category's anchor phrase, date capture and amount
// capture.
type Pattern struct {
	Category model.Category
	// Anchor matches the "MM/DD" date token (submatch 1) followed by the
	// category's marker phrase.
	Anchor *regexp.Regexp
	// Marker, when set, must occur after the anchor and before the amount.
	Marker *regexp.Regexp
	// Amount captures the amount token (submatch 1). Nil means
	// amountAtLineEnd.
	Amount *regexp.Regexp
}

// Candidate is a block of page text that matched a pattern from anchor
// through amount. Its tokens are raw and not yet validated.
type Candidate struct {
	Category    model.Category
	DateToken   string
	AmountToken string
	Start       int // byte offset of the date token
	End         int // byte offset just past the amount token
}

// amountAtLineEnd matches a currency amount that ends a line: optional "$",
// digits with optional thousands commas, and exactly two decimals.
var amountAtLineEnd = regexp.MustCompile(`(?m)(\$?[\d,]*\d\.\d{2})[ \t\r]*$`)

// amountWithFlag also accepts one trailing mark after the amount, such as
// the "*" some statements print after pending transfers.
var amountWithFlag = regexp.MustCompile(`(?m)(\$?[\d,]*\d\.\d{2})[^\s\d,.]?[ \t\r]*$`)

var library = []Pattern{
	{
		Category: model.CategoryDeposit,
		Anchor:   regexp.MustCompile(`\b(\d{2}/\d{2})\sOrig\sCO\sName`),
		Marker:   regexp.MustCompile(`Descr:Payments`),
	},
	{
		Category: model.CategoryCardPurchase,
		Anchor:   regexp.MustCompile(`\b(\d{2}/\d{2})\sRecurring\sCard\sPurchase`),
	},
	{
		Category: model.CategoryOnlinePayment,
		Anchor:   regexp.MustCompile(`\b(\d{2}/\d{2})\s[^\n]*?Xfer`),
		Amount:   amountWithFlag,
	},
	{
		Category: model.CategoryTransferOut,
		Anchor:   regexp.MustCompile(`\b(\d{2}/\d{2})\s[^\n]*?Online\sTransfer\sTo`),
		Amount:   amountWithFlag,
	},
}

// Library returns the built-in patterns in report order.
func Library() []Pattern {
	return append([]Pattern(nil), library...)
}

// For returns the built-in pattern for a category.
func For(c model.Category) (Pattern, error) {
	for _, p := range library {
		if p.Category == c {
			return p, nil
		}
	}
	return Pattern{}, fmt.Errorf("no pattern for category %q", c)
}

// Find returns every candidate for p in text, left to right. A block ends
// where the next anchor of p or of any built-in pattern begins, so an entry
// without its own amount never takes the amount of the entry after it.
func (p Pattern) Find(text string) []Candidate {
	amount := p.Amount
	if amount == nil {
		amount = amountAtLineEnd
	}

	var out []Candidate
	for _, loc := range p.Anchor.FindAllStringSubmatchIndex(text, -1) {
		blockEnd := p.nextAnchor(text, loc[1])
		block := text[loc[0]:blockEnd]
		rest := loc[1] - loc[0]

		if p.Marker != nil {
			m := p.Marker.FindStringIndex(block[rest:])
			if m == nil {
				continue
			}
			rest += m[1]
		}

		a := amount.FindStringSubmatchIndex(block[rest:])
		if a == nil {
			continue
		}

		out = append(out, Candidate{
			Category:    p.Category,
			DateToken:   text[loc[2]:loc[3]],
			AmountToken: block[rest+a[2] : rest+a[3]],
			Start:       loc[0],
			End:         loc[0] + rest + a[3],
		})
	}
	return out
}

// nextAnchor returns the offset of the first anchor at or after from, or
// len(text).
func (p Pattern) nextAnchor(text string, from int) int {
	end := len(text)
	rest := text[from:]
	for _, re := range append([]*regexp.Regexp{p.Anchor}, anchors...) {
		if m := re.FindStringIndex(rest); m != nil && from+m[0] < end {
			end = from + m[0]
		}
	}
	return end
}

// anchors holds every built-in anchor.
var anchors = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(library))
	for i, p := range library {
		out[i] = p.Anchor
	}
	return out
}()
