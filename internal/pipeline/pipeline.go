// Package pipeline runs one document through page scanning, aggregation and
// reconciliation.
//
// Pages are read and matched in a map step that may run in parallel. Results
// are merged strictly in page order, so write-once header fields and
// transaction order are the same as a sequential scan.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stmtbooks/stmtbooks/internal/aggregate"
	"github.com/stmtbooks/stmtbooks/internal/extract"
	"github.com/stmtbooks/stmtbooks/internal/model"
	"github.com/stmtbooks/stmtbooks/internal/pagetext"
	"github.com/stmtbooks/stmtbooks/internal/patterns"
	"github.com/stmtbooks/stmtbooks/internal/reconcile"
	"github.com/stmtbooks/stmtbooks/internal/resolve"
)

// State is a step in the per-document lifecycle.
type State string

const (
	StateAwaitingInput State = "awaiting_input"
	StateScanningPages State = "scanning_pages"
	StateFrozen        State = "frozen"
	StateAggregating   State = "aggregating"
	StateReconciling   State = "reconciling"
	StateReported      State = "reported"
)

// PageOutcome records what happened to one page. Number is 1-based.
type PageOutcome struct {
	Number int
	Text   string
	Err    error
}

// Result is everything produced for one document.
type Result struct {
	State          State
	Statement      model.Statement     // frozen after the scan
	Scanned        []model.Transaction // every transaction in scan order
	Pages          []PageOutcome
	Skipped        []extract.Skipped
	Totals         aggregate.Totals
	Reconciliation *reconcile.Result
	ReconcileErr   error // set instead of Reconciliation when a balance is missing
}

// SkippedPages returns the numbers of pages whose text could not be read.
func (r *Result) SkippedPages() []int {
	var out []int
	for _, p := range r.Pages {
		if p.Err != nil {
			out = append(out, p.Number)
		}
	}
	return out
}

// PageTexts returns the text of every page, empty for skipped pages.
func (r *Result) PageTexts() []string {
	out := make([]string, len(r.Pages))
	for i, p := range r.Pages {
		out[i] = p.Text
	}
	return out
}

// MarkReported records that the result has been written out.
func (r *Result) MarkReported() { r.State = StateReported }

// Pipeline processes documents. The zero value is not usable; call New.
type Pipeline struct {
	patterns []patterns.Pattern
	workers  int
	log      zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets how many pages are read and matched at once. Values
// below 1 mean 1.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n < 1 {
			n = 1
		}
		p.workers = n
	}
}

// WithLogger sets the logger for page and match diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithPatterns replaces the built-in pattern library.
func WithPatterns(ps []patterns.Pattern) Option {
	return func(p *Pipeline) { p.patterns = ps }
}

// New creates a Pipeline using the built-in patterns, one worker and no logging.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		patterns: patterns.Library(),
		workers:  1,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type pageScan struct {
	text       string
	err        error
	header     model.Resolved
	candidates [][]patterns.Candidate // indexed like Pipeline.patterns
}

// Run scans every page of src and returns the aggregated, reconciled
// result. It fails when the document cannot be read or when entries must be
// dated before any statement year is found. A missing balance only fails the
// reconciliation step and is reported in Result.ReconcileErr.
func (p *Pipeline) Run(ctx context.Context, src pagetext.Source) (*Result, error) {
	res := &Result{State: StateAwaitingInput}

	count, err := src.PageCount()
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	p.transition(res, StateScanningPages)
	scans, err := p.scanPages(ctx, src, count)
	if err != nil {
		return nil, err
	}

	var acc model.Statement
	for i, scan := range scans {
		if err := p.merge(res, &acc, i+1, scan); err != nil {
			return nil, err
		}
	}

	res.Statement = acc.Clone()
	p.transition(res, StateFrozen)

	p.transition(res, StateAggregating)
	res.Totals = aggregate.Aggregate(res.Statement)

	p.transition(res, StateReconciling)
	rec, err := reconcile.Check(res.Statement, res.Totals)
	if err != nil {
		p.log.Warn().Err(err).Msg("reconciliation skipped")
		res.ReconcileErr = err
	} else {
		res.Reconciliation = &rec
	}
	return res, nil
}

// scanPages is the map step: read text, find header fields and pattern
// candidates for each page. PageText is called in increasing page order.
func (p *Pipeline) scanPages(ctx context.Context, src pagetext.Source, count int) ([]pageScan, error) {
	scans := make([]pageScan, count)

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			scans[i] = p.scanPage(src, i)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scanning pages: %w", err)
	}
	return scans, nil
}

func (p *Pipeline) scanPage(src pagetext.Source, index int) pageScan {
	text, err := src.PageText(index)
	if err != nil {
		return pageScan{err: err}
	}
	scan := pageScan{
		text:       text,
		header:     resolve.Page(text),
		candidates: make([][]patterns.Candidate, len(p.patterns)),
	}
	for j, pat := range p.patterns {
		scan.candidates[j] = pat.Find(text)
	}
	return scan
}

// merge folds one page into the accumulator. Pages are merged in order.
func (p *Pipeline) merge(res *Result, acc *model.Statement, page int, scan pageScan) error {
	res.Pages = append(res.Pages, PageOutcome{Number: page, Text: scan.text, Err: scan.err})
	if scan.err != nil {
		p.log.Warn().Int("page", page).Err(scan.err).Msg("skipping page")
		return nil
	}

	before := acc.Resolved
	acc.Resolved = resolve.Merge(acc.Resolved, scan.header)
	if before.Year == nil && acc.Year != nil {
		p.log.Debug().Int("page", page).Int("year", *acc.Year).Msg("statement year resolved")
	}
	if before.BeginningBalance == nil && acc.BeginningBalance != nil {
		p.log.Debug().Int("page", page).Str("amount", acc.BeginningBalance.StringFixed(2)).Msg("beginning balance resolved")
	}
	if before.EndingBalance == nil && acc.EndingBalance != nil {
		p.log.Debug().Int("page", page).Str("amount", acc.EndingBalance.StringFixed(2)).Msg("ending balance resolved")
	}
	if !before.Complete() && acc.Complete() {
		p.log.Debug().Int("page", page).Msg("statement header complete")
	}

	for j := range p.patterns {
		built, err := extract.Build(scan.candidates[j], acc.Year, page)
		if err != nil {
			return err
		}
		for _, s := range built.Skipped {
			p.log.Warn().
				Int("page", page).
				Str("category", string(s.Candidate.Category)).
				Str("date_token", s.Candidate.DateToken).
				Str("amount_token", s.Candidate.AmountToken).
				Err(s.Err).
				Msg("skipping entry")
		}
		res.Skipped = append(res.Skipped, built.Skipped...)
		for _, txn := range built.Transactions {
			acc.Append(txn)
			res.Scanned = append(res.Scanned, txn)
		}
	}
	return nil
}

func (p *Pipeline) transition(res *Result, next State) {
	p.log.Debug().Str("from", string(res.State)).Str("to", string(next)).Msg("state")
	res.State = next
}
