package reference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"spmadrid/collections-reports/internal/logging"
)

// Default chunk sizes of keyed store queries.
const (
	DefaultAccountChunk = 100
	DefaultChCodeChunk  = 20
)

// LoaderOptions tune the chunked queries.
type LoaderOptions struct {
	AccountChunk int
	ChCodeChunk  int
	// Parallel bounds the chunks in flight; 1 issues them sequentially.
	Parallel int
}

// Loader takes a Snapshot from a Source once at the start of a run.
type Loader struct {
	source Source
	opts   LoaderOptions
	logger logging.Logger
}

// NewLoader creates a loader. Zero options take the defaults.
func NewLoader(source Source, opts LoaderOptions, logger logging.Logger) *Loader {
	if opts.AccountChunk <= 0 {
		opts.AccountChunk = DefaultAccountChunk
	}
	if opts.ChCodeChunk <= 0 {
		opts.ChCodeChunk = DefaultChCodeChunk
	}
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Loader{source: source, opts: opts, logger: logger}
}

// Load fetches the datasets selected by need. Account metadata is fetched for accountIDs;
// field results for the ChCodes of those accounts. Any source error aborts the load.
func (l *Loader) Load(ctx context.Context, need Need, accountIDs []string) (*Snapshot, error) {
	start := time.Now()
	var d Data
	var err error

	if need.Has(NeedRoster) {
		if d.Agents, err = l.source.AgentRoster(ctx); err != nil {
			return nil, fmt.Errorf("loading agent roster: %w", err)
		}
	}
	if need.Has(NeedBankStatus) {
		if d.Statuses, err = l.source.BankStatusMap(ctx); err != nil {
			return nil, fmt.Errorf("loading bank status map: %w", err)
		}
	}
	if need.Has(NeedReasonCodes) {
		if d.ReasonCodes, err = l.source.ReasonCodes(ctx); err != nil {
			return nil, fmt.Errorf("loading reason codes: %w", err)
		}
	}
	if need.Has(NeedDispositions) {
		if d.Dispositions, err = l.source.Dispositions(ctx); err != nil {
			return nil, fmt.Errorf("loading dispositions: %w", err)
		}
	}

	if need.Has(NeedAccounts) || need.Has(NeedFieldResults) {
		keys := normalizedKeys(accountIDs, AccountKey)
		d.Accounts, err = fetchChunked(ctx, l, "accounts", keys, l.opts.AccountChunk, l.source.AccountMetadata)
		if err != nil {
			return nil, fmt.Errorf("loading account metadata: %w", err)
		}
	}
	if need.Has(NeedFieldResults) {
		chcodes := make([]string, 0, len(d.Accounts))
		for _, a := range d.Accounts {
			chcodes = append(chcodes, a.ChCode)
		}
		chcodes = normalizedKeys(chcodes, strings.TrimSpace)
		d.FieldResults, err = fetchChunked(ctx, l, "field_results", chcodes, l.opts.ChCodeChunk, l.source.FieldResults)
		if err != nil {
			return nil, fmt.Errorf("loading field results: %w", err)
		}
	}

	l.logger.Debug("Reference snapshot loaded",
		logging.F("agents", len(d.Agents)),
		logging.F("statuses", len(d.Statuses)),
		logging.F("reason_codes", len(d.ReasonCodes)),
		logging.F("accounts", len(d.Accounts)),
		logging.F("field_results", len(d.FieldResults)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return NewSnapshot(d), nil
}

// fetchChunked splits keys into chunks and runs fetch on each, at most l.opts.Parallel at a time.
// Results are stored by chunk index and concatenated in key order, so the merged slice does not
// depend on completion order.
func fetchChunked[T any](ctx context.Context, l *Loader, what string, keys []string, size int,
	fetch func(context.Context, []string) ([]T, error)) ([]T, error) {
	chunks := Chunk(keys, size)
	if len(chunks) == 0 {
		return nil, nil
	}
	results := make([][]T, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Parallel)
	for i, chunk := range chunks {
		g.Go(func() error {
			rows, err := fetch(gctx, chunk)
			if err != nil {
				return fmt.Errorf("%s chunk %d: %w", what, i, err)
			}
			results[i] = rows
			l.logger.Debug("Fetched reference chunk",
				logging.F(logging.FieldSource, what),
				logging.F(logging.FieldChunk, i),
				logging.F(logging.FieldCount, len(rows)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []T
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// Chunk splits keys into consecutive slices of at most size elements.
func Chunk(keys []string, size int) [][]string {
	if size <= 0 {
		size = len(keys)
	}
	var out [][]string
	for start := 0; start < len(keys); start += size {
		out = append(out, keys[start:min(start+size, len(keys))])
	}
	return out
}
