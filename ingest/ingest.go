package ingest

import (
	"context"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	disruptdb "github.com/gendx/disruptdb"
	"github.com/gendx/disruptdb/compact"
	"github.com/gendx/disruptdb/schema"
)

// Options configures an Ingestor.
type Options struct {
	Workers int
	Logger  *disruptdb.Logger
}

// Option modifies Options.
type Option func(*Options)

// WithWorkers sets the number of concurrent workers. Values below one fall
// back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger sets the logger used during ingestion.
func WithLogger(logger *disruptdb.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// Ingestor compacts snapshot files into a shared store bundle.
type Ingestor struct {
	stores  *compact.Stores
	workers int
	logger  *disruptdb.Logger
}

// New creates an Ingestor interning into stores.
func New(stores *compact.Stores, opts ...Option) *Ingestor {
	options := Options{Logger: disruptdb.NoopLogger()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Workers < 1 {
		options.Workers = runtime.GOMAXPROCS(0)
	}
	return &Ingestor{
		stores:  stores,
		workers: options.Workers,
		logger:  options.Logger,
	}
}

// Run discovers every file under dirs, compacts them concurrently, and
// returns the verified records. Record order follows completion order, not
// file order; the database is order-insensitive by construction.
func (ing *Ingestor) Run(ctx context.Context, dirs []string) ([]compact.Record, *Stats, error) {
	var files []string
	for _, dir := range dirs {
		found, err := collectFiles(dir)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, found...)
	}

	stats := &Stats{}
	stats.files.Store(int64(len(files)))

	var mu sync.Mutex
	records := make([]compact.Record, 0, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ing.workers)
	for _, path := range files {
		path := path
		g.Go(func() error {
			rec, ok, err := ing.processFile(ctx, path, stats)
			if err != nil || !ok {
				return err
			}
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	ing.logger.LogRun(ctx, stats.Files(), stats.Skipped(), len(records))
	return records, stats, nil
}

// processFile runs the per-file pipeline: read, strict parse, compact,
// verify. A parse failure is counted and reported with ok=false; any later
// failure is a bug or an unexpected corpus and is fatal.
func (ing *Ingestor) processFile(ctx context.Context, path string, stats *Stats) (compact.Record, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return compact.Record{}, false, disruptdb.NewFileError(path, err)
	}
	stats.rawBytes.Add(int64(len(data)))

	src, err := schema.Decode(data)
	if err != nil {
		stats.skipped.Add(1)
		ing.logger.LogParseSkip(ctx, path, err)
		return compact.Record{}, false, nil
	}
	stats.sourceBytes.Add(int64(src.EstimateBytes()))

	rec, err := compact.NewRecord(ing.stores, src)
	if err != nil {
		return compact.Record{}, false, disruptdb.NewFileError(path, err)
	}
	if !rec.EqualSource(ing.stores, src) {
		return compact.Record{}, false, disruptdb.NewFileError(path, disruptdb.ErrEquivalence)
	}

	ing.logger.LogIngestFile(ctx, path, len(data), nil)
	return rec, true, nil
}
