package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/sync/errgroup"

	"github.com/pommerman/eventstats/internal/parser"
	"github.com/pommerman/eventstats/pkg/core"
)

// GameSource is one game's raw log as handed over by log discovery.
type GameSource struct {
	Identity core.GameIdentity
	Source   string
	Lines    []string
	// ReadErr is set when the log could not be read; the game is then
	// reported as a failure instead of parsed.
	ReadErr error
}

// RunLogs groups the games played under one run configuration.
type RunLogs struct {
	Config core.RunConfig
	Games  []GameSource
}

// Failure records a game that contributed no rows.
type Failure struct {
	Config core.RunConfig
	Game   core.GameIdentity
	Source string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("run %s game %s: %v", f.Config, f.Game, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Builder turns run logs into a Dataset.
type Builder struct {
	parser  *parser.Parser
	vocab   core.Vocabulary
	logger  *slog.Logger
	workers int
	meter   metric.Meter

	gamesParsed   metric.Int64Counter
	gamesRejected metric.Int64Counter
	rowsEmitted   metric.Int64Counter
}

// NewBuilder creates a builder. Defaults: slog.Default, DefaultVocabulary,
// one worker per CPU and a no-op meter.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		vocab:   core.DefaultVocabulary(),
		logger:  slog.Default(),
		workers: runtime.NumCPU(),
		meter:   noop.NewMeterProvider().Meter("eventstats"),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.workers < 1 {
		b.workers = 1
	}
	b.parser = parser.NewParser(b.logger)
	b.gamesParsed = b.counter("eventstats.games.parsed", "Game logs admitted into the dataset")
	b.gamesRejected = b.counter("eventstats.games.rejected", "Game logs rejected by the parser")
	b.rowsEmitted = b.counter("eventstats.rows.emitted", "Dataset rows emitted")
	return b
}

func (b *Builder) counter(name, desc string) metric.Int64Counter {
	c, err := b.meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		b.logger.Warn("Failed to create counter, using no-op", "name", name, "error", err)
		return noop.Int64Counter{}
	}
	return c
}

type job struct {
	config core.RunConfig
	source GameSource
}

type gameResult struct {
	rows    []*core.GameRow
	failure *Failure
}

// Build parses every game and returns the dataset plus the games that were
// excluded. A failing game never aborts the build; the error return is only
// set when ctx is cancelled.
func (b *Builder) Build(ctx context.Context, runs []RunLogs) (*Dataset, []Failure, error) {
	var jobs []job
	for _, run := range runs {
		for _, g := range run.Games {
			jobs = append(jobs, job{config: run.Config, source: g})
		}
	}

	// workers fill distinct slots; rows are merged by a single writer below
	results := make([]gameResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.buildGame(gctx, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("dataset build cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("dataset build cancelled: %w", err)
	}

	var rows []*core.GameRow
	var failures []Failure
	for _, r := range results {
		if r.failure != nil {
			failures = append(failures, *r.failure)
			b.gamesRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", r.failure.Config.Mode.String())))
			continue
		}
		rows = append(rows, r.rows...)
		b.gamesParsed.Add(ctx, 1)
		b.rowsEmitted.Add(ctx, int64(len(r.rows)))
	}

	b.logger.InfoContext(ctx, "Dataset built",
		"games", len(jobs),
		"rejected", len(failures),
		"rows", len(rows))

	return New(rows...), failures, nil
}

// buildGame emits the three rows of one game, or a failure and no rows.
func (b *Builder) buildGame(ctx context.Context, j job) gameResult {
	fail := func(err error) gameResult {
		b.logger.WarnContext(ctx, "Excluding game from dataset",
			"run", j.config.String(),
			"game", j.source.Identity.String(),
			"source", j.source.Source,
			"error", err)
		return gameResult{failure: &Failure{
			Config: j.config,
			Game:   j.source.Identity,
			Source: j.source.Source,
			Err:    err,
		}}
	}

	if j.source.ReadErr != nil {
		return fail(j.source.ReadErr)
	}
	if err := b.vocab.ValidateRunConfig(j.config); err != nil {
		return fail(err)
	}

	source := j.source.Source
	if source == "" {
		source = j.source.Identity.String()
	}
	game, err := b.parser.ParseGame(source, j.source.Lines)
	if err != nil {
		return fail(err)
	}

	rows := make([]*core.GameRow, 0, len(core.EventKinds))
	for _, kind := range core.EventKinds {
		rows = append(rows, core.NewGameRow(j.config, j.source.Identity, kind, game.LastTick, game.Events(kind)))
	}
	return gameResult{rows: rows}
}
