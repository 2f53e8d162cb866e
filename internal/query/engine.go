// Package query computes per-agent-type aggregate statistics over a Dataset.
package query

import (
	"fmt"

	"github.com/pommerman/eventstats/internal/dataset"
	"github.com/pommerman/eventstats/pkg/core"
)

// AllSeeds aggregates a query across every seed.
const AllSeeds int64 = -1

// MetricSuicide names the suicide-rate metric in sweep keys.
const MetricSuicide = "suicide"

// Query selects the samples of one agent type under one configuration.
type Query struct {
	Kind          core.EventKind
	Mode          core.GameMode
	Observability core.Observability
	Agent         core.AgentType
	Seed          int64
}

func (q Query) String() string {
	seed := "all seeds"
	if q.Seed != AllSeeds {
		seed = fmt.Sprintf("seed %d", q.Seed)
	}
	return fmt.Sprintf("%s events, mode %s, %s, agent %d, %s", q.Kind, q.Mode, q.Observability, int(q.Agent), seed)
}

// Engine answers statistical queries against one dataset.
type Engine struct {
	ds *dataset.Dataset
}

// NewEngine creates an engine over ds. The dataset is only read.
func NewEngine(ds *dataset.Dataset) *Engine {
	return &Engine{ds: ds}
}

// CountEvents aggregates, per occupied seat and game, the number of events of
// q.Kind acted by that seat.
func (e *Engine) CountEvents(q Query) (AggregateResult, error) {
	return e.aggregate(q, func(ev core.Event, seat int) bool {
		return ev.Seat == seat
	})
}

// SuicideRate aggregates, per occupied seat and game, the self-eliminations
// of that seat. Mean, standard error and half-width are percentages.
func (e *Engine) SuicideRate(q Query) (AggregateResult, error) {
	q.Kind = core.Elimination
	res, err := e.aggregate(q, func(ev core.Event, seat int) bool {
		return ev.Seat == seat && ev.Killer == seat
	})
	if err != nil {
		return res, err
	}
	return res.Scale(100), nil
}

func (e *Engine) aggregate(q Query, match func(core.Event, int) bool) (AggregateResult, error) {
	preds := []dataset.Predicate{
		dataset.WithMode(q.Mode),
		dataset.WithObservability(q.Observability),
		dataset.WithKind(q.Kind),
	}
	if q.Seed != AllSeeds {
		preds = append(preds, dataset.WithSeed(q.Seed))
	} else {
		preds = append(preds, dataset.RosterContains(q.Agent))
	}

	var samples []float64
	games := 0
	e.ds.Select(preds...).Each(func(r *core.GameRow) {
		seats := r.Config.Roster.Seats(q.Agent)
		if len(seats) == 0 {
			return
		}
		games++
		// each occupied seat is its own sample
		for _, seat := range seats {
			n := 0
			r.EachEvent(func(ev core.Event) {
				if match(ev, seat) {
					n++
				}
			})
			samples = append(samples, float64(n))
		}
	})

	if len(samples) == 0 {
		return AggregateResult{}, &EmptySelectionError{Query: q}
	}
	res, err := Aggregate(samples, games)
	if err != nil {
		return AggregateResult{}, fmt.Errorf("%s: %w", q, err)
	}
	return res, nil
}

// Key identifies one reported aggregate: an event kind or "suicide", a mode,
// a radius and an agent type.
type Key struct {
	Metric        string             `json:"metric"`
	Mode          core.GameMode      `json:"mode"`
	Observability core.Observability `json:"observability"`
	Agent         core.AgentType     `json:"agent"`
}

// Entry is one sweep cell. Err is set instead of Result when the cell could
// not be computed.
type Entry struct {
	Key    Key             `json:"key"`
	Result AggregateResult `json:"result"`
	Err    error           `json:"-"`
}

// Sweep evaluates metric (an event kind name or MetricSuicide) for every
// agent and radius under mode, across all seeds.
func (e *Engine) Sweep(metric string, mode core.GameMode, agents []core.AgentType, radii []core.Observability) ([]Entry, error) {
	run := e.SuicideRate
	kind := core.Elimination
	if metric != MetricSuicide {
		k, err := core.ParseEventKind(metric)
		if err != nil {
			return nil, err
		}
		kind = k
		metric = k.String()
		run = e.CountEvents
	}

	entries := make([]Entry, 0, len(agents)*len(radii))
	for _, agent := range agents {
		for _, obs := range radii {
			res, err := run(Query{Kind: kind, Mode: mode, Observability: obs, Agent: agent, Seed: AllSeeds})
			entries = append(entries, Entry{
				Key:    Key{Metric: metric, Mode: mode, Observability: obs, Agent: agent},
				Result: res,
				Err:    err,
			})
		}
	}
	return entries, nil
}
