// Package dataset holds the queryable collection of game rows and the builder
// that produces it from parsed game logs.
package dataset

import (
	"sort"

	"github.com/samber/lo"

	"github.com/pommerman/eventstats/pkg/core"
)

// Dataset is a read-only, ordered collection of game rows. Order is insertion
// order and carries no meaning for queries.
type Dataset struct {
	rows []*core.GameRow
}

// New creates a dataset over rows. The slice is copied; rows are shared since
// they are immutable.
func New(rows ...*core.GameRow) *Dataset {
	return &Dataset{rows: append([]*core.GameRow(nil), rows...)}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Rows returns a copy of the row slice.
func (d *Dataset) Rows() []*core.GameRow {
	return append([]*core.GameRow(nil), d.rows...)
}

// Each calls fn for every row in order.
func (d *Dataset) Each(fn func(*core.GameRow)) {
	for _, r := range d.rows {
		fn(r)
	}
}

// Predicate is one selection constraint.
type Predicate func(*core.GameRow) bool

// Select returns a new view holding the rows matching every predicate.
// The receiver is left untouched.
func (d *Dataset) Select(preds ...Predicate) *Dataset {
	return &Dataset{rows: lo.Filter(d.rows, func(r *core.GameRow, _ int) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	})}
}

func WithMode(mode core.GameMode) Predicate {
	return func(r *core.GameRow) bool { return r.Config.Mode == mode }
}

func WithObservability(o core.Observability) Predicate {
	return func(r *core.GameRow) bool { return r.Config.Observability == o }
}

func WithSeed(seed int64) Predicate {
	return func(r *core.GameRow) bool { return r.Game.Seed == seed }
}

func WithInstance(instance int) Predicate {
	return func(r *core.GameRow) bool { return r.Game.Instance == instance }
}

func WithKind(kind core.EventKind) Predicate {
	return func(r *core.GameRow) bool { return r.Kind == kind }
}

// RosterContains keeps rows whose roster seats agent at least once.
func RosterContains(agent core.AgentType) Predicate {
	return func(r *core.GameRow) bool { return r.Config.Roster.Contains(agent) }
}

// RosterContainsAll keeps rows whose roster seats every one of agents.
func RosterContainsAll(agents ...core.AgentType) Predicate {
	return func(r *core.GameRow) bool {
		return lo.EveryBy(agents, r.Config.Roster.Contains)
	}
}

// Modes returns the distinct game modes present, ascending.
func (d *Dataset) Modes() []core.GameMode {
	out := lo.Uniq(lo.Map(d.rows, func(r *core.GameRow, _ int) core.GameMode { return r.Config.Mode }))
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Observabilities returns the distinct radii present, ascending with the
// sentinel last.
func (d *Dataset) Observabilities() []core.Observability {
	out := lo.Uniq(lo.Map(d.rows, func(r *core.GameRow, _ int) core.Observability { return r.Config.Observability }))
	sort.Slice(out, func(i, j int) bool {
		if out[i] == core.FullyObservable || out[j] == core.FullyObservable {
			return out[j] == core.FullyObservable && out[i] != core.FullyObservable
		}
		return out[i] < out[j]
	})
	return out
}

// Seeds returns the distinct seeds present, ascending.
func (d *Dataset) Seeds() []int64 {
	out := lo.Uniq(lo.Map(d.rows, func(r *core.GameRow, _ int) int64 { return r.Game.Seed }))
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AgentTypes returns the distinct agent types seated in any roster, ascending.
func (d *Dataset) AgentTypes() []core.AgentType {
	out := lo.Uniq(lo.FlatMap(d.rows, func(r *core.GameRow, _ int) []core.AgentType { return r.Config.Roster[:] }))
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
