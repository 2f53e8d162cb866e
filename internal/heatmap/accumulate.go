package heatmap

import (
	"github.com/pommerman/eventstats/pkg/core"
)

// Accumulate counts every event of every collection at its position.
func Accumulate(collections ...[]core.Event) Grid {
	var g Grid
	for _, events := range collections {
		for _, ev := range events {
			g.Add(ev.Position)
		}
	}
	return g
}

type filter struct {
	agent    core.AgentType
	hasAgent bool
}

// Option restricts which events of a row are counted.
type Option func(*filter)

// ForAgent keeps only events acted by a seat the row's roster assigns to agent.
func ForAgent(agent core.AgentType) Option {
	return func(f *filter) {
		f.agent = agent
		f.hasAgent = true
	}
}

// AccumulateRows folds the event collections of rows into one grid.
func AccumulateRows(rows []*core.GameRow, opts ...Option) Grid {
	var f filter
	for _, opt := range opts {
		opt(&f)
	}

	var g Grid
	for _, r := range rows {
		r.EachEvent(func(ev core.Event) {
			if f.hasAgent {
				if a, ok := r.Config.Roster.AgentAt(ev.Seat); !ok || a != f.agent {
					return
				}
			}
			g.Add(ev.Position)
		})
	}
	return g
}

// PerAgent builds one grid per agent type over the same rows.
func PerAgent(rows []*core.GameRow, agents ...core.AgentType) map[core.AgentType]Grid {
	out := make(map[core.AgentType]Grid, len(agents))
	for _, a := range agents {
		out[a] = AccumulateRows(rows, ForAgent(a))
	}
	return out
}
