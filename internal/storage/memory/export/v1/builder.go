package v1

import (
	"fmt"
	"time"

	"github.com/pommerman/eventstats/pkg/core"
)

// Build creates an Export from dataset rows
func Build(rows []*core.GameRow, generatedAt time.Time) Export {
	export := Export{
		Version:     Version,
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Rows:        make([]Row, 0, len(rows)),
	}

	for _, r := range rows {
		row := Row{
			Mode:          int(r.Config.Mode),
			Reps:          r.Config.Reps,
			Observability: int(r.Config.Observability),
			Seed:          r.Game.Seed,
			Instance:      r.Game.Instance,
			Kind:          r.Kind.String(),
			LastTick:      r.LastTick,
			Events:        r.Events(),
		}
		for i, a := range r.Config.Roster {
			row.Agents[i] = int(a)
		}
		export.Rows = append(export.Rows, row)
	}
	return export
}

// Restore converts a decoded Export back into dataset rows.
func Restore(export Export) ([]*core.GameRow, error) {
	if export.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", export.Version)
	}

	rows := make([]*core.GameRow, 0, len(export.Rows))
	for i, row := range export.Rows {
		kind, err := core.ParseEventKind(row.Kind)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		for j, e := range row.Events {
			if e.Kind != kind {
				return nil, fmt.Errorf("row %d: event %d has kind %s in a %s row", i, j, e.Kind, kind)
			}
		}

		cfg := core.RunConfig{
			Mode:          core.GameMode(row.Mode),
			Reps:          row.Reps,
			Observability: core.Observability(row.Observability),
		}
		for s, a := range row.Agents {
			cfg.Roster[s] = core.AgentType(a)
		}
		game := core.GameIdentity{Seed: row.Seed, Instance: row.Instance}
		rows = append(rows, core.NewGameRow(cfg, game, kind, row.LastTick, row.Events))
	}
	return rows, nil
}
