package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pommerman/eventstats/internal/dataset"
	"github.com/pommerman/eventstats/internal/heatmap"
	"github.com/pommerman/eventstats/pkg/core"
)

func heatmapCommand() *cli.Command {
	return &cli.Command{
		Name:  "heatmap",
		Usage: "per-cell event counts over the board, written as CSV",
		Flags: []cli.Flag{
			logsFlag(), kindFlag(), modeFlag(), obsFlag(),
			&cli.StringFlag{
				Name:  "agent",
				Usage: "only count events acted by this agent type",
			},
			&cli.StringSliceFlag{
				Name:  "versus",
				Usage: "only games whose roster contains all of these agent types",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "CSV output file, stdout when empty",
			},
		},
		Action: func(c *cli.Context) error {
			e := envFrom(c)
			kind, err := core.ParseEventKind(c.String("kind"))
			if err != nil {
				return fmt.Errorf("--kind: %w", err)
			}
			mode, obs, err := parseSelection(c, e.vocab)
			if err != nil {
				return err
			}

			preds := []dataset.Predicate{
				dataset.WithKind(kind),
				dataset.WithMode(mode),
				dataset.WithObservability(obs),
			}
			var opts []heatmap.Option
			if c.IsSet("agent") {
				agent, err := parseAgent(e.vocab, c.String("agent"))
				if err != nil {
					return fmt.Errorf("--agent: %w", err)
				}
				preds = append(preds, dataset.RosterContains(agent))
				opts = append(opts, heatmap.ForAgent(agent))
			}
			if names := c.StringSlice("versus"); len(names) > 0 {
				versus := make([]core.AgentType, 0, len(names))
				for _, n := range names {
					agent, err := parseAgent(e.vocab, n)
					if err != nil {
						return fmt.Errorf("--versus: %w", err)
					}
					versus = append(versus, agent)
				}
				preds = append(preds, dataset.RosterContainsAll(versus...))
			}

			ds, err := loadDataset(c)
			if err != nil {
				return err
			}
			rows := ds.Select(preds...).Rows()
			grid := heatmap.AccumulateRows(rows, opts...)
			e.logger.Info("Heatmap accumulated", "rows", len(rows), "events", grid.Sum(), "max", grid.Max())

			out := c.String("out")
			if out == "" {
				return grid.WriteCSV(c.App.Writer)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer f.Close()
			if err := grid.WriteCSV(f); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "wrote %d events from %d games to %s\n", grid.Sum(), len(rows), out)
			return nil
		},
	}
}
