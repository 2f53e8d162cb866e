package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pommerman/eventstats/internal/config"
	"github.com/pommerman/eventstats/internal/influx"
	"github.com/pommerman/eventstats/internal/query"
	"github.com/pommerman/eventstats/pkg/core"
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "every metric for every mode, radius and agent type",
		Flags: []cli.Flag{
			logsFlag(),
			&cli.BoolFlag{
				Name:  "influx",
				Usage: "export the results to InfluxDB even when influx.enabled is false",
			},
		},
		Action: func(c *cli.Context) error {
			e := envFrom(c)
			ds, err := loadDataset(c)
			if err != nil {
				return err
			}

			eng := query.NewEngine(ds)
			metrics := make([]string, 0, len(core.EventKinds)+1)
			for _, k := range core.EventKinds {
				metrics = append(metrics, k.String())
			}
			metrics = append(metrics, query.MetricSuicide)

			var entries []query.Entry
			for _, mode := range ds.Modes() {
				for _, metric := range metrics {
					swept, err := eng.Sweep(metric, mode, e.vocab.AgentTypes(), e.vocab.Observabilities())
					if err != nil {
						return err
					}
					entries = append(entries, swept...)
				}
			}
			writeReport(c.App.Writer, entries, e.vocab)

			cfg := config.GetInfluxConfig()
			if c.Bool("influx") {
				cfg.Enabled = true
			}
			if !cfg.Enabled {
				return nil
			}
			return exportReport(c, cfg, entries)
		},
	}
}

func writeReport(w io.Writer, entries []query.Entry, vocab core.Vocabulary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tMODE\tOBS\tAGENT\tMEAN\tHALF-WIDTH\tSAMPLES\tGAMES")
	for _, entry := range entries {
		k := entry.Key
		var empty *query.EmptySelectionError
		switch {
		case errors.As(entry.Err, &empty):
			// agent never played under this configuration
			continue
		case entry.Err != nil:
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t-\t-\t-\t-\t%v\n", k.Metric, k.Mode, k.Observability, vocab.AgentName(k.Agent), entry.Err)
		default:
			r := entry.Result
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.4f\t%.4f\t%d\t%d\n", k.Metric, k.Mode, k.Observability, vocab.AgentName(k.Agent), r.Mean, r.HalfWidth, r.Count, r.Games)
		}
	}
	tw.Flush()
}

func exportReport(c *cli.Context, cfg config.InfluxConfig, entries []query.Entry) error {
	e := envFrom(c)
	manager := influx.NewManager(e.zlog, cfg)
	if err := manager.Connect(c.Context); err != nil {
		return fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}

	written, skipped, err := manager.ExportEntries(entries, e.vocab, time.Now())
	if cerr := manager.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}
	e.logger.Info("Exported results", "written", written, "skipped", skipped, "online", manager.IsValid)
	return nil
}
