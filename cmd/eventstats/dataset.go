package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/pommerman/eventstats/internal/config"
	"github.com/pommerman/eventstats/internal/dataset"
	"github.com/pommerman/eventstats/internal/discovery"
	"github.com/pommerman/eventstats/internal/storage"
)

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "parse the simulator logs and store the dataset snapshot",
		Flags: []cli.Flag{logsFlag()},
		Action: func(c *cli.Context) error {
			e := envFrom(c)
			ctx := commandContext(c)
			ds, failures, err := buildDataset(ctx, e, logsRoot(c))
			if err != nil {
				return err
			}
			printFailures(c.App.Writer, failures)

			backend, err := storage.NewBackend(config.GetStorageConfig(), e.zlog)
			if err != nil {
				return err
			}
			if err := backend.Init(); err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer backend.Close()

			if err := backend.SaveDataset(ctx, ds); err != nil {
				return fmt.Errorf("failed to save dataset: %w", err)
			}

			where := config.GetStorageConfig().Type
			if l, ok := backend.(storage.Locatable); ok {
				where = l.Location()
			}
			fmt.Fprintf(c.App.Writer, "stored %d rows (%d games rejected) in %s\n", ds.Len(), len(failures), where)
			return nil
		},
	}
}

func logsRoot(c *cli.Context) string {
	if c.IsSet("logs") {
		return c.String("logs")
	}
	return config.GetString("logDir")
}

func buildDataset(ctx context.Context, e *env, root string) (*dataset.Dataset, []dataset.Failure, error) {
	runs, err := discovery.Discover(afero.NewOsFs(), root, e.logger)
	if err != nil {
		return nil, nil, err
	}

	builder := dataset.NewBuilder(
		dataset.WithLogger(e.logger),
		dataset.WithVocabulary(e.vocab),
		dataset.WithWorkers(config.GetInt("workers")),
		dataset.WithMeter(e.otel.Meter("")),
	)
	return builder.Build(ctx, runs)
}

// loadDataset rebuilds from --logs when given, otherwise reads the stored snapshot.
func loadDataset(c *cli.Context) (*dataset.Dataset, error) {
	e := envFrom(c)
	ctx := commandContext(c)
	if c.IsSet("logs") {
		ds, failures, err := buildDataset(ctx, e, c.String("logs"))
		if err != nil {
			return nil, err
		}
		if len(failures) > 0 {
			e.logger.WarnContext(ctx, "Games rejected while building", "count", len(failures))
		}
		return ds, nil
	}

	backend, err := storage.NewBackend(config.GetStorageConfig(), e.zlog)
	if err != nil {
		return nil, err
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer backend.Close()

	ds, err := backend.LoadDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset, run build first: %w", err)
	}
	e.logger.DebugContext(ctx, "Loaded dataset", "rows", ds.Len())
	return ds, nil
}

func printFailures(w io.Writer, failures []dataset.Failure) {
	for _, f := range failures {
		fmt.Fprintf(w, "rejected %s: %v\n", f.Source, f.Err)
	}
}
