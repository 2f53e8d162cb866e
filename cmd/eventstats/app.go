package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/pommerman/eventstats/internal/config"
	"github.com/pommerman/eventstats/internal/logging"
	intOtel "github.com/pommerman/eventstats/internal/otel"
	"github.com/pommerman/eventstats/pkg/core"
)

const appName = "eventstats"

// env carries what every command needs once the app is bootstrapped.
type env struct {
	start   time.Time
	logger  *slog.Logger
	zlog    zerolog.Logger
	vocab   core.Vocabulary
	otel    *intOtel.Provider
	closers []io.Closer
}

func newApp() *cli.App {
	return &cli.App{
		Name:  appName,
		Usage: "parse game event logs and compute per-agent statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "directory containing " + config.FileName,
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "overrides logLevel from the configuration",
			},
		},
		Before: bootstrap,
		After:  shutdown,
		Commands: []*cli.Command{
			buildCommand(),
			countCommand(),
			suicideCommand(),
			heatmapCommand(),
			reportCommand(),
		},
	}
}

func bootstrap(c *cli.Context) error {
	if err := config.Load(c.String("config")); err != nil {
		return err
	}
	if lvl := c.String("log-level"); lvl != "" {
		viper.Set("logLevel", lvl)
	}

	e := &env{start: time.Now(), logger: slog.Default()}
	c.App.Metadata = map[string]interface{}{"env": e}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	logFile, err := os.OpenFile(logging.LogFilePath(logsDir, appName, e.start), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	e.closers = append(e.closers, logFile)

	var gelfWriter io.Writer
	if gl := config.GetGraylogConfig(); gl.Enabled {
		w, err := gelf.NewWriter(gl.Address)
		if err != nil {
			// keep going with the file log only
			fmt.Fprintf(c.App.ErrWriter, "graylog unavailable at %s: %v\n", gl.Address, err)
		} else {
			gelfWriter = w
			e.closers = append(e.closers, w)
		}
	}

	level := config.GetString("logLevel")
	manager := logging.NewSlogManager().WithContext(logging.Elapsed(e.start))
	manager.Setup(logFile, level, gelfWriter)
	e.logger = manager.Logger()

	zlevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zlevel = zerolog.InfoLevel
	}
	e.zlog = zerolog.New(logFile).Level(zlevel).With().Timestamp().Logger()

	if e.vocab, err = config.GetVocabulary(); err != nil {
		return err
	}

	oc := config.GetOTelConfig()
	e.otel, err = intOtel.New(intOtel.Config{
		Enabled:        oc.Enabled,
		ServiceName:    oc.ServiceName,
		ExportInterval: oc.ExportInterval,
		MetricWriter:   logFile,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize OTel: %w", err)
	}

	e.logger.Debug("Bootstrapped", "command", c.Args().First(), "otel", e.otel.Enabled())
	return nil
}

func shutdown(c *cli.Context) error {
	e, ok := c.App.Metadata["env"].(*env)
	if !ok {
		return nil
	}
	e.logger.Info("Finished", "duration", time.Since(e.start).String())

	var errs []error
	if e.otel != nil {
		// metrics go to the log file, so stop the exporter first
		errs = append(errs, e.otel.Shutdown(context.Background()))
	}
	errs = append(errs, closeAll(e.closers))
	return errors.Join(errs...)
}

// closeAll closes in reverse order of opening and joins the failures.
func closeAll(closers []io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func envFrom(c *cli.Context) *env {
	return c.App.Metadata["env"].(*env)
}

// commandContext tags records logged with it by the running command.
func commandContext(c *cli.Context) context.Context {
	return logging.ContextWithAttrs(c.Context, slog.String("command", c.Command.Name))
}
