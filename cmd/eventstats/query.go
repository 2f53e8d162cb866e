package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/pommerman/eventstats/internal/query"
	"github.com/pommerman/eventstats/pkg/core"
)

func countCommand() *cli.Command {
	return &cli.Command{
		Name:  "count",
		Usage: "mean events per agent seat and game with a 95% confidence interval",
		Flags: []cli.Flag{logsFlag(), kindFlag(), modeFlag(), obsFlag(), agentFlag(), seedFlag()},
		Action: func(c *cli.Context) error {
			kind, err := core.ParseEventKind(c.String("kind"))
			if err != nil {
				return fmt.Errorf("--kind: %w", err)
			}
			return runQuery(c, kind, (*query.Engine).CountEvents)
		},
	}
}

func suicideCommand() *cli.Command {
	return &cli.Command{
		Name:  "suicide",
		Usage: "self-elimination percentage per agent seat and game",
		Flags: []cli.Flag{logsFlag(), modeFlag(), obsFlag(), agentFlag(), seedFlag()},
		Action: func(c *cli.Context) error {
			return runQuery(c, core.Elimination, (*query.Engine).SuicideRate)
		},
	}
}

func runQuery(c *cli.Context, kind core.EventKind, run func(*query.Engine, query.Query) (query.AggregateResult, error)) error {
	e := envFrom(c)
	mode, obs, err := parseSelection(c, e.vocab)
	if err != nil {
		return err
	}
	agent, err := parseAgent(e.vocab, c.String("agent"))
	if err != nil {
		return fmt.Errorf("--agent: %w", err)
	}

	ds, err := loadDataset(c)
	if err != nil {
		return err
	}

	q := query.Query{Kind: kind, Mode: mode, Observability: obs, Agent: agent, Seed: c.Int64("seed")}
	res, err := run(query.NewEngine(ds), q)
	if err != nil {
		return err
	}
	e.logger.Info("Query answered", "query", q.String(), "samples", res.Count)

	printResult(c.App.Writer, e.vocab.AgentName(agent), res)
	return nil
}

func printResult(w io.Writer, label string, res query.AggregateResult) {
	lo, hi := res.Interval()
	fmt.Fprintf(w, "%s: mean %.4f ± %.4f [%.4f, %.4f] stderr %.4f (%d samples, %d games)\n",
		label, res.Mean, res.HalfWidth, lo, hi, res.StdErr, res.Count, res.Games)
}
