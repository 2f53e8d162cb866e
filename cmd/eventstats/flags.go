package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/pommerman/eventstats/internal/query"
	"github.com/pommerman/eventstats/pkg/core"
)

func logsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "logs",
		Usage: "root directory of the simulator logs (defaults to logDir from the configuration)",
	}
}

func kindFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "kind",
		Usage:    "event kind: bomb, death or pickup",
		Required: true,
	}
}

func modeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "mode",
		Usage: "game mode: ffa or team",
		Value: "ffa",
	}
}

func obsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "obs",
		Usage:    "vision radius, or -1 for fully observable",
		Required: true,
	}
}

func agentFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "agent",
		Usage:    "agent type id or configured name",
		Required: true,
	}
}

func seedFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:  "seed",
		Usage: "restrict to one seed, -1 for all seeds",
		Value: query.AllSeeds,
	}
}

// parseAgent accepts a numeric agent id or a configured agent name.
func parseAgent(vocab core.Vocabulary, s string) (core.AgentType, error) {
	if id, err := strconv.Atoi(s); err == nil {
		agent := core.AgentType(id)
		return agent, vocab.ValidateAgent(agent)
	}
	return vocab.AgentByName(s)
}

// parseSelection reads the mode and radius flags shared by the query commands.
func parseSelection(c *cli.Context, vocab core.Vocabulary) (core.GameMode, core.Observability, error) {
	mode, err := core.ParseGameMode(c.String("mode"))
	if err != nil {
		return 0, 0, fmt.Errorf("--mode: %w", err)
	}
	obs, err := core.ParseObservability(c.String("obs"))
	if err != nil {
		return 0, 0, fmt.Errorf("--obs: %w", err)
	}
	if err := vocab.ValidateObservability(obs); err != nil {
		return 0, 0, fmt.Errorf("--obs: %w", err)
	}
	return mode, obs, nil
}
