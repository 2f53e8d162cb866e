// Package discovery maps the simulator's log directory layout onto run
// configurations and game sources.
package discovery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pommerman/eventstats/pkg/core"
)

// GameFileSuffix marks an event log inside a run directory.
const GameFileSuffix = "_events.txt"

// ParseRunDirName decodes "<mode>-<reps>-<obs>-<a0>-<a1>-<a2>-<a3>". A
// negative observability leaves an empty field after splitting
// ("0-10--1-2-3-4-5") and decodes to the fully observable sentinel.
func ParseRunDirName(name string) (core.RunConfig, error) {
	var cfg core.RunConfig

	fields := strings.Split(name, "-")
	if len(fields) < 3 {
		return cfg, fmt.Errorf("run directory %q: expected mode, reps, observability and %d agents", name, core.RosterSize)
	}

	mode, err := strconv.Atoi(fields[0])
	if err != nil {
		return cfg, fmt.Errorf("run directory %q: invalid mode: %w", name, err)
	}
	cfg.Mode = core.GameMode(mode)

	if cfg.Reps, err = strconv.Atoi(fields[1]); err != nil {
		return cfg, fmt.Errorf("run directory %q: invalid reps: %w", name, err)
	}

	idx := 3
	if fields[2] == "" {
		cfg.Observability = core.FullyObservable
		idx = 4
		if len(fields) < idx || fields[3] != "1" {
			return cfg, fmt.Errorf("run directory %q: invalid negative observability", name)
		}
	} else {
		obs, err := strconv.Atoi(fields[2])
		if err != nil {
			return cfg, fmt.Errorf("run directory %q: invalid observability: %w", name, err)
		}
		cfg.Observability = core.Observability(obs)
	}

	agents := fields[idx:]
	if len(agents) != core.RosterSize {
		return cfg, fmt.Errorf("run directory %q: expected %d agents, got %d", name, core.RosterSize, len(agents))
	}
	for i, a := range agents {
		id, err := strconv.Atoi(a)
		if err != nil {
			return cfg, fmt.Errorf("run directory %q: invalid agent at seat %d: %w", name, i, err)
		}
		cfg.Roster[i] = core.AgentType(id)
	}
	return cfg, nil
}

// ParseGameFileName decodes "<seed>_<instance>_events.txt".
func ParseGameFileName(name string) (core.GameIdentity, error) {
	var id core.GameIdentity

	stem, ok := strings.CutSuffix(name, GameFileSuffix)
	if !ok {
		return id, fmt.Errorf("game file %q: missing %s suffix", name, GameFileSuffix)
	}
	seed, instance, ok := strings.Cut(stem, "_")
	if !ok {
		return id, fmt.Errorf("game file %q: expected <seed>_<instance>", name)
	}

	var err error
	if id.Seed, err = strconv.ParseInt(seed, 10, 64); err != nil {
		return id, fmt.Errorf("game file %q: invalid seed: %w", name, err)
	}
	if id.Instance, err = strconv.Atoi(instance); err != nil {
		return id, fmt.Errorf("game file %q: invalid instance: %w", name, err)
	}
	return id, nil
}
