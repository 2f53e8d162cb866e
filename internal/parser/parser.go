package parser

import (
	"log/slog"
	"strings"

	"github.com/pommerman/eventstats/pkg/core"
)

// Game is the parsed content of one game log, partitioned by event kind.
type Game struct {
	LastTick     int
	Placements   []core.Event
	Eliminations []core.Event
	PickUps      []core.Event
}

// Events returns the collection holding events of kind.
func (g Game) Events(kind core.EventKind) []core.Event {
	switch kind {
	case core.Placement:
		return g.Placements
	case core.Elimination:
		return g.Eliminations
	case core.PickUp:
		return g.PickUps
	}
	return nil
}

// Parser provides pure []string -> Game conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

type numberedLine struct {
	number int
	text   string
}

// ParseGame parses the ordered lines of one game log. Any malformed line
// aborts the whole game; the returned error is a *GameError naming source.
func (p *Parser) ParseGame(source string, lines []string) (Game, error) {
	var game Game

	// log files end with a newline, so blank lines carry nothing
	kept := make([]numberedLine, 0, len(lines))
	for i, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			kept = append(kept, numberedLine{number: i + 1, text: t})
		}
	}
	if len(kept) == 0 {
		return game, &GameError{Source: source, Err: malformed("", "last event", "game log has no lines")}
	}

	final := kept[len(kept)-1]
	last, ok, err := ParseLine(final.text)
	if err != nil {
		return game, &GameError{Source: source, LineNumber: final.number, Err: err}
	}
	if !ok {
		return game, &GameError{
			Source:     source,
			LineNumber: final.number,
			Err:        malformed(final.text, "last event", "final line is not an event"),
		}
	}
	if last.Tick == 0 {
		return game, &GameError{
			Source:     source,
			LineNumber: final.number,
			Err:        malformed(final.text, "last tick", "last tick is 0, relative ticks undefined"),
		}
	}
	game.LastTick = last.Tick

	prevTick := 0
	for _, l := range kept {
		ev, ok, err := ParseLine(l.text)
		if err != nil {
			return Game{}, &GameError{Source: source, LineNumber: l.number, Err: err}
		}
		if !ok {
			continue
		}
		if ev.Tick < prevTick {
			return Game{}, &GameError{
				Source:     source,
				LineNumber: l.number,
				Err:        malformed(l.text, "tick", "tick decreases from %d to %d", prevTick, ev.Tick),
			}
		}
		prevTick = ev.Tick
		ev.RelativeTick = float64(ev.Tick) / float64(game.LastTick)

		switch ev.Kind {
		case core.Placement:
			game.Placements = append(game.Placements, ev)
		case core.Elimination:
			game.Eliminations = append(game.Eliminations, ev)
		case core.PickUp:
			game.PickUps = append(game.PickUps, ev)
		}
	}

	p.logger.Debug("Parsed game log",
		"source", source,
		"lastTick", game.LastTick,
		"placements", len(game.Placements),
		"eliminations", len(game.Eliminations),
		"pickups", len(game.PickUps))

	return game, nil
}
