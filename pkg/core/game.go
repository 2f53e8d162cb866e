// pkg/core/game.go
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// RosterSize is the number of seats in every game.
const RosterSize = 4

// GameMode is the simulator's game mode.
type GameMode int

const (
	FreeForAll GameMode = iota
	Team
)

// GameModes lists every mode.
var GameModes = []GameMode{FreeForAll, Team}

func (m GameMode) String() string {
	switch m {
	case FreeForAll:
		return "FFA"
	case Team:
		return "TEAM"
	default:
		return fmt.Sprintf("GameMode(%d)", int(m))
	}
}

// ParseGameMode accepts the numeric simulator argument or the mode name.
func ParseGameMode(s string) (GameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "ffa":
		return FreeForAll, nil
	case "1", "team":
		return Team, nil
	}
	return 0, &UnknownVocabularyError{Vocabulary: "game mode", Value: s}
}

// Observability is an agent vision radius.
type Observability int

// FullyObservable is the sentinel radius for unrestricted vision.
const FullyObservable Observability = -1

func (o Observability) String() string {
	if o == FullyObservable {
		return "OBSERVABLE"
	}
	return "PO" + strconv.Itoa(int(o))
}

// ParseObservability accepts "-1", "observable", an integer radius or "PO<r>".
func ParseObservability(s string) (Observability, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch v {
	case "-1", "OBSERVABLE", "FULL":
		return FullyObservable, nil
	}
	v = strings.TrimPrefix(v, "PO")
	r, err := strconv.Atoi(v)
	if err != nil || r <= 0 {
		return 0, &UnknownVocabularyError{Vocabulary: "observability", Value: s}
	}
	return Observability(r), nil
}

// AgentType identifies an agent strategy; names come from the Vocabulary.
type AgentType int

// Roster is the seat assignment of one game: seat i is played by Roster[i].
type Roster [RosterSize]AgentType

// Seats returns every seat occupied by agent, in seat order.
func (r Roster) Seats(agent AgentType) []int {
	var seats []int
	for i, a := range r {
		if a == agent {
			seats = append(seats, i)
		}
	}
	return seats
}

// Contains reports whether agent occupies at least one seat.
func (r Roster) Contains(agent AgentType) bool {
	for _, a := range r {
		if a == agent {
			return true
		}
	}
	return false
}

// AgentAt returns the agent type seated at seat.
func (r Roster) AgentAt(seat int) (AgentType, bool) {
	if seat < 0 || seat >= RosterSize {
		return 0, false
	}
	return r[seat], true
}

// RunConfig is the experimental configuration shared by the games of one run.
type RunConfig struct {
	Mode          GameMode      `json:"mode"`
	Reps          int           `json:"reps"`
	Observability Observability `json:"observability"`
	Roster        Roster        `json:"roster"`
}

func (c RunConfig) String() string {
	ids := make([]string, len(c.Roster))
	for i, a := range c.Roster {
		ids[i] = strconv.Itoa(int(a))
	}
	return fmt.Sprintf("%s/%s/[%s]", c.Mode, c.Observability, strings.Join(ids, ","))
}

// GameIdentity distinguishes games within a run.
type GameIdentity struct {
	Seed     int64 `json:"seed"`
	Instance int   `json:"instance"`
}

func (g GameIdentity) String() string {
	return fmt.Sprintf("%d_%d", g.Seed, g.Instance)
}

// GameRow holds the events of one kind for one game. Rows are built once and
// never mutated; Events hands out a copy.
type GameRow struct {
	Config   RunConfig
	Game     GameIdentity
	Kind     EventKind
	LastTick int
	events   []Event
}

// NewGameRow builds a row owning a copy of events.
func NewGameRow(cfg RunConfig, game GameIdentity, kind EventKind, lastTick int, events []Event) *GameRow {
	owned := make([]Event, len(events))
	copy(owned, events)
	return &GameRow{
		Config:   cfg,
		Game:     game,
		Kind:     kind,
		LastTick: lastTick,
		events:   owned,
	}
}

// Events returns a copy of the row's event collection.
func (r *GameRow) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// EachEvent calls fn for every event without copying the collection.
func (r *GameRow) EachEvent(fn func(Event)) {
	for _, e := range r.events {
		fn(e)
	}
}

// Len returns the number of events in the row.
func (r *GameRow) Len() int {
	return len(r.events)
}
