// pkg/core/events.go
package core

import (
	"fmt"
	"strings"
)

// GridSize is the board edge length; coordinates live in [0, GridSize).
const GridSize = 11

// EventKind discriminates the three event variants extracted from game logs.
type EventKind int

const (
	Placement EventKind = iota
	Elimination
	PickUp
)

// EventKinds lists every kind in the order rows are emitted for a game.
var EventKinds = []EventKind{Placement, Elimination, PickUp}

// String returns the row id used by the analysis tooling.
func (k EventKind) String() string {
	switch k {
	case Placement:
		return "bomb"
	case Elimination:
		return "death"
	case PickUp:
		return "pickup"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// ParseEventKind accepts the row id ("bomb", "death", "pickup") or the kind name.
func ParseEventKind(s string) (EventKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bomb", "placement":
		return Placement, nil
	case "death", "elimination":
		return Elimination, nil
	case "pickup", "pick-up":
		return PickUp, nil
	}
	return 0, &UnknownVocabularyError{Vocabulary: "event kind", Value: s}
}

// PickupKind is an item label collected by an agent.
type PickupKind string

const (
	PickupAmmo          PickupKind = "AMMO"
	PickupBlastStrength PickupKind = "BLAST STRENGTH"
	PickupCanKick       PickupKind = "CAN KICK"
)

// PickupKinds is the closed set of item labels.
var PickupKinds = []PickupKind{PickupAmmo, PickupBlastStrength, PickupCanKick}

// ParsePickupKind validates an item label against PickupKinds.
func ParsePickupKind(label string) (PickupKind, error) {
	for _, k := range PickupKinds {
		if string(k) == label {
			return k, nil
		}
	}
	return "", &UnknownVocabularyError{Vocabulary: "pickup kind", Value: label}
}

// Coordinate is a board cell.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Valid reports whether the cell lies on the board.
func (c Coordinate) Valid() bool {
	return c.X >= 0 && c.X < GridSize && c.Y >= 0 && c.Y < GridSize
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Event is one occurrence inside a game. Killer and Stuck are meaningful for
// Elimination only, Pickup for PickUp only.
type Event struct {
	Kind         EventKind  `json:"kind"`
	Tick         int        `json:"tick"`
	RelativeTick float64    `json:"relativeTick"`
	Seat         int        `json:"seat"`
	Position     Coordinate `json:"position"`

	Killer int        `json:"killer,omitempty"`
	Stuck  bool       `json:"stuck,omitempty"`
	Pickup PickupKind `json:"pickup,omitempty"`
}

// IsSuicide reports a self-elimination.
func (e Event) IsSuicide() bool {
	return e.Kind == Elimination && e.Killer == e.Seat
}
