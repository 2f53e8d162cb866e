package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pommerman/eventstats/pkg/core"
)

// Phrases that type a log line. Checked in this order.
const (
	phrasePlaced   = "placed a bomb"
	phraseDied     = "died"
	phrasePickedUp = "picked up"
	phraseStuck    = "(was stuck)"
)

var (
	coordinatePattern = regexp.MustCompile(`\(\s*(-?\d+)\s*,\s*(-?\d+)\s*\)`)
	bracketPattern    = regexp.MustCompile(`\[([^\[\]]*)\]`)
	upperTokenPattern = regexp.MustCompile(`\b[A-Z]+\b`)
)

// ParseLine extracts one event from a log line. The boolean is false when the
// line carries no event phrase; such lines are not errors.
func ParseLine(line string) (core.Event, bool, error) {
	line = strings.TrimSpace(line)

	var ev core.Event
	switch {
	case strings.Contains(line, phrasePlaced):
		ev.Kind = core.Placement
	case strings.Contains(line, phraseDied):
		ev.Kind = core.Elimination
	case strings.Contains(line, phrasePickedUp):
		ev.Kind = core.PickUp
	default:
		return ev, false, nil
	}

	tick, err := parseTick(line)
	if err != nil {
		return ev, true, err
	}
	ev.Tick = tick

	seat, err := parseSeat(line)
	if err != nil {
		return ev, true, err
	}
	ev.Seat = seat

	pos, err := parseCoordinate(line)
	if err != nil {
		return ev, true, err
	}
	ev.Position = pos

	switch ev.Kind {
	case core.Elimination:
		killer, err := parseKiller(line)
		if err != nil {
			return ev, true, err
		}
		ev.Killer = killer
		ev.Stuck = strings.Contains(line, phraseStuck)
	case core.PickUp:
		kind, err := parsePickup(line)
		if err != nil {
			return ev, true, err
		}
		ev.Pickup = kind
	}

	return ev, true, nil
}

// parseTick reads the integer preceding the first '|'.
func parseTick(line string) (int, error) {
	head, _, found := strings.Cut(line, "|")
	if !found {
		return 0, malformed(line, "tick", "no '|' delimiter")
	}
	head = strings.TrimSpace(head)
	if head == "" {
		return 0, malformed(line, "tick", "missing")
	}
	tick, err := strconv.Atoi(head)
	if err != nil {
		return 0, &MalformedLineError{Line: line, Field: "tick", Reason: "not an integer", Err: err}
	}
	if tick < 0 {
		return 0, malformed(line, "tick", "negative tick %d", tick)
	}
	return tick, nil
}

// parseSeat reads the single digit inside the first bracket group.
func parseSeat(line string) (int, error) {
	m := bracketPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, malformed(line, "seat", "no bracket group")
	}
	return seatDigit(line, "seat", strings.TrimSpace(m[1]))
}

// parseKiller reads the last digit of the last bracket group after "died".
func parseKiller(line string) (int, error) {
	idx := strings.Index(line, phraseDied)
	groups := bracketPattern.FindAllStringSubmatch(line[idx:], -1)
	if len(groups) == 0 {
		return 0, malformed(line, "killer", "no bracket group after %q", phraseDied)
	}
	content := strings.TrimSpace(groups[len(groups)-1][1])
	if content == "" {
		return 0, malformed(line, "killer", "empty bracket group")
	}
	return seatDigit(line, "killer", content[len(content)-1:])
}

func seatDigit(line, field, s string) (int, error) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, malformed(line, field, "%q is not a single digit", s)
	}
	seat := int(s[0] - '0')
	if seat >= core.RosterSize {
		return 0, malformed(line, field, "seat %d outside roster of %d", seat, core.RosterSize)
	}
	return seat, nil
}

func parseCoordinate(line string) (core.Coordinate, error) {
	m := coordinatePattern.FindStringSubmatch(line)
	if m == nil {
		return core.Coordinate{}, malformed(line, "coordinate", "no (x, y) group")
	}
	x, errX := strconv.Atoi(m[1])
	y, errY := strconv.Atoi(m[2])
	if errX != nil || errY != nil {
		return core.Coordinate{}, malformed(line, "coordinate", "%q is not an integer pair", m[0])
	}
	pos := core.Coordinate{X: x, Y: y}
	if !pos.Valid() {
		return pos, malformed(line, "coordinate", "%s outside the %dx%d board", pos, core.GridSize, core.GridSize)
	}
	return pos, nil
}

// parsePickup joins the upper-case tokens after "picked up".
func parsePickup(line string) (core.PickupKind, error) {
	_, rest, _ := strings.Cut(line, phrasePickedUp)
	tokens := upperTokenPattern.FindAllString(rest, -1)
	if len(tokens) == 0 {
		return "", malformed(line, "pickup", "missing item label")
	}
	label := strings.Join(tokens, " ")
	kind, err := core.ParsePickupKind(label)
	if err != nil {
		return "", &MalformedLineError{Line: line, Field: "pickup", Reason: err.Error(), Err: err}
	}
	return kind, nil
}
