package convert

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pommerman/eventstats/internal/model"
	"github.com/pommerman/eventstats/pkg/core"
)

// GameRowRecordToCore converts a GORM record back to a core.GameRow. Events
// are ordered by their sequence number.
func GameRowRecordToCore(rec model.GameRowRecord) (*core.GameRow, error) {
	var roster core.Roster
	if err := json.Unmarshal(rec.Roster, &roster); err != nil {
		return nil, fmt.Errorf("game row %d: failed to decode roster: %w", rec.ID, err)
	}

	records := make([]model.EventRecord, len(rec.Events))
	copy(records, rec.Events)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Seq < records[j].Seq })

	events := make([]core.Event, len(records))
	for i, e := range records {
		if e.Kind != rec.Kind {
			return nil, fmt.Errorf("game row %d: event %d has kind %s in a %s row",
				rec.ID, e.Seq, core.EventKind(e.Kind), core.EventKind(rec.Kind))
		}
		events[i] = EventRecordToCore(e)
	}

	cfg := core.RunConfig{
		Mode:          core.GameMode(rec.Mode),
		Reps:          rec.Reps,
		Observability: core.Observability(rec.Observability),
		Roster:        roster,
	}
	game := core.GameIdentity{Seed: rec.Seed, Instance: rec.Instance}
	return core.NewGameRow(cfg, game, core.EventKind(rec.Kind), rec.LastTick, events), nil
}

// EventRecordToCore converts a GORM event record to a core.Event.
func EventRecordToCore(e model.EventRecord) core.Event {
	return core.Event{
		Kind:         core.EventKind(e.Kind),
		Tick:         e.Tick,
		RelativeTick: e.RelativeTick,
		Seat:         e.Seat,
		Position:     core.Coordinate{X: e.X, Y: e.Y},
		Killer:       e.Killer,
		Stuck:        e.Stuck,
		Pickup:       core.PickupKind(e.Pickup),
	}
}
