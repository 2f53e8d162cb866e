// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/pommerman/eventstats/internal/model"
	"github.com/pommerman/eventstats/pkg/core"
)

// CoreToGameRowRecord converts a core.GameRow to a GORM record placed at position.
func CoreToGameRowRecord(position int, r *core.GameRow) (model.GameRowRecord, error) {
	roster, err := json.Marshal(r.Config.Roster)
	if err != nil {
		return model.GameRowRecord{}, fmt.Errorf("failed to encode roster: %w", err)
	}

	rec := model.GameRowRecord{
		Position:      position,
		Mode:          int(r.Config.Mode),
		Reps:          r.Config.Reps,
		Observability: int(r.Config.Observability),
		Roster:        datatypes.JSON(roster),
		Seed:          r.Game.Seed,
		Instance:      r.Game.Instance,
		Kind:          int(r.Kind),
		LastTick:      r.LastTick,
		Events:        make([]model.EventRecord, 0, r.Len()),
	}

	seq := 0
	r.EachEvent(func(e core.Event) {
		rec.Events = append(rec.Events, CoreToEventRecord(seq, e))
		seq++
	})
	return rec, nil
}

// CoreToEventRecord converts a core.Event to a GORM record.
func CoreToEventRecord(seq int, e core.Event) model.EventRecord {
	return model.EventRecord{
		Seq:          seq,
		Kind:         int(e.Kind),
		Tick:         e.Tick,
		RelativeTick: e.RelativeTick,
		Seat:         e.Seat,
		X:            e.Position.X,
		Y:            e.Position.Y,
		Killer:       e.Killer,
		Stuck:        e.Stuck,
		Pickup:       string(e.Pickup),
	}
}
