package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&GameRowRecord{},
	&EventRecord{},
}

// GameRowRecord is one (game, event kind) row of a dataset snapshot.
type GameRowRecord struct {
	gorm.Model
	// Position keeps the dataset order across a save/load cycle
	Position      int            `json:"position" gorm:"index"`
	Mode          int            `json:"mode" gorm:"index:idx_row_config"`
	Reps          int            `json:"reps"`
	Observability int            `json:"observability" gorm:"index:idx_row_config"`
	Roster        datatypes.JSON `json:"roster"`
	Seed          int64          `json:"seed" gorm:"index"`
	Instance      int            `json:"instance"`
	Kind          int            `json:"kind" gorm:"index:idx_row_config"`
	LastTick      int            `json:"lastTick"`
	Events        []EventRecord  `json:"events" gorm:"foreignKey:GameRowID;constraint:OnDelete:CASCADE"`
}

func (*GameRowRecord) TableName() string {
	return "game_rows"
}

// EventRecord is one event of a GameRowRecord.
type EventRecord struct {
	ID           uint    `json:"id" gorm:"primarykey"`
	GameRowID    uint    `json:"gameRowId" gorm:"index"`
	Seq          int     `json:"seq"`
	Kind         int     `json:"kind"`
	Tick         int     `json:"tick"`
	RelativeTick float64 `json:"relativeTick"`
	Seat         int     `json:"seat"`
	X            int     `json:"x"`
	Y            int     `json:"y"`
	Killer       int     `json:"killer"`
	Stuck        bool    `json:"stuck"`
	Pickup       string  `json:"pickup" gorm:"size:32"`
}

func (*EventRecord) TableName() string {
	return "events"
}
