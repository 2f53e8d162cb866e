// Package v1 contains the v1 JSON snapshot format for datasets.
package v1

import "github.com/pommerman/eventstats/pkg/core"

// Version is written to and required from every v1 document.
const Version = 1

// Export is the root JSON structure for v1 format
type Export struct {
	Version     int    `json:"version"`
	GeneratedAt string `json:"generatedAt"`
	Rows        []Row  `json:"rows"`
}

// Row is one (game, event kind) row. Kind uses the row ids "bomb", "death"
// and "pickup".
type Row struct {
	Mode          int          `json:"mode"`
	Reps          int          `json:"reps"`
	Observability int          `json:"observability"`
	Agents        [4]int       `json:"agents"`
	Seed          int64        `json:"seed"`
	Instance      int          `json:"instance"`
	Kind          string       `json:"kind"`
	LastTick      int          `json:"lastTick"`
	Events        []core.Event `json:"events"`
}
