package heatmap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pommerman/eventstats/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(seat, x, y int) core.Event {
	return core.Event{Kind: core.Placement, Seat: seat, Position: core.Coordinate{X: x, Y: y}}
}

func TestAccumulate_Empty(t *testing.T) {
	g := Accumulate()
	assert.Equal(t, Grid{}, g)
	assert.Equal(t, 0, g.Sum())

	g = Accumulate(nil, []core.Event{})
	assert.Equal(t, Grid{}, g)
}

func TestAccumulate_CountsAndOrder(t *testing.T) {
	a := []core.Event{at(0, 1, 1), at(1, 1, 1), at(2, 10, 0)}
	b := []core.Event{at(3, 0, 10), at(0, 1, 1)}

	g := Accumulate(a, b)
	assert.Equal(t, 5, g.Sum())
	assert.Equal(t, 3, g.At(core.Coordinate{X: 1, Y: 1}))
	assert.Equal(t, 1, g[10][0])
	assert.Equal(t, 1, g[0][10])
	assert.Equal(t, 3, g.Max())

	assert.Equal(t, g, Accumulate(b, a))
}

func TestAccumulateRows_ForAgent(t *testing.T) {
	cfg := core.RunConfig{Roster: core.Roster{4, 5, 4, 2}}
	rows := []*core.GameRow{
		core.NewGameRow(cfg, core.GameIdentity{Seed: 1}, core.Placement, 9, []core.Event{at(0, 2, 2), at(1, 3, 3), at(2, 2, 2)}),
		core.NewGameRow(cfg, core.GameIdentity{Seed: 2}, core.Placement, 9, []core.Event{at(3, 4, 4), at(2, 5, 5)}),
	}

	all := AccumulateRows(rows)
	assert.Equal(t, 5, all.Sum())

	rhea := AccumulateRows(rows, ForAgent(4))
	assert.Equal(t, 3, rhea.Sum())
	assert.Equal(t, 2, rhea.At(core.Coordinate{X: 2, Y: 2}))
	assert.Equal(t, 1, rhea.At(core.Coordinate{X: 5, Y: 5}))

	assert.Equal(t, Grid{}, AccumulateRows(rows, ForAgent(0)))

	per := PerAgent(rows, 4, 5, 2)
	require.Len(t, per, 3)
	assert.Equal(t, rhea, per[4])
	assert.Equal(t, 1, per[5].Sum())
	assert.Equal(t, 1, per[2].Sum())

	var merged Grid
	for _, g := range per {
		merged.Merge(g)
	}
	assert.Equal(t, all, merged)
}

func TestGrid_AddIgnoresOffBoard(t *testing.T) {
	var g Grid
	g.Add(core.Coordinate{X: -1, Y: 0})
	g.Add(core.Coordinate{X: 0, Y: core.GridSize})
	assert.Equal(t, 0, g.Sum())
	assert.Equal(t, 0, g.At(core.Coordinate{X: 11, Y: 11}))
}

func TestGrid_WriteCSV(t *testing.T) {
	var g Grid
	g.Add(core.Coordinate{X: 2, Y: 0})
	g.Add(core.Coordinate{X: 2, Y: 0})
	g.Add(core.Coordinate{X: 0, Y: 1})

	var buf bytes.Buffer
	require.NoError(t, g.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, core.GridSize)
	assert.Equal(t, "0,0,2,0,0,0,0,0,0,0,0", lines[0])
	assert.Equal(t, "1,0,0,0,0,0,0,0,0,0,0", lines[1])

	rows := g.Rows()
	assert.Equal(t, 2, rows[0][2])
	assert.Equal(t, 1, rows[1][0])
}
