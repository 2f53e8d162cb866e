// Package heatmap folds event positions into board-sized occurrence grids.
package heatmap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pommerman/eventstats/pkg/core"
)

// Grid counts events per board cell, indexed [x][y].
type Grid [core.GridSize][core.GridSize]int

// Add increments the cell at c. Cells off the board are ignored.
func (g *Grid) Add(c core.Coordinate) {
	if !c.Valid() {
		return
	}
	g[c.X][c.Y]++
}

// Merge adds every cell of other into g.
func (g *Grid) Merge(other Grid) {
	for x := range g {
		for y := range g[x] {
			g[x][y] += other[x][y]
		}
	}
}

// Sum returns the total number of counted events.
func (g Grid) Sum() int {
	total := 0
	for x := range g {
		for y := range g[x] {
			total += g[x][y]
		}
	}
	return total
}

// Max returns the largest cell count.
func (g Grid) Max() int {
	m := 0
	for x := range g {
		for y := range g[x] {
			m = max(m, g[x][y])
		}
	}
	return m
}

// At returns the count at c, zero off the board.
func (g Grid) At(c core.Coordinate) int {
	if !c.Valid() {
		return 0
	}
	return g[c.X][c.Y]
}

// Rows returns the grid as image rows: Rows()[y][x].
func (g Grid) Rows() [][]int {
	rows := make([][]int, core.GridSize)
	for y := range rows {
		rows[y] = make([]int, core.GridSize)
		for x := 0; x < core.GridSize; x++ {
			rows[y][x] = g[x][y]
		}
	}
	return rows
}

// WriteCSV writes one line per board row, y ascending.
func (g Grid) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, row := range g.Rows() {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = strconv.Itoa(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write heatmap row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
