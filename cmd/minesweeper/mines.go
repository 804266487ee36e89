package main

import (
	"math/rand/v2"

	"github.com/vancomm/minesweeper/internal/board"
)

// placeMines picks count distinct cells of a rows x columns board, never
// choosing safe. count is clamped to the cells available.
func placeMines(r *rand.Rand, rows, columns, count int, safe board.Position) []board.Position {
	cells := make([]board.Position, 0, rows*columns)
	for row := range rows {
		for column := range columns {
			if p := (board.Position{Row: row, Column: column}); p != safe {
				cells = append(cells, p)
			}
		}
	}
	count = max(0, min(count, len(cells)))

	// partial Fisher-Yates
	for i := range count {
		j := i + r.IntN(len(cells)-i)
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells[:count]
}
