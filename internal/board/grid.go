package board

import (
	"iter"
	"strconv"
)

type Position struct {
	Row, Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Row) + ":" + strconv.Itoa(p.Column)
}

func (p Position) add(o Position) Position {
	return Position{p.Row + o.Row, p.Column + o.Column}
}

// Neighbour directions, clockwise from up-left. Flood fill visits
// neighbours in this order.
var directions = [8]Position{
	{-1, -1}, {-1, 0}, {-1, +1},
	{0, +1},
	{+1, +1}, {+1, 0}, {+1, -1},
	{0, -1},
}

// grid is a row-major rows x columns array.
type grid[T any] struct {
	rows, columns int
	cells         []T
}

func newGrid[T any](rows, columns int, fill T) grid[T] {
	cells := make([]T, rows*columns)
	for i := range cells {
		cells[i] = fill
	}
	return grid[T]{rows: rows, columns: columns, cells: cells}
}

func (g grid[T]) contains(p Position) bool {
	return 0 <= p.Row && p.Row < g.rows && 0 <= p.Column && p.Column < g.columns
}

// panics [OutOfBoundsError]
func (g grid[T]) index(p Position) int {
	if !g.contains(p) {
		panic(OutOfBoundsError{p.Row, p.Column, g.rows, g.columns})
	}
	return p.Row*g.columns + p.Column
}

func (g grid[T]) at(p Position) T {
	return g.cells[g.index(p)]
}

func (g grid[T]) set(p Position, v T) {
	g.cells[g.index(p)] = v
}

// neighbours yields the in-bounds neighbours of p.
func (g grid[T]) neighbours(p Position) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for _, d := range directions {
			n := p.add(d)
			if g.contains(n) && !yield(n) {
				return
			}
		}
	}
}
