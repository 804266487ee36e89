// Package board implements the minesweeper rules: mine layout, adjacency
// counts, flood-fill reveal, marking and win/loss evaluation.
//
// A Board is single-owner. It does no locking; callers sharing one between
// goroutines must serialize access themselves.
package board

import "iter"

type Board struct {
	status   grid[CellStatus]
	property grid[CellProperty]
	mines    []Position

	// Counters kept in step with status so that evaluate is O(1).
	unsatisfied int // cells that are Closed or MarkedAsSuspectedMine
	exploded    int // mines that are Opened
	marked      int // cells that are MarkedAsMine

	gameStatus GameStatus
}

// New builds a rows x columns board with mines at the given positions.
// Duplicate positions count once.
//
// panics [OutOfBoundsError] on non-positive dimensions or when a mine lies
// outside the board.
func New(rows, columns int, mines []Position) *Board {
	if rows <= 0 || columns <= 0 {
		panic(OutOfBoundsError{Rows: rows, Columns: columns})
	}
	b := &Board{
		status:      newGrid(rows, columns, Closed),
		property:    newGrid(rows, columns, Empty),
		mines:       make([]Position, 0, len(mines)),
		unsatisfied: rows * columns,
	}
	for _, m := range mines {
		if b.property.at(m) == Mine {
			continue
		}
		b.property.set(m, Mine)
		b.mines = append(b.mines, m)
	}
	for _, m := range b.mines {
		for n := range b.property.neighbours(m) {
			if c := b.property.at(n); c != Mine {
				b.property.set(n, c+1)
			}
		}
	}
	b.evaluate()
	return b
}

func (b *Board) Rows() int    { return b.status.rows }
func (b *Board) Columns() int { return b.status.columns }

func (b *Board) InBounds(row, column int) bool {
	return b.status.contains(Position{row, column})
}

// Neighbours yields the in-bounds neighbours of a cell, clockwise from
// up-left.
//
// panics [OutOfBoundsError]
func (b *Board) Neighbours(row, column int) iter.Seq[Position] {
	p := Position{row, column}
	b.status.index(p)
	return b.status.neighbours(p)
}

func (b *Board) MineCount() int {
	return len(b.mines)
}

// Mines returns the mine positions in the order they were first listed.
func (b *Board) Mines() []Position {
	mines := make([]Position, len(b.mines))
	copy(mines, b.mines)
	return mines
}

// MinesLeft is the mine count minus the number of cells marked as mines.
// It goes negative when the player over-marks.
func (b *Board) MinesLeft() int {
	return len(b.mines) - b.marked
}

func (b *Board) Status(row, column int) CellStatus {
	return b.status.at(Position{row, column})
}

func (b *Board) Property(row, column int) CellProperty {
	return b.property.at(Position{row, column})
}

func (b *Board) GameStatus() GameStatus {
	return b.gameStatus
}

// Reveal opens a closed cell and returns every cell it opened. Opening an
// empty cell opens its neighbours too, cascading through connected empty
// cells. Cells that are not closed are left alone and nil is returned.
//
// panics [OutOfBoundsError]
func (b *Board) Reveal(row, column int) []Position {
	start := Position{row, column}
	if b.status.at(start) != Closed {
		return nil
	}
	opened := b.flood(start)
	b.evaluate()
	return opened
}

// flood opens start and cascades through empty cells. The status grid is
// the visited set: only Closed cells are opened or pushed.
func (b *Board) flood(start Position) []Position {
	var (
		opened []Position
		stack  = []Position{start}
	)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if b.status.at(p) != Closed {
			continue
		}
		b.setStatus(p, Opened)
		opened = append(opened, p)

		switch c := b.property.at(p); {
		case c == Mine:
			// Empty cells have no mine neighbours, so only start gets here.
			return opened
		case c == Empty:
			// Pushed in reverse so neighbours are popped in direction order.
			for i := len(directions) - 1; i >= 0; i-- {
				n := p.add(directions[i])
				if b.status.contains(n) && b.status.at(n) == Closed {
					stack = append(stack, n)
				}
			}
		}
	}
	return opened
}

// SetStatus moves a cell along one of the legal transitions:
//
//	MarkedAsMine          -> MarkedAsSuspectedMine
//	MarkedAsSuspectedMine -> Closed
//	Closed                -> MarkedAsMine
//	Closed                -> Opened
//
// Any other request is ignored. Closed -> Opened does not cascade; opening
// a mine this way still loses the game.
//
// panics [OutOfBoundsError]
func (b *Board) SetStatus(row, column int, status CellStatus) {
	p := Position{row, column}
	if legalTransition(b.status.at(p), status) {
		b.setStatus(p, status)
	}
	b.evaluate()
}

func legalTransition(from, to CellStatus) bool {
	switch from {
	case MarkedAsMine:
		return to == MarkedAsSuspectedMine
	case MarkedAsSuspectedMine:
		return to == Closed
	case Closed:
		return to == MarkedAsMine || to == Opened
	case Opened:
		return false
	default:
		panic(AssertionError{"unknown cell status " + from.String()})
	}
}

// CycleMark steps a cell through Closed, MarkedAsMine and
// MarkedAsSuspectedMine and returns its new status. Opened cells stay
// opened.
//
// panics [OutOfBoundsError]
func (b *Board) CycleMark(row, column int) CellStatus {
	var next CellStatus
	switch current := b.Status(row, column); current {
	case Closed:
		next = MarkedAsMine
	case MarkedAsMine:
		next = MarkedAsSuspectedMine
	case MarkedAsSuspectedMine:
		next = Closed
	case Opened:
		return Opened
	default:
		panic(AssertionError{"unknown cell status " + current.String()})
	}
	b.SetStatus(row, column, next)
	return b.Status(row, column)
}

// Chord reveals the closed neighbours of an opened numbered cell once as
// many neighbours are marked as mines as the cell's count says. It stops
// at the first mine it opens.
//
// panics [OutOfBoundsError]
func (b *Board) Chord(row, column int) []Position {
	p := Position{row, column}
	count := b.property.at(p)
	if b.status.at(p) != Opened || count == Mine || count == Empty {
		return nil
	}

	var (
		marked int
		closed = make([]Position, 0, len(directions))
	)
	for n := range b.status.neighbours(p) {
		switch b.status.at(n) {
		case MarkedAsMine:
			marked++
		case Closed:
			closed = append(closed, n)
		}
	}
	if marked != count.AdjacentMines() {
		return nil
	}

	var opened []Position
	for _, n := range closed {
		opened = append(opened, b.flood(n)...)
		if b.exploded > 0 {
			break
		}
	}
	b.evaluate()
	return opened
}

func (b *Board) setStatus(p Position, status CellStatus) {
	current := b.status.at(p)
	if current == status {
		return
	}
	if current.unsatisfied() {
		b.unsatisfied--
	}
	if status.unsatisfied() {
		b.unsatisfied++
	}
	if current == MarkedAsMine {
		b.marked--
	}
	if status == MarkedAsMine {
		b.marked++
	}
	if b.property.at(p) == Mine {
		if current == Opened {
			b.exploded--
		}
		if status == Opened {
			b.exploded++
		}
	}
	b.status.set(p, status)
}

// evaluate derives the game status from the counters. An opened mine
// always means Lost, so Lost is terminal: opened cells never close again.
func (b *Board) evaluate() {
	switch {
	case b.exploded > 0:
		b.gameStatus = Lost
	case b.unsatisfied == 0:
		b.gameStatus = Won
	default:
		b.gameStatus = InProgress
	}
}
