package board

import (
	"strconv"
	"strings"
)

// CellStatus is what the player knows about a cell.
type CellStatus int8

const (
	Closed CellStatus = iota
	Opened
	MarkedAsMine
	MarkedAsSuspectedMine
)

func (s CellStatus) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Opened:
		return "Opened"
	case MarkedAsMine:
		return "MarkedAsMine"
	case MarkedAsSuspectedMine:
		return "MarkedAsSuspectedMine"
	default:
		return "CellStatus(" + strconv.Itoa(int(s)) + ")"
	}
}

// ParseCellStatus accepts the names returned by [CellStatus.String],
// ignoring case.
func ParseCellStatus(s string) (CellStatus, bool) {
	for _, status := range []CellStatus{
		Closed, Opened, MarkedAsMine, MarkedAsSuspectedMine,
	} {
		if strings.EqualFold(status.String(), s) {
			return status, true
		}
	}
	return Closed, false
}

// unsatisfied reports whether a cell in this status keeps the game from
// being won.
func (s CellStatus) unsatisfied() bool {
	switch s {
	case Closed, MarkedAsSuspectedMine:
		return true
	case Opened, MarkedAsMine:
		return false
	default:
		panic(AssertionError{"unknown cell status " + s.String()})
	}
}

// CellProperty is the ground truth of a cell: either [Mine] or the number
// of mines among its neighbours, [Empty] being zero.
type CellProperty int8

const (
	Mine  CellProperty = -1
	Empty CellProperty = 0
)

func (p CellProperty) IsMine() bool {
	return p == Mine
}

// AdjacentMines returns the neighbour mine count, or -1 for a mine.
func (p CellProperty) AdjacentMines() int {
	return int(p)
}

func (p CellProperty) String() string {
	switch {
	case p == Mine:
		return "Mine"
	case p == Empty:
		return "Empty"
	case 1 <= p && p <= 8:
		return strconv.Itoa(int(p))
	default:
		return "CellProperty(" + strconv.Itoa(int(p)) + ")"
	}
}

type GameStatus int8

const (
	InProgress GameStatus = iota
	Won
	Lost
)

func (s GameStatus) String() string {
	switch s {
	case InProgress:
		return "InProgress"
	case Won:
		return "Won"
	case Lost:
		return "Lost"
	default:
		return "GameStatus(" + strconv.Itoa(int(s)) + ")"
	}
}
