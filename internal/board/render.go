package board

import "strings"

// Symbols used by [Board.Render].
const (
	SymbolClosed          = '#'
	SymbolMarked          = 'F'
	SymbolSuspected       = '?'
	SymbolEmpty           = '.'
	SymbolExploded        = 'X'
	SymbolFalselyMarked   = 'x'
	SymbolUnmarkedMine    = 'o'
	SymbolCorrectlyMarked = 'M'
)

// Render draws the board one row per line, cells separated by spaces.
// With showMines set, the ground truth under closed and marked cells is
// drawn as well, the way a finished game is shown.
func (b *Board) Render(showMines bool) string {
	var sb strings.Builder
	for row := range b.status.rows {
		for column := range b.status.columns {
			if column > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(b.symbol(Position{row, column}, showMines))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Board implements [fmt.Stringer]
func (b *Board) String() string {
	return b.Render(false)
}

func (b *Board) symbol(p Position, showMines bool) rune {
	var (
		status   = b.status.at(p)
		property = b.property.at(p)
	)
	switch status {
	case Opened:
		switch {
		case property == Mine:
			return SymbolExploded
		case property == Empty:
			return SymbolEmpty
		default:
			return rune('0' + property)
		}
	case MarkedAsMine:
		if showMines {
			if property == Mine {
				return SymbolCorrectlyMarked
			}
			return SymbolFalselyMarked
		}
		return SymbolMarked
	case MarkedAsSuspectedMine:
		if showMines && property == Mine {
			return SymbolUnmarkedMine
		}
		return SymbolSuspected
	case Closed:
		if showMines && property == Mine {
			return SymbolUnmarkedMine
		}
		return SymbolClosed
	default:
		panic(AssertionError{"unknown cell status " + status.String()})
	}
}
