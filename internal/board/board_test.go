package board

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func naiveAdjacentMines(rows, columns int, mined map[Position]bool, p Position) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			n := Position{p.Row + dr, p.Column + dc}
			if (dr != 0 || dc != 0) &&
				0 <= n.Row && n.Row < rows && 0 <= n.Column && n.Column < columns &&
				mined[n] {
				count++
			}
		}
	}
	return count
}

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name          string
		rows, columns int
		mineCount     int
	}{
		{"1x1(0)", 1, 1, 0},
		{"1x1(1)", 1, 1, 1},
		{"9x9(10)", 9, 9, 10},
		{"16x16(40)", 16, 16, 40},
		{"16x30(99)", 16, 30, 99},
		{"4x4(16)", 4, 4, 16},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := rand.New(rand.NewPCG(1, 2))
			cells := make([]Position, 0, test.rows*test.columns)
			for row := range test.rows {
				for column := range test.columns {
					cells = append(cells, Position{row, column})
				}
			}
			r.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
			mines := cells[:test.mineCount]
			mined := make(map[Position]bool, len(mines))
			for _, m := range mines {
				mined[m] = true
			}

			b := New(test.rows, test.columns, mines)

			assert.Equal(t, test.rows, b.Rows())
			assert.Equal(t, test.columns, b.Columns())
			assert.Equal(t, test.mineCount, b.MineCount())
			assert.Equal(t, InProgress, b.GameStatus())
			for row := range test.rows {
				for column := range test.columns {
					p := Position{row, column}
					assert.Equal(t, Closed, b.Status(row, column), p)
					if mined[p] {
						assert.Equal(t, Mine, b.Property(row, column), p)
					} else {
						assert.Equal(t,
							naiveAdjacentMines(test.rows, test.columns, mined, p),
							b.Property(row, column).AdjacentMines(), p,
						)
					}
				}
			}
		})
	}
}

func TestNewBoardDuplicateMines(t *testing.T) {
	b := New(2, 2, []Position{{0, 0}, {0, 0}})

	assert.Equal(t, 1, b.MineCount())
	assert.Equal(t, CellProperty(1), b.Property(0, 1))
	assert.Equal(t, CellProperty(1), b.Property(1, 1))
	assert.Equal(t, []Position{{0, 0}}, b.Mines())
}

func TestNewBoardPanics(t *testing.T) {
	assert.Panics(t, func() { New(0, 3, nil) })
	assert.Panics(t, func() { New(3, -1, nil) })
	assert.PanicsWithValue(t,
		OutOfBoundsError{Row: 3, Column: 0, Rows: 3, Columns: 3},
		func() { New(3, 3, []Position{{3, 0}}) },
	)
}

func TestAccessorsPanicOutOfBounds(t *testing.T) {
	b := New(2, 3, nil)
	want := OutOfBoundsError{Row: 2, Column: 1, Rows: 2, Columns: 3}

	assert.PanicsWithValue(t, want, func() { b.Status(2, 1) })
	assert.PanicsWithValue(t, want, func() { b.Property(2, 1) })
	assert.PanicsWithValue(t, want, func() { b.Reveal(2, 1) })
	assert.PanicsWithValue(t, want, func() { b.SetStatus(2, 1, MarkedAsMine) })
	assert.Panics(t, func() { b.Reveal(0, -1) })
	assert.Panics(t, func() { b.Chord(-1, 0) })
	assert.False(t, b.InBounds(2, 1))
	assert.True(t, b.InBounds(1, 2))
}

func TestRevealMine(t *testing.T) {
	b := New(3, 3, []Position{{0, 0}, {2, 2}})

	opened := b.Reveal(0, 0)

	assert.Equal(t, []Position{{0, 0}}, opened)
	assert.Equal(t, Opened, b.Status(0, 0))
	assert.Equal(t, Lost, b.GameStatus())
}

func TestRevealMineAfterCascade(t *testing.T) {
	b := New(3, 3, []Position{{0, 0}})
	require.Len(t, b.Reveal(2, 2), 8)

	opened := b.Reveal(0, 0)

	assert.Equal(t, []Position{{0, 0}}, opened)
	assert.Equal(t, Lost, b.GameStatus())
}

func TestRevealNumberedCellDoesNotCascade(t *testing.T) {
	b := New(3, 3, []Position{{0, 0}})

	opened := b.Reveal(1, 1)

	assert.Equal(t, []Position{{1, 1}}, opened)
	assert.Equal(t, Closed, b.Status(1, 2))
	assert.Equal(t, InProgress, b.GameStatus())
}

func TestRevealCascadeOrder(t *testing.T) {
	b := New(3, 3, []Position{{0, 0}})

	opened := b.Reveal(2, 2)

	assert.Equal(t, []Position{
		{2, 2}, {1, 1}, {1, 2}, {0, 1}, {0, 2}, {2, 1}, {1, 0}, {2, 0},
	}, opened)
	assert.Equal(t, Closed, b.Status(0, 0))
	assert.Equal(t, InProgress, b.GameStatus())

	b.SetStatus(0, 0, MarkedAsMine)
	assert.Equal(t, Won, b.GameStatus())
}

func TestRevealStopsAtNumberedRing(t *testing.T) {
	// A wall of mines down the middle column.
	b := New(3, 5, []Position{{0, 2}, {1, 2}, {2, 2}})

	opened := b.Reveal(1, 0)

	assert.ElementsMatch(t, []Position{
		{0, 0}, {1, 0}, {2, 0},
		{0, 1}, {1, 1}, {2, 1},
	}, opened)
	for row := range 3 {
		for _, column := range []int{2, 3, 4} {
			assert.Equal(t, Closed, b.Status(row, column))
		}
	}
	assert.Equal(t, CellProperty(3), b.Property(1, 1))
	assert.Equal(t, InProgress, b.GameStatus())
}

func TestRevealSkipsMarkedCells(t *testing.T) {
	b := New(3, 3, []Position{{0, 0}})
	b.SetStatus(2, 0, MarkedAsMine)
	b.SetStatus(0, 2, MarkedAsMine)
	b.SetStatus(0, 2, MarkedAsSuspectedMine)

	assert.Empty(t, b.Reveal(2, 0))
	assert.Empty(t, b.Reveal(0, 2))
	assert.Equal(t, MarkedAsMine, b.Status(2, 0))
	assert.Equal(t, MarkedAsSuspectedMine, b.Status(0, 2))

	opened := b.Reveal(2, 2)
	assert.NotContains(t, opened, Position{2, 0})
	assert.NotContains(t, opened, Position{0, 2})
	assert.Equal(t, MarkedAsMine, b.Status(2, 0))
	assert.Equal(t, MarkedAsSuspectedMine, b.Status(0, 2))

	assert.Empty(t, b.Reveal(2, 2), "revealing an opened cell is a no-op")
}

func TestRevealLargeBoard(t *testing.T) {
	const rows, columns = 600, 600
	b := New(rows, columns, nil)

	opened := b.Reveal(rows/2, columns/2)

	assert.Len(t, opened, rows*columns)
	assert.Equal(t, Won, b.GameStatus())
}

func TestSetStatusTransitions(t *testing.T) {
	statuses := []CellStatus{Closed, Opened, MarkedAsMine, MarkedAsSuspectedMine}
	legal := map[[2]CellStatus]bool{
		{MarkedAsMine, MarkedAsSuspectedMine}: true,
		{MarkedAsSuspectedMine, Closed}:       true,
		{Closed, MarkedAsMine}:                true,
		{Closed, Opened}:                      true,
	}
	// Steps from Closed to reach each starting status.
	setup := map[CellStatus][]CellStatus{
		Closed:                {},
		Opened:                {Opened},
		MarkedAsMine:          {MarkedAsMine},
		MarkedAsSuspectedMine: {MarkedAsMine, MarkedAsSuspectedMine},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				// (0,0) is a numbered cell next to the mine at (0,1).
				b := New(1, 2, []Position{{0, 1}})
				for _, step := range setup[from] {
					b.SetStatus(0, 0, step)
				}
				require.Equal(t, from, b.Status(0, 0))

				b.SetStatus(0, 0, to)

				want := from
				if legal[[2]CellStatus{from, to}] {
					want = to
				}
				assert.Equal(t, want, b.Status(0, 0))
				assert.Equal(t, InProgress, b.GameStatus())
			})
		}
	}
}

func TestSetStatusOpenedDoesNotCascade(t *testing.T) {
	b := New(3, 3, []Position{{0, 0}})

	b.SetStatus(2, 2, Opened)

	assert.Equal(t, Opened, b.Status(2, 2))
	assert.Equal(t, Closed, b.Status(2, 1))
	assert.Equal(t, Closed, b.Status(1, 2))
	assert.Equal(t, InProgress, b.GameStatus())
}

func TestSetStatusOpenedOnMineLoses(t *testing.T) {
	b := New(2, 2, []Position{{1, 1}})

	b.SetStatus(1, 1, Opened)

	assert.Equal(t, Opened, b.Status(1, 1))
	assert.Equal(t, Lost, b.GameStatus())
}

func TestWinRequiresNoSuspectedCells(t *testing.T) {
	b := New(1, 2, []Position{{0, 1}})
	b.Reveal(0, 0)
	b.SetStatus(0, 1, MarkedAsMine)
	require.Equal(t, Won, b.GameStatus())

	b.SetStatus(0, 1, MarkedAsSuspectedMine)
	assert.Equal(t, InProgress, b.GameStatus())

	b.SetStatus(0, 1, Closed)
	assert.Equal(t, InProgress, b.GameStatus())

	b.SetStatus(0, 1, MarkedAsMine)
	assert.Equal(t, Won, b.GameStatus())
}

func TestMarkingEveryCellWins(t *testing.T) {
	// Won only looks at statuses: a cell wrongly marked as a mine still
	// counts as settled.
	b := New(1, 2, []Position{{0, 1}})

	b.SetStatus(0, 0, MarkedAsMine)
	b.SetStatus(0, 1, MarkedAsMine)

	assert.Equal(t, Won, b.GameStatus())
	assert.Equal(t, -1, b.MinesLeft())
}

func TestLostIsTerminal(t *testing.T) {
	b := New(2, 2, []Position{{0, 0}})
	b.Reveal(0, 0)
	require.Equal(t, Lost, b.GameStatus())

	b.Reveal(0, 1)
	b.Reveal(1, 0)
	b.SetStatus(1, 1, Opened)
	assert.Equal(t, Lost, b.GameStatus())

	b.SetStatus(0, 0, Closed)
	b.SetStatus(0, 0, MarkedAsMine)
	assert.Equal(t, Opened, b.Status(0, 0))
	assert.Equal(t, Lost, b.GameStatus())
}

func TestCycleMark(t *testing.T) {
	b := New(2, 2, []Position{{0, 0}})

	assert.Equal(t, MarkedAsMine, b.CycleMark(0, 0))
	assert.Equal(t, 0, b.MinesLeft())
	assert.Equal(t, MarkedAsSuspectedMine, b.CycleMark(0, 0))
	assert.Equal(t, 1, b.MinesLeft())
	assert.Equal(t, Closed, b.CycleMark(0, 0))

	b.Reveal(1, 1)
	assert.Equal(t, Opened, b.CycleMark(1, 1))
}

func TestChord(t *testing.T) {
	b := New(3, 3, []Position{{0, 0}})
	require.Equal(t, []Position{{1, 1}}, b.Reveal(1, 1))

	assert.Empty(t, b.Chord(1, 1), "no marked neighbours yet")

	b.SetStatus(0, 0, MarkedAsMine)
	opened := b.Chord(1, 1)

	assert.ElementsMatch(t, []Position{
		{0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2},
	}, opened)
	assert.Equal(t, Won, b.GameStatus())
}

func TestChordWrongMarkLoses(t *testing.T) {
	b := New(3, 3, []Position{{0, 0}})
	b.Reveal(1, 1)
	b.SetStatus(0, 2, MarkedAsMine)

	opened := b.Chord(1, 1)

	assert.Equal(t, []Position{{0, 0}}, opened)
	assert.Equal(t, Lost, b.GameStatus())
	assert.Equal(t, Closed, b.Status(2, 2))
}

func TestChordIgnoresClosedAndEmptyCells(t *testing.T) {
	b := New(3, 3, []Position{{0, 0}})

	assert.Empty(t, b.Chord(1, 1), "closed cell")
	b.Reveal(2, 2)
	assert.Empty(t, b.Chord(2, 2), "empty cell")
}

func TestRender(t *testing.T) {
	b := New(2, 3, []Position{{0, 0}, {1, 2}})
	b.Reveal(0, 1)
	b.SetStatus(1, 2, MarkedAsMine)
	b.SetStatus(1, 0, MarkedAsMine)
	b.SetStatus(1, 0, MarkedAsSuspectedMine)

	assert.Equal(t, "# 2 #\n? # F\n", b.String())
	assert.Equal(t, "o 2 #\n? # M\n", b.Render(true))

	b.Reveal(0, 0)
	assert.Equal(t, "X 2 #\n? # M\n", b.Render(true))
}

func TestParseCellStatus(t *testing.T) {
	for _, s := range []CellStatus{Closed, Opened, MarkedAsMine, MarkedAsSuspectedMine} {
		status, ok := ParseCellStatus(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, status)
	}

	status, ok := ParseCellStatus("markedassuspectedmine")
	assert.True(t, ok)
	assert.Equal(t, MarkedAsSuspectedMine, status)

	_, ok = ParseCellStatus("Exploded")
	assert.False(t, ok)
}

func TestNeighbours(t *testing.T) {
	b := New(3, 3, nil)

	assert.Equal(t, []Position{{0, 1}, {1, 1}, {1, 0}}, slices.Collect(b.Neighbours(0, 0)))
	assert.Equal(t, []Position{
		{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}, {2, 1}, {2, 0}, {1, 0},
	}, slices.Collect(b.Neighbours(1, 1)))
	assert.PanicsWithValue(t, OutOfBoundsError{3, 0, 3, 3}, func() { b.Neighbours(3, 0) })
}
