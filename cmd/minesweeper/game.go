package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper/internal/board"
	"github.com/vancomm/minesweeper/internal/scores"
)

type GameParams struct {
	Rows    int `schema:"rows,required"`
	Columns int `schema:"columns,required"`
	Mines   int `schema:"mines,required"`
}

func (p GameParams) Validate() error {
	if p.Rows <= 0 || p.Columns <= 0 {
		return fmt.Errorf("board must be at least 1x1, got %dx%d", p.Rows, p.Columns)
	}
	// one cell stays free for the first move
	if p.Mines < 0 || p.Mines >= p.Rows*p.Columns {
		return fmt.Errorf("mine count must be between 0 and %d", p.Rows*p.Columns-1)
	}
	return nil
}

func decodeGameParams(src map[string][]string) (GameParams, error) {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	var dto GameParams
	if err := dec.Decode(&dto, src); err != nil {
		return dto, err
	}
	return dto, dto.Validate()
}

func levelParams(l scores.Level) GameParams {
	p := l.Preset()
	return GameParams{Rows: p.Rows, Columns: p.Columns, Mines: p.Mines}
}

// GameSession is one game at the terminal. Mines are placed on the first
// open so that it never hits one.
type GameSession struct {
	Params    GameParams
	Level     scores.Level
	Ranked    bool // false for custom boards
	Board     *board.Board
	StartedAt time.Time
	EndedAt   time.Time
}

func NewRankedSession(l scores.Level) *GameSession {
	return &GameSession{Params: levelParams(l), Level: l, Ranked: true}
}

func NewCustomSession(p GameParams) *GameSession {
	return &GameSession{Params: p}
}

func (s *GameSession) Started() bool {
	return s.Board != nil
}

func (s *GameSession) Over() bool {
	return s.Started() && s.Board.GameStatus() != board.InProgress
}

func (s *GameSession) Start(r *rand.Rand, first board.Position) {
	s.Board = board.New(s.Params.Rows, s.Params.Columns,
		placeMines(r, s.Params.Rows, s.Params.Columns, s.Params.Mines, first))
	s.StartedAt = time.Now()
}

func (s *GameSession) InBounds(row, column int) bool {
	return 0 <= row && row < s.Params.Rows && 0 <= column && column < s.Params.Columns
}

// Finish stamps the end time once the board reports a final status and
// tells whether this call did it.
func (s *GameSession) Finish(now time.Time) bool {
	if !s.Over() || !s.EndedAt.IsZero() {
		return false
	}
	s.EndedAt = now
	return true
}

// Seconds is the whole-second duration of a finished game.
func (s *GameSession) Seconds() int {
	return int(s.EndedAt.Sub(s.StartedAt) / time.Second)
}

func (s *GameSession) Title() string {
	dims := fmt.Sprintf("%dx%d, %d mines", s.Params.Rows, s.Params.Columns, s.Params.Mines)
	if s.Ranked {
		return s.Level.String() + " (" + dims + ")"
	}
	return "custom (" + dims + ")"
}

// Render draws the board with row and column numbers. Column headers show
// the last digit only, with a tens line above once there are more than ten.
func (s *GameSession) Render(showMines bool) string {
	b := s.Board
	if b == nil {
		b = board.New(s.Params.Rows, s.Params.Columns, nil)
	}

	var sb strings.Builder
	if b.Columns() > 10 {
		sb.WriteString("    ")
		for column := range b.Columns() {
			if column%10 == 0 && column > 0 {
				fmt.Fprintf(&sb, "%d ", column/10%10)
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("    ")
	for column := range b.Columns() {
		fmt.Fprintf(&sb, "%d ", column%10)
	}
	sb.WriteByte('\n')

	for row, line := range byPiece(strings.TrimSuffix(b.Render(showMines), "\n"), "\n") {
		fmt.Fprintf(&sb, "%3d %s\n", row, line)
	}
	if !showMines {
		fmt.Fprintf(&sb, "mines left: %d\n", b.MinesLeft())
	}
	return sb.String()
}
