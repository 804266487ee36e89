package main

import (
	"context"
	"math/rand/v2"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/board"
)

type AutoplayResult struct {
	Games int
	Won   int
	Lost  int
}

// autoplay plays games concurrently, at most workers at a time. Game i
// draws from a PCG seeded with (seed, i), so a run is reproducible.
func autoplay(ctx context.Context, log *logrus.Logger, params GameParams, games, workers int, seed uint64) (AutoplayResult, error) {
	var won, lost atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i := range games {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			r := rand.New(rand.NewPCG(seed, uint64(i)))
			status, moves := playOne(r, params)
			if status == board.Won {
				won.Add(1)
			} else {
				lost.Add(1)
			}
			log.WithFields(logrus.Fields{
				"game":   i,
				"status": status.String(),
				"moves":  moves,
			}).Debug("autoplay game finished")
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	result := AutoplayResult{Won: int(won.Load()), Lost: int(lost.Load())}
	result.Games = result.Won + result.Lost
	return result, err
}

// playOne opens a random first cell and then alternates between safe
// deductions and random guesses until the game ends.
func playOne(r *rand.Rand, params GameParams) (board.GameStatus, int) {
	first := board.Position{Row: r.IntN(params.Rows), Column: r.IntN(params.Columns)}
	b := board.New(params.Rows, params.Columns,
		placeMines(r, params.Rows, params.Columns, params.Mines, first))
	b.Reveal(first.Row, first.Column)

	moves := 1
	for b.GameStatus() == board.InProgress {
		moves++
		if deduce(b) {
			continue
		}
		closed := closedCells(b)
		if len(closed) == b.MinesLeft() {
			// everything still closed is a mine
			for _, p := range closed {
				b.SetStatus(p.Row, p.Column, board.MarkedAsMine)
			}
			continue
		}
		p := closed[r.IntN(len(closed))]
		b.Reveal(p.Row, p.Column)
	}
	return b.GameStatus(), moves
}

// deduce applies the two trivial rules around every opened number: flag
// the closed neighbours when they must all be mines, chord when all mines
// are flagged. It reports whether anything changed.
func deduce(b *board.Board) bool {
	progress := false
	for row := range b.Rows() {
		for column := range b.Columns() {
			if b.Status(row, column) != board.Opened {
				continue
			}
			count := b.Property(row, column).AdjacentMines()
			if count == 0 {
				continue
			}

			var closed []board.Position
			marked := 0
			for n := range b.Neighbours(row, column) {
				switch b.Status(n.Row, n.Column) {
				case board.Closed:
					closed = append(closed, n)
				case board.MarkedAsMine:
					marked++
				}
			}
			if len(closed) == 0 {
				continue
			}
			switch {
			case marked+len(closed) == count:
				for _, n := range closed {
					b.SetStatus(n.Row, n.Column, board.MarkedAsMine)
				}
				progress = true
			case marked == count:
				b.Chord(row, column)
				progress = true
			}
			if b.GameStatus() != board.InProgress {
				return true
			}
		}
	}
	return progress
}

func closedCells(b *board.Board) []board.Position {
	var cells []board.Position
	for row := range b.Rows() {
		for column := range b.Columns() {
			if b.Status(row, column) == board.Closed {
				cells = append(cells, board.Position{Row: row, Column: column})
			}
		}
	}
	return cells
}
