package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/board"
	"github.com/vancomm/minesweeper/internal/scores"
)

// App plays games read line by line from the terminal.
type App struct {
	log    *logrus.Logger
	out    io.Writer
	table  *scores.Table
	rnd    *rand.Rand
	now    func() time.Time
	player string
	game   *GameSession
}

func NewApp(log *logrus.Logger, out io.Writer, table *scores.Table, rnd *rand.Rand, player string, game *GameSession) *App {
	return &App{
		log:    log,
		out:    out,
		table:  table,
		rnd:    rnd,
		now:    time.Now,
		player: player,
		game:   game,
	}
}

// Run reads commands from in until q, EOF or ctx is done.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		lines   = make(chan string)
		scanErr = make(chan error, 1)
	)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	fmt.Fprintf(a.out, "new %s game\n%s> ", a.game.Title(), a.game.Render(false))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			quit, err := a.ExecuteLine(ctx, line)
			if err != nil {
				fmt.Fprintln(a.out, "error:", err)
			}
			if quit {
				return nil
			}
			fmt.Fprint(a.out, "> ")
		}
	}
}

func (a *App) ExecuteLine(ctx context.Context, line string) (quit bool, err error) {
	commands, err := parseCommands(line)
	if err != nil {
		return false, err
	}
	for _, c := range commands {
		if quit, err = a.Execute(ctx, c); quit || err != nil {
			return
		}
	}
	return false, nil
}

func (a *App) Execute(ctx context.Context, c Command) (quit bool, err error) {
	a.log.WithFields(logrus.Fields{
		"command": c.Name,
		"args":    c.Args,
	}).Debug("executing command")

	switch c.Name {
	case "o", "f", "s", "c":
		return false, a.move(ctx, c)
	case "p":
		fmt.Fprint(a.out, a.game.Render(a.game.Over()))
	case "n":
		g, err := parseNewGame(c.Args, a.game)
		if err != nil {
			return false, err
		}
		a.game = g
		fmt.Fprintf(a.out, "new %s game\n%s", g.Title(), g.Render(false))
	case "h":
		return false, a.highScores(c.Args)
	case "?":
		fmt.Fprint(a.out, usage)
	case "q":
		return true, nil
	default:
		return false, fmt.Errorf("%w %q", ErrUnknownCommand, c.Name)
	}
	return false, nil
}

func (a *App) move(ctx context.Context, c Command) error {
	row, column, err := parseCell(c.Args)
	if err != nil {
		return err
	}
	if !a.game.InBounds(row, column) {
		return ErrBadCell
	}
	if a.game.Over() {
		return ErrGameOver
	}
	if !a.game.Started() {
		if c.Name != "o" {
			return ErrNotStarted
		}
		a.game.Start(a.rnd, board.Position{Row: row, Column: column})
	}

	b := a.game.Board
	switch c.Name {
	case "o":
		b.Reveal(row, column)
	case "f":
		b.CycleMark(row, column)
	case "s":
		status, err := parseStatus(c.Args[2])
		if err != nil {
			return err
		}
		b.SetStatus(row, column, status)
	case "c":
		b.Chord(row, column)
	}

	fmt.Fprint(a.out, a.game.Render(a.game.Over()))
	if a.game.Finish(a.now()) {
		return a.finish(ctx)
	}
	return nil
}

func (a *App) finish(ctx context.Context) error {
	g := a.game
	entry := a.log.WithFields(logrus.Fields{
		"game":    g.Title(),
		"status":  g.Board.GameStatus().String(),
		"seconds": g.Seconds(),
	})
	entry.Info("game over")

	if g.Board.GameStatus() == board.Lost {
		fmt.Fprintln(a.out, "boom, you lost")
		return nil
	}
	fmt.Fprintf(a.out, "you won in %d seconds\n", g.Seconds())
	if !g.Ranked || !a.table.IsNewHighScore(g.Level, g.Seconds()) {
		return nil
	}

	if err := a.table.Insert(ctx, g.Level, a.player, g.Seconds()); err != nil {
		var persistErr *scores.PersistenceError
		if errors.As(err, &persistErr) {
			entry.WithError(err).Error("unable to save high score")
			return fmt.Errorf("high score not recorded: %w", err)
		}
		return err
	}
	fmt.Fprintf(a.out, "new %s high score for %s!\n", g.Level, a.player)
	return nil
}

func (a *App) highScores(args []string) error {
	levels := scores.Levels()
	switch {
	case len(args) == 1:
		l, err := scores.ParseLevel(args[0])
		if err != nil {
			return err
		}
		levels = []scores.Level{l}
	case a.game.Ranked:
		levels = []scores.Level{a.game.Level}
	}

	for _, l := range levels {
		fmt.Fprintf(a.out, "%s:\n", l)
		top := a.table.Top(l)
		if len(top) == 0 {
			fmt.Fprintln(a.out, "  no scores yet")
		}
		for i, e := range top {
			fmt.Fprintf(a.out, "  %2d. %-20s %4ds\n", i+1, e.Name, e.Score)
		}
	}
	return nil
}
