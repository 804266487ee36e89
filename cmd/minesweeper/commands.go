package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper/internal/board"
	"github.com/vancomm/minesweeper/internal/scores"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgCount       = errors.New("invalid number of arguments")
	ErrBadCell        = errors.New("invalid cell coordinates")
	ErrNotStarted     = errors.New("no cell opened yet, open one first")
	ErrGameOver       = errors.New("game is over, start a new one with n")
)

// Maps known commands to the minimum and maximum number of arguments
var commandNargs = map[string][2]int{
	"o": {2, 2}, // open
	"f": {2, 2}, // cycle flag
	"s": {3, 3}, // set status
	"c": {2, 2}, // chord
	"p": {0, 0}, // print
	"n": {0, 3}, // new game
	"h": {0, 1}, // high scores
	"?": {0, 0}, // help
	"q": {0, 0}, // quit
}

const usage = `commands (several may share a line, separated by ';'):
  o ROW COL                       open a cell
  f ROW COL                       cycle closed, flagged and suspected
  s ROW COL STATUS                set a cell status (Closed, Opened, MarkedAsMine, MarkedAsSuspectedMine)
  c ROW COL                       open the neighbours of a satisfied number
  p                               print the board
  n [LEVEL]                       new game (beginner, intermediate, expert)
  n rows=R columns=C mines=M      new custom game, not ranked
  h [LEVEL]                       show high scores
  ?                               show this help
  q                               quit
`

type Command struct {
	Name string
	Args []string
}

func parseCommand(s string) (Command, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return Command{}, ErrUnknownCommand
	}
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	if n := len(parts) - 1; n < nargs[0] || n > nargs[1] {
		return Command{}, fmt.Errorf("%w for %s", ErrArgCount, parts[0])
	}
	return Command{Name: parts[0], Args: parts[1:]}, nil
}

// parseCommands splits line on ';', skipping empty pieces.
func parseCommands(line string) ([]Command, error) {
	var commands []Command
	for _, piece := range byPiece(line, ";") {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		c, err := parseCommand(piece)
		if err != nil {
			return nil, err
		}
		commands = append(commands, c)
	}
	return commands, nil
}

func parseCell(twoStrings []string) (row int, column int, err error) {
	if row, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("row must be an int")
		return
	}
	if column, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("column must be an int")
		return
	}
	return
}

func parseStatus(s string) (board.CellStatus, error) {
	status, ok := board.ParseCellStatus(s)
	if !ok {
		return status, fmt.Errorf("unknown cell status %q", s)
	}
	return status, nil
}

// parseNewGame reads the arguments of n. With none, current is repeated.
func parseNewGame(args []string, current *GameSession) (*GameSession, error) {
	if len(args) == 0 {
		if current.Ranked {
			return NewRankedSession(current.Level), nil
		}
		return NewCustomSession(current.Params), nil
	}
	if len(args) == 1 && !strings.Contains(args[0], "=") {
		l, err := scores.ParseLevel(args[0])
		if err != nil {
			return nil, err
		}
		return NewRankedSession(l), nil
	}

	src := make(map[string][]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		src[key] = append(src[key], value)
	}
	params, err := decodeGameParams(src)
	if err != nil {
		return nil, err
	}
	return NewCustomSession(params), nil
}
