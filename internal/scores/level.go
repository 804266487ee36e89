package scores

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Level int8

const (
	Beginner Level = iota
	Intermediate
	Expert
)

var ErrUnknownLevel = errors.New("unknown difficulty level")

func Levels() []Level {
	return []Level{Beginner, Intermediate, Expert}
}

func (l Level) Valid() bool {
	return Beginner <= l && l <= Expert
}

func (l Level) String() string {
	switch l {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Expert:
		return "Expert"
	default:
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
}

// ParseLevel is case-insensitive.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels() {
		if strings.EqualFold(l.String(), strings.TrimSpace(s)) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Level implements [encoding.TextMarshaler]
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, l)
	}
	return []byte(l.String()), nil
}

// Level implements [encoding.TextUnmarshaler]
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Preset is the board a level is played on.
type Preset struct {
	Rows, Columns, Mines int
}

func (l Level) Preset() Preset {
	switch l {
	case Beginner:
		return Preset{Rows: 9, Columns: 9, Mines: 10}
	case Intermediate:
		return Preset{Rows: 16, Columns: 16, Mines: 40}
	case Expert:
		return Preset{Rows: 16, Columns: 30, Mines: 99}
	default:
		return Preset{}
	}
}
