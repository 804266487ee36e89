// Package scores keeps the ten best (lowest) scores of every difficulty
// level and writes the whole table back to its store on every insert.
//
// A Table is single-owner and does no locking.
package scores

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/store"
)

var Log = logrus.New()

const (
	// Capacity is the number of entries kept per level.
	Capacity = 10
	// DefaultKey is the store key the table lives under.
	DefaultKey = "highscores"
)

var ErrNegativeScore = errors.New("score must not be negative")

type Entry struct {
	Score int
	Name  string
}

// PersistenceError reports a failed read or write of the table.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

// [PersistenceError] implements [error]
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("unable to %s high scores %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// snapshot is the persisted form: level name to entries, best first.
type snapshot map[string][]Entry

type Table struct {
	store  store.Store
	key    string
	scores map[Level][]Entry
}

// Load reads the table stored under key, DefaultKey if key is empty.
// Every level starts empty when nothing is stored yet.
func Load(ctx context.Context, s store.Store, key string) (*Table, error) {
	if key == "" {
		key = DefaultKey
	}
	t := &Table{
		store:  s,
		key:    key,
		scores: make(map[Level][]Entry, len(Levels())),
	}
	for _, l := range Levels() {
		t.scores[l] = []Entry{}
	}

	var stored snapshot
	err := s.Get(ctx, key, &stored)
	if errors.Is(err, store.ErrNotFound) {
		Log.WithField("key", key).Info("no high scores stored yet")
		return t, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load", Key: key, Err: err}
	}

	for name, entries := range stored {
		level, err := ParseLevel(name)
		if err != nil {
			return nil, &PersistenceError{Op: "load", Key: key, Err: err}
		}
		if entries == nil {
			entries = []Entry{}
		}
		t.scores[level] = entries
	}

	Log.WithFields(logrus.Fields{
		"key":          key,
		"beginner":     len(t.scores[Beginner]),
		"intermediate": len(t.scores[Intermediate]),
		"expert":       len(t.scores[Expert]),
	}).Debug("loaded high scores")
	return t, nil
}

// IsNewHighScore reports whether score would make it into the level's
// list: either the list has a free slot or score is strictly lower than
// the worst kept score.
func (t *Table) IsNewHighScore(level Level, score int) bool {
	if !level.Valid() {
		return false
	}
	entries := t.scores[level]
	if len(entries) < Capacity {
		return true
	}
	return score < entries[Capacity-1].Score
}

// Insert adds an entry, keeps the list sorted by score with earlier
// entries first among equal scores, drops everything past Capacity and
// persists the whole table. It does not check IsNewHighScore. When the
// write fails a *PersistenceError is returned and the table is unchanged.
func (t *Table) Insert(ctx context.Context, level Level, name string, score int) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownLevel, level)
	}
	if score < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeScore, score)
	}

	entries := append(slices.Clone(t.scores[level]), Entry{Score: score, Name: name})
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Score, b.Score)
	})
	if len(entries) > Capacity {
		entries = entries[:Capacity]
	}

	next := t.snapshot()
	next[level.String()] = entries
	if err := t.store.Set(ctx, t.key, next); err != nil {
		return &PersistenceError{Op: "save", Key: t.key, Err: err}
	}
	t.scores[level] = entries

	Log.WithFields(logrus.Fields{
		"difficulty": level,
		"name":       name,
		"score":      score,
	}).Debug("inserted score")
	return nil
}

// Top returns a copy of the level's entries, best first.
func (t *Table) Top(level Level) []Entry {
	if !level.Valid() {
		return nil
	}
	return slices.Clone(t.scores[level])
}

func (t *Table) snapshot() snapshot {
	s := make(snapshot, len(t.scores))
	for level, entries := range t.scores {
		s[level.String()] = entries
	}
	return s
}
