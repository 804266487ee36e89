package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/pflag"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/database"
	"github.com/vancomm/minesweeper/internal/scores"
	"github.com/vancomm/minesweeper/internal/store"
)

var log = logrus.New()

func setupLogging(c *config.Config) error {
	logLevel, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	if c.Development() {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if c.Log.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   c.Log.File,
			MaxSize:    c.Log.MaxSize,
			MaxBackups: c.Log.MaxBackups,
			MaxAge:     c.Log.MaxAge,
			Level:      logLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		log.AddHook(hook)
	}

	store.Log = log
	scores.Log = log
	return nil
}

// configuredSession resolves the configured board: explicit dimensions make an
// unranked custom game, otherwise the level preset is used.
func configuredSession(c config.GameConfig) (*GameSession, error) {
	if c.Custom() {
		p := GameParams{Rows: c.Rows, Columns: c.Columns, Mines: c.Mines}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return NewCustomSession(p), nil
	}
	l, err := scores.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	return NewRankedSession(l), nil
}

func run(ctx context.Context, c *config.Config, migrate bool) error {
	if migrate {
		version, dirty, err := database.Migrate(c.Store.DSN)
		if err != nil {
			return fmt.Errorf("unable to migrate: %w", err)
		}
		log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("database migrated")
		return nil
	}

	game, err := configuredSession(c.Game)
	if err != nil {
		return err
	}

	if c.Autoplay.Games > 0 {
		seed := c.Autoplay.Seed
		if seed == 0 {
			seed = createRand().Uint64()
		}
		log.WithFields(logrus.Fields{
			"game":    game.Title(),
			"games":   c.Autoplay.Games,
			"workers": c.Autoplay.Workers,
			"seed":    seed,
		}).Info("autoplay started")
		result, err := autoplay(ctx, log, game.Params, c.Autoplay.Games, c.Autoplay.Workers, seed)
		log.WithFields(logrus.Fields{
			"games": result.Games,
			"won":   result.Won,
			"lost":  result.Lost,
		}).Info("autoplay finished")
		return err
	}

	s, err := store.Open(ctx, c.Store)
	if err != nil {
		return fmt.Errorf("unable to open store: %w", err)
	}
	defer s.Close()

	table, err := scores.Load(ctx, s, c.Scores)
	if err != nil {
		return err
	}

	app := NewApp(log, os.Stdout, table, createRand(), c.Game.Player, game)
	return app.Run(ctx, os.Stdin)
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	c, flags, err := config.Load(os.Args[0], os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal("unable to load config: ", err)
	}
	if err := setupLogging(c); err != nil {
		log.Fatal("unable to set up logging: ", err)
	}

	log.Info("starting up, mode = ", c.Mode)
	log.WithFields(c.Fields()).Debug("config")

	migrate, _ := flags.GetBool("migrate")
	if err := run(mainCtx, c, migrate); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("exit reason: ", err)
		stop()
		os.Exit(1)
	}
}
