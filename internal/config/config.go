package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper/internal/store"
)

const EnvPrefix = "MINESWEEPER"

// LogConfig controls logging. MaxSize is in megabytes and MaxAge in days;
// both only apply to File.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type GameConfig struct {
	Level   string `mapstructure:"level"`
	Rows    int    `mapstructure:"rows"`
	Columns int    `mapstructure:"columns"`
	Mines   int    `mapstructure:"mines"`
	Player  string `mapstructure:"player"`
}

// Custom reports whether explicit dimensions replace the level preset.
func (g GameConfig) Custom() bool {
	return g.Rows > 0 && g.Columns > 0
}

type AutoplayConfig struct {
	Games   int    `mapstructure:"games"`
	Workers int    `mapstructure:"workers"`
	Seed    uint64 `mapstructure:"seed"`
}

type Config struct {
	Mode     string         `mapstructure:"mode"`
	Log      LogConfig      `mapstructure:"log"`
	Store    store.Config   `mapstructure:"store"`
	Scores   string         `mapstructure:"scores_key"`
	Game     GameConfig     `mapstructure:"game"`
	Autoplay AutoplayConfig `mapstructure:"autoplay"`
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":             c.Mode,
		"log_level":        c.Log.Level,
		"log_file":         c.Log.File,
		"store_driver":     c.Store.Driver,
		"store_table":      c.Store.Table,
		"scores_key":       c.Scores,
		"game_level":       c.Game.Level,
		"game_rows":        c.Game.Rows,
		"game_columns":     c.Game.Columns,
		"game_mines":       c.Game.Mines,
		"player":           c.Game.Player,
		"autoplay_games":   c.Autoplay.Games,
		"autoplay_workers": c.Autoplay.Workers,
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "production")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.dsn", "HighScores.db")
	v.SetDefault("store.table", "")
	v.SetDefault("scores_key", "highscores")
	v.SetDefault("game.level", "beginner")
	v.SetDefault("game.rows", 0)
	v.SetDefault("game.columns", 0)
	v.SetDefault("game.mines", 0)
	v.SetDefault("game.player", "anonymous")
	v.SetDefault("autoplay.games", 0)
	v.SetDefault("autoplay.workers", 4)
	v.SetDefault("autoplay.seed", 0)
}

// flags maps config keys to command line flags.
var flags = map[string]string{
	"mode":             "mode",
	"log.level":        "log-level",
	"log.file":         "log-file",
	"store.driver":     "store",
	"store.dsn":        "dsn",
	"game.level":       "level",
	"game.rows":        "rows",
	"game.columns":     "columns",
	"game.mines":       "mines",
	"game.player":      "player",
	"autoplay.games":   "autoplay",
	"autoplay.workers": "workers",
	"autoplay.seed":    "seed",
}

func newFlagSet(name string) *pflag.FlagSet {
	set := pflag.NewFlagSet(name, pflag.ContinueOnError)
	set.StringP("config", "c", "", "config file path (json, yaml or toml)")
	set.String("mode", "production", "production or development")
	set.String("log-level", "info", "log level")
	set.String("log-file", "", "also write logs to this rotated file")
	set.String("store", "file", "high score store driver: file, sqlite or postgres")
	set.String("dsn", "HighScores.db", "high score store path or connection string")
	set.StringP("level", "l", "beginner", "difficulty level: beginner, intermediate or expert")
	set.Int("rows", 0, "custom board rows (custom games are not ranked)")
	set.Int("columns", 0, "custom board columns")
	set.Int("mines", 0, "custom board mine count")
	set.StringP("player", "p", "anonymous", "player name for the high score table")
	set.Int("autoplay", 0, "play this many random games and exit")
	set.Int("workers", 4, "concurrent autoplay games")
	set.Uint64("seed", 0, "autoplay random seed, 0 picks one")
	set.Bool("migrate", false, "apply database migrations and exit")
	return set
}

// Load layers defaults, an optional config file, MINESWEEPER_* environment
// variables (a .env file in the working directory included) and command
// line flags, later layers winning.
func Load(name string, args []string) (*Config, *pflag.FlagSet, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("unable to load .env: %w", err)
	}

	flagSet := newFlagSet(name)
	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	v := viper.New()
	setDefaults(v)
	for key, flag := range flags {
		if err := v.BindPFlag(key, flagSet.Lookup(flag)); err != nil {
			return nil, nil, fmt.Errorf("unable to bind flag %s: %w", flag, err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path, _ := flagSet.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, nil, fmt.Errorf("unable to parse config: %w", err)
	}
	return &c, flagSet, nil
}
