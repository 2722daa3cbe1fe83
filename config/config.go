package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"snakeladder/board"
	"snakeladder/models"
)

// Config is the server and terminal client configuration, read from the
// environment.
type Config struct {
	Addr       string `env:"SNAKES_ADDR" envDefault:":8080"`
	Board      string `env:"SNAKES_BOARD" envDefault:"classic"`
	BoardsFile string `env:"SNAKES_BOARDS_FILE"`
	// RedirectDelay is how long a token rests on a snake or ladder cell.
	// Zero selects the default delay; use Immediate to skip the rest.
	RedirectDelay time.Duration `env:"SNAKES_REDIRECT_DELAY" envDefault:"800ms"`
	// Immediate applies each redirect in the same update as the landing.
	Immediate   bool     `env:"SNAKES_IMMEDIATE"`
	PlayerNames []string `env:"SNAKES_PLAYER_NAMES" envSeparator:"," envDefault:"Player 1,Player 2"`
	// DiceSeed makes every game roll the same sequence. Zero seeds each
	// game randomly.
	DiceSeed       int64    `env:"SNAKES_DICE_SEED"`
	AllowedOrigins []string `env:"SNAKES_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	LogLevel       string   `env:"SNAKES_LOG_LEVEL" envDefault:"info"`
	Dev            bool     `env:"SNAKES_DEV"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.PlayerNames) != models.NumPlayers {
		return fmt.Errorf("SNAKES_PLAYER_NAMES needs %d names, got %d", models.NumPlayers, len(c.PlayerNames))
	}
	if c.RedirectDelay < 0 {
		return fmt.Errorf("SNAKES_REDIRECT_DELAY must not be negative, got %s", c.RedirectDelay)
	}
	return nil
}

// Names returns the trimmed player names, indexed by player.
func (c Config) Names() [models.NumPlayers]string {
	var names [models.NumPlayers]string
	for i := range names {
		if i < len(c.PlayerNames) {
			names[i] = strings.TrimSpace(c.PlayerNames[i])
		}
	}
	return names
}

// Variant returns the configured board, loading BoardsFile first when set.
func (c Config) Variant() (*board.Variant, error) {
	catalog := board.NewCatalog()
	if c.BoardsFile != "" {
		if err := catalog.LoadFile(c.BoardsFile); err != nil {
			return nil, err
		}
	}
	return catalog.Get(c.Board)
}
