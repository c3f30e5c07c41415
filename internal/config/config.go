// Package config reads runtime settings from the environment, an optional
// .env file and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string     `env:"GEMINI_API_KEY"`
	SaveDir      string     `env:"CITY_SURVIVAL_SAVE_DIR"  envDefault:".saves"`
	Store        string     `env:"CITY_SURVIVAL_STORE"     envDefault:"sqlite"`
	DBPath       string     `env:"CITY_SURVIVAL_DB"`
	Seed         int64      `env:"CITY_SURVIVAL_SEED"`
	LogLevel     slog.Level `env:"CITY_SURVIVAL_LOG_LEVEL" envDefault:"INFO"`
	Locale       string     `env:"CITY_SURVIVAL_LOCALE"    envDefault:"en-US"`
	Model        string     `env:"CITY_SURVIVAL_MODEL"     envDefault:"gemini-2.5-flash"`
}

// LoadConfig loads the configuration from .env and environment variables.
// Variables already set in the environment win over the file.
func LoadConfig() (*Config, error) {
	cfg, err := parseEnv()
	if err != nil {
		return nil, err
	}
	cfg.fill()
	return cfg, nil
}

// ParseConfig is LoadConfig followed by flag overrides from args. Callers
// may register their own flags on fs beforehand.
func ParseConfig(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg, err := parseEnv()
	if err != nil {
		return nil, err
	}
	fs.StringVar(&cfg.SaveDir, "save-dir", cfg.SaveDir, "directory for run snapshots, logs and the profile")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "profile backend: sqlite, yaml or memory")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "profile path (default <save-dir>/profile.db)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 picks one")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for money formatting")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "Gemini model for the epilogue")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.fill()
	return cfg, nil
}

func parseEnv() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) fill() {
	if c.DBPath == "" {
		c.DBPath = c.defaultDB()
	}
}

func (c *Config) defaultDB() string {
	name := "profile.db"
	if c.Store == "yaml" {
		name = "profile.yaml"
	}
	return filepath.Join(c.SaveDir, name)
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
