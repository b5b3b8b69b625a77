package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/wordle/apps/tile-board/internal/game"
)

var (
	ErrUnknownBackend = errors.New("unknown store backend")
	ErrMissingRedis   = errors.New("redis backend requires a redis url")
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type StoreConfig struct {
	Backend  string        `yaml:"backend"`
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

type HistoryConfig struct {
	// DSN is the SQLite file path; empty disables history.
	DSN string `yaml:"dsn"`
}

type SessionConfig struct {
	Secret  string        `yaml:"secret"`
	Expires time.Duration `yaml:"expires"`
}

type Config struct {
	Game     game.Config   `yaml:"game"`
	Server   ServerConfig  `yaml:"server"`
	Store    StoreConfig   `yaml:"store"`
	History  HistoryConfig `yaml:"history"`
	Session  SessionConfig `yaml:"session"`
	LogLevel string        `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Game:     game.DefaultConfig(),
		Server:   ServerConfig{Addr: ":5175"},
		Store:    StoreConfig{Backend: BackendMemory, TTL: 24 * time.Hour},
		History:  HistoryConfig{DSN: "./data/history.db"},
		Session:  SessionConfig{Secret: "dev_secret_change_me", Expires: 24 * time.Hour},
		LogLevel: "info",
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is not empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, errors.WithMessagef(err, "read config %s", path)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, errors.WithMessage(err, "apply env")
	}
	cfg.Game = cfg.Game.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = file.Close()
	}()
	return yaml.NewDecoder(file).Decode(c)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%s", key)
		}
		*dst = d
		return nil
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	str("WORDLE_SECRET", &c.Game.Secret)
	str("STORE_BACKEND", &c.Store.Backend)
	str("REDIS_URL", &c.Store.RedisURL)
	str("DB_PATH", &c.History.DSN)
	str("JWT_SECRET", &c.Session.Secret)
	str("LOG_LEVEL", &c.LogLevel)

	for key, dst := range map[string]*int{
		"WORDLE_ROWS": &c.Game.Rows,
		"WORDLE_COLS": &c.Game.Cols,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*time.Duration{
		"STORE_TTL":       &c.Store.TTL,
		"SESSION_EXPIRES": &c.Session.Expires,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Game.Validate(); err != nil {
		return err
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return ErrMissingRedis
		}
	default:
		return errors.WithMessagef(ErrUnknownBackend, "%q", c.Store.Backend)
	}
	if c.Session.Secret == "" {
		return errors.New("session secret must not be empty")
	}
	return nil
}
