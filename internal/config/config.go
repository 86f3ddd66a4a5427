package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Timing holds every duration the match director works with, in milliseconds.
// It is passed by value into constructors and never changed afterwards.
type Timing struct {
	IdleKickMS    int64 `json:"idle_kick_ms" yaml:"idle_kick_ms"`
	TimerMS       int64 `json:"timer_ms" yaml:"timer_ms"`               // round duration
	HurryUpMS     int64 `json:"hurry_up_ms" yaml:"hurry_up_ms"`         // time left once hurry-up triggers
	MatchLengthMS int64 `json:"match_length_ms" yaml:"match_length_ms"` // overall match clock
	MatchOverMS   int64 `json:"match_over_ms" yaml:"match_over_ms"`     // cooldown between matches
	LevelOverMS   int64 `json:"level_over_ms" yaml:"level_over_ms"`     // results screen between holes

	TickRate       int `json:"tick_rate" yaml:"tick_rate"` // ticks per second, 1..60
	SyncEveryTicks int `json:"sync_every_ticks" yaml:"sync_every_ticks"`
}

// Server configures the standalone websocket server.
type Server struct {
	Addr         string   `json:"addr" yaml:"addr"`
	Codec        string   `json:"codec" yaml:"codec"` // "json" or "msgpack"
	TokenSecret  string   `json:"token_secret" yaml:"token_secret"`
	TokenIssuer  string   `json:"token_issuer" yaml:"token_issuer"`
	DatabaseDSN  string   `json:"database_dsn" yaml:"database_dsn"`
	RetentionHrs int      `json:"retention_hours" yaml:"retention_hours"`
	AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
}

// Config is the full configuration file.
type Config struct {
	Timing Timing `json:"timing" yaml:"timing"`
	Server Server `json:"server" yaml:"server"`
}

var (
	ErrInvalidTiming = errors.New("invalid timing config")
	ErrInvalidServer = errors.New("invalid server config")
)

// DefaultTiming returns the stock match timings.
func DefaultTiming() Timing {
	return Timing{
		IdleKickMS:     60 * 1000,
		TimerMS:        90 * 1000,
		HurryUpMS:      10 * 1000,
		MatchLengthMS:  5 * 60 * 1000,
		MatchOverMS:    15 * 1000,
		LevelOverMS:    5 * 1000,
		TickRate:       20,
		SyncEveryTicks: 2,
	}
}

// Default returns a complete configuration with safe defaults.
func Default() Config {
	return Config{
		Timing: DefaultTiming(),
		Server: Server{
			Addr:         ":8080",
			Codec:        "json",
			TokenIssuer:  "manygolf",
			RetentionHrs: 24 * 30,
		},
	}
}

// Load reads a YAML or JSON config file on top of Default().
// Missing keys keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	default:
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	if err := c.Timing.Validate(); err != nil {
		return err
	}
	switch c.Server.Codec {
	case "", "json", "msgpack":
	default:
		return fmt.Errorf("%w: unknown codec %q", ErrInvalidServer, c.Server.Codec)
	}
	return nil
}

// Validate checks timing invariants.
func (t Timing) Validate() error {
	for name, v := range map[string]int64{
		"idle_kick_ms":    t.IdleKickMS,
		"timer_ms":        t.TimerMS,
		"hurry_up_ms":     t.HurryUpMS,
		"match_length_ms": t.MatchLengthMS,
		"match_over_ms":   t.MatchOverMS,
		"level_over_ms":   t.LevelOverMS,
	} {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be > 0", ErrInvalidTiming, name)
		}
	}
	if t.TickRate < 1 || t.TickRate > 60 {
		return fmt.Errorf("%w: tick_rate must be 1..60", ErrInvalidTiming)
	}
	if t.SyncEveryTicks < 1 {
		return fmt.Errorf("%w: sync_every_ticks must be >= 1", ErrInvalidTiming)
	}
	return nil
}

// WithEnv overrides timings from a runtime env map using "manygolf_"-prefixed keys,
// e.g. manygolf_timer_ms=60000. Unparseable values are skipped.
func (t Timing) WithEnv(env map[string]string) Timing {
	ms := map[string]*int64{
		"manygolf_idle_kick_ms":    &t.IdleKickMS,
		"manygolf_timer_ms":        &t.TimerMS,
		"manygolf_hurry_up_ms":     &t.HurryUpMS,
		"manygolf_match_length_ms": &t.MatchLengthMS,
		"manygolf_match_over_ms":   &t.MatchOverMS,
		"manygolf_level_over_ms":   &t.LevelOverMS,
	}
	for key, dst := range ms {
		if val, ok := env[key]; ok {
			if i, err := strconv.ParseInt(val, 10, 64); err == nil {
				*dst = i
			}
		}
	}
	if val, ok := env["manygolf_tick_rate"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			t.TickRate = i
		}
	}
	if val, ok := env["manygolf_sync_every_ticks"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			t.SyncEveryTicks = i
		}
	}
	return t
}

// FromEnv overrides server settings from process environment variables.
func (s Server) FromEnv(getenv func(string) string) Server {
	if v := getenv("MANYGOLF_ADDR"); v != "" {
		s.Addr = v
	}
	if v := getenv("MANYGOLF_CODEC"); v != "" {
		s.Codec = v
	}
	if v := getenv("MANYGOLF_TOKEN_SECRET"); v != "" {
		s.TokenSecret = v
	}
	if v := getenv("MANYGOLF_DATABASE_DSN"); v != "" {
		s.DatabaseDSN = v
	}
	return s
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
