// Package config provides Viper-based configuration loading for the game client.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultMoveTimeoutMs is the round timer duration used when none is configured.
	DefaultMoveTimeoutMs = 20000
	// DefaultSeriesTimeoutMs is the session keepalive duration used when none is configured.
	DefaultSeriesTimeoutMs = 300000
)

// ClientConfig holds settings for reaching the game server.
type ClientConfig struct {
	// BaseURL is the HTTP root of the game server API, e.g. "http://localhost:5000".
	BaseURL string `mapstructure:"base_url"`
	// HubPath is the path of the websocket event hub relative to BaseURL.
	HubPath string `mapstructure:"hub_path"`
	// RequestTimeout bounds every HTTP request to the server.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// PingInterval is the period of hub keepalive pings.
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

// HubURL returns the websocket URL of the event hub.
//
// Precondition: BaseURL must be a valid http or https URL.
// Postcondition: Returns a ws or wss URL ending in HubPath, or an error.
func (c ClientConfig) HubURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(c.HubPath, "/")
	return u.String(), nil
}

// UserConfig holds the local player's identity.
type UserConfig struct {
	// PlayerID is the opaque identifier sent to the server. Empty means "generate one".
	PlayerID string `mapstructure:"player_id"`
	// Login is the display name shown in the console.
	Login string `mapstructure:"login"`
}

// TimeoutConfig holds the in-game timer durations.
type TimeoutConfig struct {
	// MoveTimeoutMs is the time a player has to choose a figure.
	MoveTimeoutMs int `mapstructure:"move_timeout_ms"`
	// SeriesTimeoutMs is the inactivity window after which a session is abandoned.
	SeriesTimeoutMs int `mapstructure:"series_timeout_ms"`
}

// MoveTimeout returns the round timer duration, falling back to DefaultMoveTimeoutMs.
func (t TimeoutConfig) MoveTimeout() time.Duration {
	if t.MoveTimeoutMs <= 0 {
		return DefaultMoveTimeoutMs * time.Millisecond
	}
	return time.Duration(t.MoveTimeoutMs) * time.Millisecond
}

// SeriesTimeout returns the keepalive duration, falling back to DefaultSeriesTimeoutMs.
func (t TimeoutConfig) SeriesTimeout() time.Duration {
	if t.SeriesTimeoutMs <= 0 {
		return DefaultSeriesTimeoutMs * time.Millisecond
	}
	return time.Duration(t.SeriesTimeoutMs) * time.Millisecond
}

// LobbyConfig holds how long the client waits for an opponent per game kind.
type LobbyConfig struct {
	PrivateRoomWaitSeconds int `mapstructure:"private_room_wait_s"`
	PublicGameWaitSeconds  int `mapstructure:"public_game_wait_s"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a file path or "stderr". Stdout is reserved for the game console.
	Output string `mapstructure:"output"`
}

// Config is the top-level application configuration.
type Config struct {
	Client   ClientConfig  `mapstructure:"client"`
	User     UserConfig    `mapstructure:"user"`
	Timeouts TimeoutConfig `mapstructure:"timeouts"`
	Lobby    LobbyConfig   `mapstructure:"lobby"`
	Logging  LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateClient(c.Client); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTimeouts(c.Timeouts); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLobby(c.Lobby); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateClient(c ClientConfig) error {
	var errs []string
	if c.BaseURL == "" {
		errs = append(errs, "client.base_url must not be empty")
	} else if _, err := c.HubURL(); err != nil {
		errs = append(errs, fmt.Sprintf("client.base_url is invalid: %v", err))
	}
	if c.HubPath == "" {
		errs = append(errs, "client.hub_path must not be empty")
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, "client.request_timeout must be positive")
	}
	if c.PingInterval <= 0 {
		errs = append(errs, "client.ping_interval must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateTimeouts(t TimeoutConfig) error {
	var errs []string
	if t.MoveTimeoutMs < 0 {
		errs = append(errs, fmt.Sprintf("timeouts.move_timeout_ms must be >= 0 (got %d)", t.MoveTimeoutMs))
	}
	if t.SeriesTimeoutMs < 0 {
		errs = append(errs, fmt.Sprintf("timeouts.series_timeout_ms must be >= 0 (got %d)", t.SeriesTimeoutMs))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLobby(l LobbyConfig) error {
	var errs []string
	if l.PrivateRoomWaitSeconds < 0 {
		errs = append(errs, fmt.Sprintf("lobby.private_room_wait_s must be >= 0 (got %d)", l.PrivateRoomWaitSeconds))
	}
	if l.PublicGameWaitSeconds < 0 {
		errs = append(errs, fmt.Sprintf("lobby.public_game_wait_s must be >= 0 (got %d)", l.PublicGameWaitSeconds))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.Output == "" || l.Output == "stdout" {
		return fmt.Errorf("logging.output must be a file path or stderr, got %q", l.Output)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. A missing file is not an error: defaults
// and environment variables still apply.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with RPS_ prefix
	v.SetEnvPrefix("RPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Config populated only with default values.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("client.base_url", "http://localhost:5000")
	v.SetDefault("client.hub_path", "/hubs/game")
	v.SetDefault("client.request_timeout", "10s")
	v.SetDefault("client.ping_interval", "15s")

	v.SetDefault("user.player_id", "")
	v.SetDefault("user.login", "player")

	v.SetDefault("timeouts.move_timeout_ms", DefaultMoveTimeoutMs)
	v.SetDefault("timeouts.series_timeout_ms", DefaultSeriesTimeoutMs)

	v.SetDefault("lobby.private_room_wait_s", 300)
	v.SetDefault("lobby.public_game_wait_s", 60)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "Logs/app.log")
}
