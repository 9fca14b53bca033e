// Package config loads process configuration from the environment, an
// optional .env file, and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/lixenwraith/hand-sphere/audio"
	"github.com/lixenwraith/hand-sphere/constants"
	"github.com/lixenwraith/hand-sphere/engine"
	"github.com/lixenwraith/hand-sphere/field"
	"github.com/lixenwraith/hand-sphere/input"
	"github.com/lixenwraith/hand-sphere/network"
	"github.com/lixenwraith/hand-sphere/relay"
)

// ErrInvalid wraps validation failures
var ErrInvalid = errors.New("invalid config")

// Config is the union of client, bot, and relay settings
// Fields without envDefault take their defaults from the component packages
type Config struct {
	// Relay connection
	RelayURL            string        `env:"HAND_SPHERE_RELAY_URL"`
	Room                string        `env:"HAND_SPHERE_ROOM"`
	KeepAlive           time.Duration `env:"HAND_SPHERE_KEEPALIVE"`
	Reconnect           bool          `env:"HAND_SPHERE_RECONNECT"`
	ReconnectMaxTries   uint          `env:"HAND_SPHERE_RECONNECT_MAX_TRIES"`
	ReconnectMaxElapsed time.Duration `env:"HAND_SPHERE_RECONNECT_MAX_ELAPSED"`

	// Logging
	LogLevel  string `env:"HAND_SPHERE_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"HAND_SPHERE_LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"HAND_SPHERE_LOG_FILE"`

	// Audio
	AudioEnabled bool    `env:"HAND_SPHERE_AUDIO"`
	SampleRate   int     `env:"HAND_SPHERE_SAMPLE_RATE"`
	MaxVoices    int     `env:"HAND_SPHERE_MAX_VOICES"`
	Volume       float64 `env:"HAND_SPHERE_VOLUME"`

	// Simulation and input
	ColorPolicy   string        `env:"HAND_SPHERE_COLOR_POLICY"`
	Tracker       string        `env:"HAND_SPHERE_TRACKER"        envDefault:"mouse"`
	Mirror        bool          `env:"HAND_SPHERE_MIRROR"`
	MouseIdle     time.Duration `env:"HAND_SPHERE_MOUSE_IDLE"`
	FrameInterval time.Duration `env:"HAND_SPHERE_FRAME_INTERVAL"`

	// Relay server
	ListenAddr string `env:"HAND_SPHERE_LISTEN_ADDR"`
}

// defaults seeds a Config from the component defaults
func defaults() Config {
	nc := network.DefaultConfig()
	ac := audio.DefaultConfig()
	return Config{
		RelayURL:            nc.URL,
		Room:                nc.Room,
		KeepAlive:           nc.KeepAlive,
		Reconnect:           nc.Reconnect,
		ReconnectMaxTries:   nc.ReconnectMaxTries,
		ReconnectMaxElapsed: nc.ReconnectMaxElapsed,
		AudioEnabled:        ac.Enabled,
		SampleRate:          ac.SampleRate,
		MaxVoices:           ac.MaxVoices,
		Volume:              ac.Volume,
		ColorPolicy:         field.DefaultConfig().Policy.String(),
		MouseIdle:           constants.MouseIdleTimeout,
		FrameInterval:       constants.FrameUpdateInterval,
		ListenAddr:          constants.DefaultListenAddr,
	}
}

// Load reads .env files then the environment
// With no files, a missing ./.env is not an error
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load dotenv: %w", err)
		}
	}
	return Parse()
}

// Parse reads the environment only
// Unset variables keep their defaults
func Parse() (*Config, error) {
	cfg := defaults()
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// RegisterFlags binds command-line overrides using current values as defaults
func (c *Config) RegisterFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.RelayURL, "relay", c.RelayURL, "relay websocket URL")
	flags.StringVar(&c.Room, "room", c.Room, "room name")
	flags.BoolVar(&c.Reconnect, "reconnect", c.Reconnect, "reconnect with backoff after connection loss")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug|info|warn|error)")
	flags.StringVar(&c.LogFile, "log-file", c.LogFile, "log file path (empty for stdout)")
	flags.BoolVar(&c.AudioEnabled, "audio", c.AudioEnabled, "enable feedback tones")
	flags.StringVar(&c.ColorPolicy, "color", c.ColorPolicy, "color policy (nearest|last)")
	flags.StringVar(&c.Tracker, "tracker", c.Tracker, "pointer source (mouse|stdin|orbit)")
	flags.BoolVar(&c.Mirror, "mirror", c.Mirror, "mirror pointer horizontally")
	flags.StringVar(&c.ListenAddr, "listen", c.ListenAddr, "relay listen address")
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.RelayURL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		errs = append(errs, fmt.Errorf("relay url %q: want ws:// or wss://", c.RelayURL))
	}
	if strings.TrimSpace(c.Room) == "" {
		errs = append(errs, errors.New("room must not be empty"))
	}
	if _, err := field.ParseColorPolicy(c.ColorPolicy); err != nil {
		errs = append(errs, err)
	}
	if !input.Kind(c.Tracker).Valid() {
		errs = append(errs, fmt.Errorf("unknown tracker %q", c.Tracker))
	}
	if c.FrameInterval <= 0 {
		errs = append(errs, errors.New("frame interval must be positive"))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, errors.New("sample rate must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Network returns the relay client settings
func (c *Config) Network() *network.Config {
	nc := network.DefaultConfig()
	nc.URL = c.RelayURL
	nc.Room = c.Room
	nc.KeepAlive = c.KeepAlive
	nc.Reconnect = c.Reconnect
	nc.ReconnectMaxTries = c.ReconnectMaxTries
	nc.ReconnectMaxElapsed = c.ReconnectMaxElapsed
	return nc
}

// Audio returns the feedback audio settings
func (c *Config) Audio() *audio.Config {
	ac := audio.DefaultConfig()
	ac.Enabled = c.AudioEnabled
	ac.SampleRate = c.SampleRate
	ac.MaxVoices = c.MaxVoices
	ac.Volume = c.Volume
	return ac
}

// Field returns the simulation settings; call Validate first
func (c *Config) Field() *field.Config {
	fc := field.DefaultConfig()
	if policy, err := field.ParseColorPolicy(c.ColorPolicy); err == nil {
		fc.Policy = policy
	}
	return fc
}

// Engine returns the loop settings
func (c *Config) Engine() engine.Config {
	ec := engine.DefaultConfig()
	ec.FrameInterval = c.FrameInterval
	return ec
}

// Relay returns the relay server settings
func (c *Config) Relay() *relay.Config {
	return relay.DefaultConfig()
}
