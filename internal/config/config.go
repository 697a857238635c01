package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/friendfinder/internal/core/hud"
	"github.com/zeusync/friendfinder/internal/core/observability/log"
	"github.com/zeusync/friendfinder/internal/core/tracker"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root of the YAML configuration file.
type Config struct {
	Log     LogConfig     `json:"log" yaml:"log"`
	Bridge  BridgeConfig  `json:"bridge" yaml:"bridge"`
	Tracker TrackerConfig `json:"tracker" yaml:"tracker"`
	Keys    KeysConfig    `json:"keys" yaml:"keys"`
	Palette hud.Palette   `json:"palette" yaml:"palette"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type BridgeConfig struct {
	ListenAddr   string        `json:"listen_addr" yaml:"listen_addr"`
	ReadLimit    int64         `json:"read_limit" yaml:"read_limit"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

type TrackerConfig struct {
	EnabledOnStart      bool `json:"enabled_on_start" yaml:"enabled_on_start"`
	SkipUnchangedRoster bool `json:"skip_unchanged_roster" yaml:"skip_unchanged_roster"`
}

// KeysConfig carries the default key names handed to the host plugin, which
// owns the actual key bindings.
type KeysConfig struct {
	Toggle      string `json:"toggle" yaml:"toggle"`
	Cycle       string `json:"cycle" yaml:"cycle"`
	AddWaypoint string `json:"add_waypoint" yaml:"add_waypoint"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Bridge: BridgeConfig{
			ListenAddr:   "127.0.0.1:25580",
			ReadLimit:    64 * 1024,
			WriteTimeout: 2 * time.Second,
		},
		Tracker: TrackerConfig{
			EnabledOnStart:      false,
			SkipUnchangedRoster: true,
		},
		Keys: KeysConfig{
			Toggle:      "I",
			Cycle:       "N",
			AddWaypoint: "M",
		},
		Palette: hud.DefaultPalette(),
	}
}

// Load decodes YAML on top of Default and validates the result.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile reads the config at path. An empty path yields Default.
func LoadFile(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks the configuration for values the process cannot run with.
func (c Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Bridge.ListenAddr == "" {
		errs = append(errs, errors.New("bridge.listen_addr is required"))
	}
	if c.Bridge.ReadLimit <= 0 {
		errs = append(errs, errors.New("bridge.read_limit must be positive"))
	}
	if c.Bridge.WriteTimeout <= 0 {
		errs = append(errs, errors.New("bridge.write_timeout must be positive"))
	}
	colors := []struct {
		field string
		color hud.Color
	}{
		{"name", c.Palette.Name},
		{"angle", c.Palette.Angle},
		{"distance", c.Palette.Distance},
		{"height", c.Palette.Height},
		{"warning", c.Palette.Warning},
		{"notice", c.Palette.Notice},
		{"tracking", c.Palette.Tracking},
	}
	for _, pc := range colors {
		if !pc.color.Valid() {
			errs = append(errs, fmt.Errorf("palette.%s: unknown colour %q", pc.field, pc.color))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LogLevel returns the parsed log level. Call after Validate.
func (c Config) LogLevel() log.Level {
	level, _ := log.ParseLevel(c.Log.Level)
	return level
}

// ForTracker maps the file onto the tracker's own configuration.
func (c Config) ForTracker() tracker.Config {
	return tracker.Config{
		EnabledOnStart:      c.Tracker.EnabledOnStart,
		SkipUnchangedRoster: c.Tracker.SkipUnchangedRoster,
		Palette:             c.Palette,
	}
}
