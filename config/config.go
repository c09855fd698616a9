package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"go-padlight/animation"
	"go-padlight/palette"
)

// Layout selects how grid positions map to device notes
type Layout string

const (
	LayoutLegacy     Layout = "legacy"     // 16*y+x notes, CC 0x68+ control row
	LayoutProgrammer Layout = "programmer" // Launchpad X programmer mode
)

// PaletteKind selects how colors are encoded for the device
type PaletteKind string

const (
	PaletteLegacy PaletteKind = "legacy" // red/green LED levels
	PaletteRGB    PaletteKind = "rgb"    // Launchpad X velocity palette
)

// EngineConfig controls the tick loop
type EngineConfig struct {
	FPS  int   `yaml:"fps"`
	Seed int64 `yaml:"seed,omitempty"` // 0 = seed from clock
}

// FadeConfig holds the default fade duration per mode, in milliseconds
type FadeConfig struct {
	Standard int `yaml:"standard"`
	Short    int `yaml:"short"`
	Instant  int `yaml:"instant"`
	Multi    int `yaml:"multi"`
}

// DeviceConfig describes the lighting output
type DeviceConfig struct {
	Port    string      `yaml:"port"` // case-insensitive substring of the output port name
	Layout  Layout      `yaml:"layout"`
	Palette PaletteKind `yaml:"palette"`
}

// PadConfig chooses what a physical pad press triggers
type PadConfig struct {
	Pattern  string  `yaml:"pattern"`
	Color    string  `yaml:"color,omitempty"`
	Duration float64 `yaml:"duration"` // seconds
}

// Config is the main configuration structure
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Fades  FadeConfig   `yaml:"fades"`
	Device DeviceConfig `yaml:"device"`
	Pads   PadConfig    `yaml:"pads"`
	Color  string       `yaml:"color"` // default pattern color
	Debug  bool         `yaml:"debug,omitempty"`

	// Colors adds or overrides named colors, name -> "#rrggbb"
	Colors map[string]string `yaml:"colors,omitempty"`
	// Theme is a GIMP palette file for the terminal UI; empty = built-in
	Theme string `yaml:"theme,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{FPS: 60},
		Fades: FadeConfig{
			Standard: 300,
			Short:    150,
			Instant:  100,
			Multi:    600,
		},
		Device: DeviceConfig{
			Port:    "launchpad",
			Layout:  LayoutLegacy,
			Palette: PaletteLegacy,
		},
		Pads: PadConfig{
			Pattern:  "ripple",
			Duration: 1.0,
		},
		Color: "amber",
	}
}

// TickInterval returns the frame period for the configured FPS
func (e EngineConfig) TickInterval() time.Duration {
	fps := e.FPS
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// Ms converts a millisecond field to a duration
func Ms(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Defaults converts the configured durations for the fade engine
func (f FadeConfig) Defaults() animation.FadeDefaults {
	return animation.FadeDefaults{
		Standard: Ms(f.Standard),
		Short:    Ms(f.Short),
		Instant:  Ms(f.Instant),
		Multi:    Ms(f.Multi),
	}
}

// Vocabulary builds the color vocabulary for the configured device palette,
// with any user colors defined on top of the built-ins
func (c *Config) Vocabulary() (*palette.Vocabulary, error) {
	kind := palette.KindLegacy
	if c.Device.Palette == PaletteRGB {
		kind = palette.KindRGB
	}
	v := palette.New(kind)
	for name, hex := range c.Colors {
		if err := v.Define(name, hex); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-padlight"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Fields missing from the file keep their defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with
func (c *Config) Validate() error {
	if c.Engine.FPS < 0 || c.Engine.FPS > 1000 {
		return fmt.Errorf("engine.fps out of range: %d", c.Engine.FPS)
	}
	switch c.Device.Layout {
	case LayoutLegacy, LayoutProgrammer:
	default:
		return fmt.Errorf("unknown device.layout %q", c.Device.Layout)
	}
	switch c.Device.Palette {
	case PaletteLegacy, PaletteRGB:
	default:
		return fmt.Errorf("unknown device.palette %q", c.Device.Palette)
	}
	if c.Fades.Standard < 0 || c.Fades.Short < 0 || c.Fades.Instant < 0 || c.Fades.Multi < 0 {
		return errors.New("fade durations must not be negative")
	}
	return nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
