package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/milk9111/alvere/common"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Window  WindowConfig  `toml:"window" yaml:"window"`
	Loop    LoopConfig    `toml:"loop" yaml:"loop"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Assets  AssetsConfig  `toml:"assets" yaml:"assets"`
}

type WindowConfig struct {
	Title     string `toml:"title" yaml:"title"`
	Width     int    `toml:"width" yaml:"width"`
	Height    int    `toml:"height" yaml:"height"`
	Resizable bool   `toml:"resizable" yaml:"resizable"`
}

type LoopConfig struct {
	TickRate    int           `toml:"tick_rate" yaml:"tick_rate"`
	MaxCatchUp  int           `toml:"max_catch_up" yaml:"max_catch_up"` // 0 = unbounded
	ClearColour string        `toml:"clear_colour" yaml:"clear_colour"` // "#rrggbb" or "#rrggbbaa"
	FPSWindow   time.Duration `toml:"fps_window" yaml:"fps_window"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

type AssetsConfig struct {
	PrefabDir string `toml:"prefab_dir" yaml:"prefab_dir"` // empty = embedded prefabs only
	Scene     string `toml:"scene" yaml:"scene"`
	Watch     bool   `toml:"watch" yaml:"watch"`
}

// Load reads path over the defaults. The format follows the extension:
// .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalid, ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "alvere",
			Width:     640,
			Height:    360,
			Resizable: true,
		},
		Loop: LoopConfig{
			TickRate:    60,
			ClearColour: "#000000",
			FPSWindow:   time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Assets: AssetsConfig{
			Scene: "demo",
		},
	}
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, c.Loop.TickRate)
	}
	if c.Loop.MaxCatchUp < 0 {
		return fmt.Errorf("%w: max_catch_up must not be negative, got %d", ErrInvalid, c.Loop.MaxCatchUp)
	}
	if c.Loop.FPSWindow <= 0 {
		return fmt.Errorf("%w: fps_window must be positive, got %v", ErrInvalid, c.Loop.FPSWindow)
	}
	if _, err := c.Loop.Clear(); err != nil {
		return fmt.Errorf("%w: clear_colour: %v", ErrInvalid, err)
	}
	return nil
}

// Clear parses ClearColour.
func (l LoopConfig) Clear() (color.RGBA, error) {
	return common.ParseHexColor(l.ClearColour)
}

// ApplyEnv overrides fields from ALVERE_* variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("ALVERE_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup("ALVERE_LOG_FORMAT"); ok {
		c.Logging.Format = v
	}
	if v, ok := lookup("ALVERE_PREFAB_DIR"); ok {
		c.Assets.PrefabDir = v
	}
	if v, ok := lookup("ALVERE_SCENE"); ok {
		c.Assets.Scene = v
	}
	if v, ok := lookup("ALVERE_TICK_RATE"); ok {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ALVERE_TICK_RATE: %v", ErrInvalid, err)
		}
		c.Loop.TickRate = rate
	}
	return c.Validate()
}
