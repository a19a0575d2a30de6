package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tabstrip/internal/gesture"
	"tabstrip/internal/model"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Gesture GestureConfig `mapstructure:"gesture"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`

	// Tabs overrides the built-in seed sequence.
	Tabs []model.Tab `mapstructure:"tabs"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

type StorageConfig struct {
	// Backend is one of: file|sqlite
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

type GestureConfig struct {
	PointerDistance float64       `mapstructure:"pointer_distance"`
	TouchDelay      time.Duration `mapstructure:"touch_delay"`
	TouchTolerance  float64       `mapstructure:"touch_tolerance"`
}

type LayoutConfig struct {
	// ReserveOverflow reserves room for the overflow trigger. When false the
	// partition uses the full container width.
	ReserveOverflow bool `mapstructure:"reserve_overflow"`
}

type UIConfig struct {
	ResizeDebounce time.Duration `mapstructure:"resize_debounce"`
	// Glyphs is one of: auto|unicode|ascii
	Glyphs string `mapstructure:"glyphs"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func (g GestureConfig) Thresholds() gesture.Thresholds {
	return gesture.Thresholds{
		PointerDistance: g.PointerDistance,
		TouchDelay:      g.TouchDelay,
		TouchTolerance:  g.TouchTolerance,
	}
}

// SeedTabs returns the configured seed, or the defaults when none is set.
func (c Config) SeedTabs() []model.Tab {
	if len(c.Tabs) == 0 {
		return model.DefaultTabs()
	}
	return model.CloneTabs(c.Tabs)
}

func setDefaults(v *viper.Viper) {
	th := gesture.DefaultThresholds()
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", "")
	v.SetDefault("gesture.pointer_distance", th.PointerDistance)
	v.SetDefault("gesture.touch_delay", th.TouchDelay)
	v.SetDefault("gesture.touch_tolerance", th.TouchTolerance)
	v.SetDefault("layout.reserve_overflow", true)
	v.SetDefault("ui.resize_debounce", 120*time.Millisecond)
	v.SetDefault("ui.glyphs", "auto")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// DefaultPath returns $TABSTRIP_CONFIG, or <user config dir>/tabstrip/config.toml.
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv("TABSTRIP_CONFIG")); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tabstrip", "config.toml")
}

// Load reads configuration from path (or DefaultPath when empty) and env.
// Env var overrides use prefix TABSTRIP_. A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("TABSTRIP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	file := ""
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else {
			file = v.ConfigFileUsed()
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.File = file
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "file", "sqlite":
	default:
		return fmt.Errorf("storage.backend: unknown backend %q (expected file|sqlite)", c.Storage.Backend)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q (expected debug|info|warn|error)", c.Log.Level)
	}
	switch strings.ToLower(c.UI.Glyphs) {
	case "auto", "unicode", "ascii":
	default:
		return fmt.Errorf("ui.glyphs: unknown glyph set %q (expected auto|unicode|ascii)", c.UI.Glyphs)
	}
	if c.Gesture.PointerDistance < 0 || c.Gesture.TouchTolerance < 0 || c.Gesture.TouchDelay < 0 {
		return errors.New("gesture: thresholds must not be negative")
	}
	if c.UI.ResizeDebounce < 0 {
		return errors.New("ui.resize_debounce must not be negative")
	}
	if len(c.Tabs) > 0 {
		if err := model.Validate(c.Tabs); err != nil {
			return fmt.Errorf("tabs: %w", err)
		}
	}
	return nil
}
