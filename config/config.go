package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/soocke/captol-go/domain/region"
)

// Config holds runtime configuration for capture and app behavior.
// Values come from the YAML config file, CAPTOL_* environment variables and
// command-line flags, in increasing priority.
type Config struct {
	Debug   bool                        `mapstructure:"debug" yaml:"debug"`
	Capture CaptureConfig               `mapstructure:"capture" yaml:"capture"`
	Regions map[string]region.Rectangle `mapstructure:"regions" yaml:"regions"`
	Overlay OverlayConfig               `mapstructure:"overlay" yaml:"overlay"`
	Logging LoggingConfig               `mapstructure:"logging" yaml:"logging"`
}

// CaptureConfig controls the periodic capture.
type CaptureConfig struct {
	// AutoclipInterval is the pause between two automatic captures, in seconds.
	AutoclipInterval float64 `mapstructure:"autoclip_interval" yaml:"autoclip_interval"`
	// EnableActiveImageSaver selects the flicker-correcting policy instead of
	// plain duplicate suppression.
	EnableActiveImageSaver bool `mapstructure:"enable_active_image_saver" yaml:"enable_active_image_saver"`
	// Extension of saved images: png, bmp or tiff.
	Extension string `mapstructure:"extension" yaml:"extension"`
	// DefaultFolder receives the numbered images.
	DefaultFolder string `mapstructure:"default_folder" yaml:"default_folder"`
	// Region names the entry of Regions used when no rectangle is given.
	Region string `mapstructure:"region" yaml:"region"`
}

// OverlayConfig controls the on-screen capture indicator.
type OverlayConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	FlashMs int  `mapstructure:"flash_ms" yaml:"flash_ms"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// File receives log output; empty means stderr.
	File string `mapstructure:"file" yaml:"file"`
}

// Default returns a Config populated with standard defaults.
func Default() *Config {
	return &Config{
		Debug: false,
		Capture: CaptureConfig{
			AutoclipInterval:       1.0,
			EnableActiveImageSaver: false,
			Extension:              "png",
			DefaultFolder:          defaultFolder(),
		},
		Regions: map[string]region.Rectangle{},
		Overlay: OverlayConfig{Enabled: true, FlashMs: 80},
		Logging: LoggingConfig{Level: "info"},
	}
}

func defaultFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "captol"
	}
	return filepath.Join(home, "Pictures", "captol")
}

// SetDefaults registers Default() with the global viper instance.
func SetDefaults() {
	SetDefaultsOn(viper.GetViper())
}

// SetDefaultsOn registers Default() with v.
func SetDefaultsOn(v *viper.Viper) {
	d := Default()

	v.SetDefault("debug", d.Debug)

	v.SetDefault("capture.autoclip_interval", d.Capture.AutoclipInterval)
	v.SetDefault("capture.enable_active_image_saver", d.Capture.EnableActiveImageSaver)
	v.SetDefault("capture.extension", d.Capture.Extension)
	v.SetDefault("capture.default_folder", d.Capture.DefaultFolder)
	v.SetDefault("capture.region", d.Capture.Region)

	v.SetDefault("overlay.enabled", d.Overlay.Enabled)
	v.SetDefault("overlay.flash_ms", d.Overlay.FlashMs)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// Load unmarshals the current viper state and validates it.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom is Load for an explicit viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Regions == nil {
		cfg.Regions = map[string]region.Rectangle{}
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Save writes the configuration to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// UIRefresh is how often the desktop front end applies queued overlay changes.
const UIRefresh = 50 * time.Millisecond

// AutoclipDuration converts AutoclipInterval to a time.Duration.
func (c *CaptureConfig) AutoclipDuration() time.Duration {
	return time.Duration(c.AutoclipInterval * float64(time.Second))
}

// FlashDuration converts FlashMs to a time.Duration.
func (c *OverlayConfig) FlashDuration() time.Duration {
	return time.Duration(c.FlashMs) * time.Millisecond
}

// Region looks up a named region.
func (c *Config) Region(name string) (region.Rectangle, bool) {
	r, ok := c.Regions[name]
	return r, ok
}

// RegionNames returns the configured region names in sorted order.
func (c *Config) RegionNames() []string {
	names := make([]string, 0, len(c.Regions))
	for n := range c.Regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "captol")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".captol"
	}
	return filepath.Join(home, ".config", "captol")
}

// ConfigFile returns the path to the default config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
