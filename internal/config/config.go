// Package config holds the pipeline and viewer settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when none is given, relative to the working directory.
const DefaultPath = "config/scenegen.yaml"

// EnvPrefix prefixes environment overrides, e.g. SCENEGEN_OUTPUT or SCENEGEN_LOG_LEVEL.
const EnvPrefix = "SCENEGEN"

// Config holds all settings. Keys are case-insensitive, so names under Vars arrive lowercased.
type Config struct {
	Input    string         `mapstructure:"input" yaml:"input"`
	Output   string         `mapstructure:"output" yaml:"output"` // empty = next to the templates
	Partials string         `mapstructure:"partials" yaml:"partials"`
	Pretty   bool           `mapstructure:"pretty" yaml:"pretty"`
	Indent   string         `mapstructure:"indent" yaml:"indent"`
	Workers  int            `mapstructure:"workers" yaml:"workers"`
	Debounce time.Duration  `mapstructure:"debounce" yaml:"debounce"`
	Vars     map[string]any `mapstructure:"vars" yaml:"vars,omitempty"`
	Log      Log            `mapstructure:"log" yaml:"log"`
	Preview  Preview        `mapstructure:"preview" yaml:"preview"`
}

// Log configures logging. An empty File logs to stderr only.
type Log struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"maxsizemb" yaml:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxbackups" yaml:"maxBackups"`
}

// Preview configures the scene viewer.
type Preview struct {
	Width       int    `mapstructure:"width" yaml:"width"`
	Height      int    `mapstructure:"height" yaml:"height"`
	GridVisible bool   `mapstructure:"gridvisible" yaml:"gridVisible"`
	ShowFPS     bool   `mapstructure:"showfps" yaml:"showFPS"`
	Physics     bool   `mapstructure:"physics" yaml:"physics"`
	Primitives  string `mapstructure:"primitives" yaml:"primitives"`
}

// Default returns the default settings.
func Default() Config {
	return Config{
		Input:    "assets/scenes",
		Partials: "assets/scenes/partials",
		Pretty:   true,
		Indent:   "    ",
		Workers:  4,
		Debounce: 200 * time.Millisecond,
		Log: Log{
			Level:      "INFO",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
		Preview: Preview{
			Width:       1280,
			Height:      720,
			GridVisible: true,
			ShowFPS:     true,
			Physics:     true,
			Primitives:  "assets/primitives",
		},
	}
}

// Load reads settings from the YAML file at path and applies SCENEGEN_* environment overrides.
// A missing file is not an error; defaults are used for everything it does not set.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return Default(), fmt.Errorf("config %s: %w", path, err)
			}
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input dir is empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Debounce)
	}
	return nil
}

// OutputDir returns the directory built scenes are written to.
func (c Config) OutputDir() string {
	if c.Output == "" {
		return c.Input
	}
	return c.Output
}

// Marshal returns the settings as YAML.
func Marshal(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes settings to path as YAML, creating the directory if needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// setDefaults registers every key so environment overrides apply even when the file omits it.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("input", d.Input)
	v.SetDefault("output", d.Output)
	v.SetDefault("partials", d.Partials)
	v.SetDefault("pretty", d.Pretty)
	v.SetDefault("indent", d.Indent)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("debounce", d.Debounce)
	v.SetDefault("vars", map[string]any{})
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.maxsizemb", d.Log.MaxSizeMB)
	v.SetDefault("log.maxbackups", d.Log.MaxBackups)
	v.SetDefault("preview.width", d.Preview.Width)
	v.SetDefault("preview.height", d.Preview.Height)
	v.SetDefault("preview.gridvisible", d.Preview.GridVisible)
	v.SetDefault("preview.showfps", d.Preview.ShowFPS)
	v.SetDefault("preview.physics", d.Preview.Physics)
	v.SetDefault("preview.primitives", d.Preview.Primitives)
}
