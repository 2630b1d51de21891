package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sunburst/pkg/pipeline"
)

// Config is the optional config file. Flags override every field.
type Config struct {
	Width   float64  `toml:"width" yaml:"width"`
	Height  float64  `toml:"height" yaml:"height"`
	Formats []string `toml:"formats" yaml:"formats"`
	Scale   float64  `toml:"scale" yaml:"scale"`

	Cache CacheConfig `toml:"cache" yaml:"cache"`
	Serve ServeConfig `toml:"serve" yaml:"serve"`
	Watch WatchConfig `toml:"watch" yaml:"watch"`
}

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	Dir      string `toml:"dir" yaml:"dir"`
	Disabled bool   `toml:"disabled" yaml:"disabled"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	Scope    string `toml:"scope" yaml:"scope"` // chart instance id prefixed to every key
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
	Echo bool   `toml:"echo" yaml:"echo"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce duration `toml:"debounce" yaml:"debounce"`
}

// duration decodes "600ms"-style strings from TOML and YAML.
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d *duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Width:   pipeline.DefaultWidth,
		Height:  pipeline.DefaultHeight,
		Formats: []string{pipeline.FormatSVG},
		Scale:   pipeline.DefaultScale,
		Serve:   ServeConfig{Addr: "localhost:8080", Echo: true},
		Watch:   WatchConfig{Debounce: duration{pipeline.DefaultDebounce}},
	}
}

// LoadConfig reads path over the defaults. An empty path tries the default
// location and tolerates its absence; an explicit path must exist. Files
// ending in .yaml or .yml are read as YAML, everything else as TOML.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// withEnv applies environment overrides.
func (c Config) withEnv() Config {
	if v := os.Getenv(envRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(envCacheScope); v != "" {
		c.Cache.Scope = v
	}
	if v := os.Getenv(envAddr); v != "" {
		c.Serve.Addr = v
	}
	return c
}

// loadEnv loads a dotenv file without overriding variables already set. A
// missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
