// Package config loads the settings shared by the formdisplay commands from
// an optional YAML file and the environment. Environment variables win over
// the file, and the file wins over the built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdisplay/pkg/i18n"
	"github.com/goliatone/go-formdisplay/pkg/transport/graphql"
)

// Config is the resolved configuration.
type Config struct {
	Endpoint       string        `yaml:"endpoint" env:"FORMDISPLAY_ENDPOINT"`
	UploadEndpoint string        `yaml:"upload_endpoint" env:"FORMDISPLAY_UPLOAD_ENDPOINT"`
	Token          string        `yaml:"token" env:"FORMDISPLAY_TOKEN"`
	Locale         string        `yaml:"locale" env:"FORMDISPLAY_LOCALE"`
	Theme          string        `yaml:"theme" env:"FORMDISPLAY_THEME"`
	GeoBaseURL     string        `yaml:"geo_base_url" env:"FORMDISPLAY_GEO_BASE_URL"`
	Timeout        time.Duration `yaml:"timeout" env:"FORMDISPLAY_TIMEOUT"`
	ScriptTimeout  time.Duration `yaml:"script_timeout" env:"FORMDISPLAY_SCRIPT_TIMEOUT"`
	Validators     string        `yaml:"validators" env:"FORMDISPLAY_VALIDATORS"`
	ListenAddr     string        `yaml:"listen_addr" env:"FORMDISPLAY_LISTEN_ADDR"`
	Log            Log           `yaml:"log"`
}

// Log configures pkg/logging.
type Log struct {
	Level  string `yaml:"level" env:"FORMDISPLAY_LOG_LEVEL"`
	Format string `yaml:"format" env:"FORMDISPLAY_LOG_FORMAT"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Endpoint:      graphql.DefaultEndpoint,
		Locale:        i18n.DefaultLocale,
		Theme:         "souqfann",
		GeoBaseURL:    "http://127.0.0.1:8080",
		Timeout:       15 * time.Second,
		ScriptTimeout: 250 * time.Millisecond,
		ListenAddr:    ":8080",
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load resolves the configuration. path may be empty; a missing file named
// explicitly is an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := FromEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Parse overlays YAML data onto cfg.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

// FromEnv overlays the environment onto cfg. Fields without a matching
// variable keep their current value.
func FromEnv(cfg *Config) error {
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Validate reports settings the commands cannot work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return errors.New("config: endpoint is required")
	}
	if c.Timeout < 0 || c.ScriptTimeout < 0 {
		return errors.New("config: timeouts must not be negative")
	}
	return nil
}

// Exists reports whether path names a readable file. Commands use it to pick
// up a default config file without failing when it is absent.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
