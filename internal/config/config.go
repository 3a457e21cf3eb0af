// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Cache backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config represents the generator configuration. It can be loaded from a
// JSON or YAML file and overridden by POKEDEX_* environment variables.
type Config struct {
	// Output paths
	MainPage          string `json:"main_page,omitempty" yaml:"main_page,omitempty" env:"POKEDEX_MAIN_PAGE" validate:"required"`                // Path of the generated index page
	SubpageDir        string `json:"subpage_dir,omitempty" yaml:"subpage_dir,omitempty" env:"POKEDEX_SUBPAGE_DIR" validate:"required"`          // Directory receiving one page per entry
	Stylesheet        string `json:"stylesheet,omitempty" yaml:"stylesheet,omitempty" env:"POKEDEX_STYLESHEET"`                                // Relative to the main page
	SubpageStylesheet string `json:"subpage_stylesheet,omitempty" yaml:"subpage_stylesheet,omitempty" env:"POKEDEX_SUBPAGE_STYLESHEET"`        // Relative to the subpage directory
	DrawingRoot       string `json:"drawing_root,omitempty" yaml:"drawing_root,omitempty" env:"POKEDEX_DRAWING_ROOT" validate:"required"`       // Holds Regions/, Areas/, Locations/

	// Data selection
	EntryCount int      `json:"entry_count,omitempty" yaml:"entry_count,omitempty" env:"POKEDEX_ENTRY_COUNT" validate:"min=1,max=2000"`
	Offset     int      `json:"offset,omitempty" yaml:"offset,omitempty" env:"POKEDEX_OFFSET" validate:"min=0"`
	Regions    []string `json:"regions,omitempty" yaml:"regions,omitempty" env:"POKEDEX_REGIONS" envSeparator:"," validate:"min=1,dive,required"`
	Versions   []string `json:"versions,omitempty" yaml:"versions,omitempty" env:"POKEDEX_VERSIONS" envSeparator:"," validate:"min=1,dive,required"`
	BaseURL    string   `json:"base_url,omitempty" yaml:"base_url,omitempty" env:"POKEDEX_BASE_URL" validate:"required,url"`

	// Cache
	CacheBackend string `json:"cache_backend,omitempty" yaml:"cache_backend,omitempty" env:"POKEDEX_CACHE_BACKEND" validate:"oneof=file sqlite postgres"`
	CachePath    string `json:"cache_path,omitempty" yaml:"cache_path,omitempty" env:"POKEDEX_CACHE_PATH" validate:"required_unless=CacheBackend postgres"`
	DatabaseURL  string `json:"database_url,omitempty" yaml:"database_url,omitempty" env:"DATABASE_URL" validate:"required_if=CacheBackend postgres"`

	// Behavior
	TimeoutSeconds    int     `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty" env:"POKEDEX_TIMEOUT_SECONDS" validate:"min=1"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty" env:"POKEDEX_REQUESTS_PER_SECOND" validate:"min=0"` // Upstream throttle for cache misses, 0 disables
	Burst             int     `json:"burst,omitempty" yaml:"burst,omitempty" env:"POKEDEX_BURST" validate:"min=0"`
	LogLevel          string  `json:"log_level,omitempty" yaml:"log_level,omitempty" env:"POKEDEX_LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Preview server
	Port int `json:"port,omitempty" yaml:"port,omitempty" env:"PORT" validate:"min=0,max=65535"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		MainPage:       "site/index.html",
		SubpageDir:     "site/pokemon",
		DrawingRoot:    "drawings",
		EntryCount:     151,
		Regions:        []string{"kanto"},
		Versions:       []string{"red", "blue", "yellow"},
		BaseURL:        "https://pokeapi.co/api/v2",
		CacheBackend:   BackendFile,
		CachePath:      "cache.txt",
		TimeoutSeconds: 30,
		// PokeAPI asks clients to cache and keep request rates modest.
		RequestsPerSecond: 10,
		Burst:             5,
		LogLevel:          "info",
		Port:              8080,
	}
}

// Timeout is the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// AllowedVersions returns Versions as a set.
func (c *Config) AllowedVersions() map[string]bool {
	set := make(map[string]bool, len(c.Versions))
	for _, v := range c.Versions {
		set[v] = true
	}
	return set
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load layers defaults, the optional config file, and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields whose environment variable is set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if info, err := os.Stat(c.DrawingRoot); err == nil && !info.IsDir() {
		return fmt.Errorf("config error: drawing root is not a directory: %s", c.DrawingRoot)
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.MainPage, defaults.MainPage)
	mergeString(&result.SubpageDir, defaults.SubpageDir)
	mergeString(&result.Stylesheet, defaults.Stylesheet)
	mergeString(&result.SubpageStylesheet, defaults.SubpageStylesheet)
	mergeString(&result.DrawingRoot, defaults.DrawingRoot)
	mergeString(&result.BaseURL, defaults.BaseURL)
	mergeString(&result.CacheBackend, defaults.CacheBackend)
	mergeString(&result.CachePath, defaults.CachePath)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.LogLevel, defaults.LogLevel)

	// Int fields: use default if zero
	if result.EntryCount == 0 {
		result.EntryCount = defaults.EntryCount
	}
	if result.Offset == 0 {
		result.Offset = defaults.Offset
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.RequestsPerSecond == 0 {
		result.RequestsPerSecond = defaults.RequestsPerSecond
	}
	if result.Burst == 0 {
		result.Burst = defaults.Burst
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Slices: use default if empty
	if len(result.Regions) == 0 {
		result.Regions = defaults.Regions
	}
	if len(result.Versions) == 0 {
		result.Versions = defaults.Versions
	}

	return result
}

func mergeString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}
