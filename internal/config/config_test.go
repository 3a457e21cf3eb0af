package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"main_page": "out/index.html",
		"subpage_dir": "out/pokemon",
		"entry_count": 20,
		"versions": ["gold", "silver"],
		"cache_backend": "sqlite"
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "out/index.html", cfg.MainPage)
	assert.Equal(t, "out/pokemon", cfg.SubpageDir)
	assert.Equal(t, 20, cfg.EntryCount)
	assert.Equal(t, []string{"gold", "silver"}, cfg.Versions)
	assert.Equal(t, BackendSQLite, cfg.CacheBackend)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := `
main_page: out/index.html
drawing_root: art
regions:
  - kanto
  - johto
timeout_seconds: 5
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "art", cfg.DrawingRoot)
	assert.Equal(t, []string{"kanto", "johto"}, cfg.Regions)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("regions: [kanto\n"), 0644))

	_, err := LoadConfig(tmpFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_Layers(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"entry_count": 10, "cache_path": "file-cache.txt"}`), 0644))

	t.Setenv("POKEDEX_CACHE_PATH", "env-cache.txt")
	t.Setenv("POKEDEX_VERSIONS", "red,green")

	cfg, err := Load(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.EntryCount)                       // file
	assert.Equal(t, "env-cache.txt", cfg.CachePath)           // env beats file
	assert.Equal(t, []string{"red", "green"}, cfg.Versions)   // env
	assert.Equal(t, []string{"kanto"}, cfg.Regions)           // default
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.BaseURL) // default
	assert.Equal(t, map[string]bool{"red": true, "green": true}, cfg.AllowedVersions())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 151, cfg.EntryCount)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_DefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing main page", func(c *Config) { c.MainPage = "" }, "'MainPage' failed required"},
		{"entry count too low", func(c *Config) { c.EntryCount = 0 }, "'EntryCount' failed min"},
		{"negative offset", func(c *Config) { c.Offset = -1 }, "'Offset' failed min"},
		{"no versions", func(c *Config) { c.Versions = nil }, "'Versions' failed min"},
		{"blank region", func(c *Config) { c.Regions = []string{""} }, "failed required"},
		{"bad backend", func(c *Config) { c.CacheBackend = "redis" }, "'CacheBackend' failed oneof"},
		{"postgres without url", func(c *Config) { c.CacheBackend = BackendPostgres }, "'DatabaseURL' failed required_if"},
		{"file backend without path", func(c *Config) { c.CachePath = "" }, "'CachePath' failed required_unless"},
		{"bad base url", func(c *Config) { c.BaseURL = "not a url" }, "'BaseURL' failed url"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "'LogLevel' failed oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_PostgresWithoutCachePath(t *testing.T) {
	cfg := Default()
	cfg.CacheBackend = BackendPostgres
	cfg.CachePath = ""
	cfg.DatabaseURL = "postgres://localhost/pokedex"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_DrawingRootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "drawings")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	cfg := Default()
	cfg.DrawingRoot = file
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{
		MainPage:   "custom.html",
		EntryCount: 5,
	}
	defaults := Default()

	result := cfg.MergeWithDefaults(defaults)

	// Original values preserved
	assert.Equal(t, "custom.html", result.MainPage)
	assert.Equal(t, 5, result.EntryCount)

	// Empty values filled from defaults
	assert.Equal(t, defaults.SubpageDir, result.SubpageDir)
	assert.Equal(t, defaults.Regions, result.Regions)
	assert.Equal(t, defaults.CacheBackend, result.CacheBackend)
	assert.Equal(t, defaults.TimeoutSeconds, result.TimeoutSeconds)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{MainPage: "a.html"}
	result := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "a.html", result.MainPage)
	assert.Empty(t, result.SubpageDir)
	assert.Nil(t, result.Regions)
}
