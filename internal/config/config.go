package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the agentcommerce server configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Database DatabaseConfig `yaml:"database"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Corpus drivers.
const (
	CorpusDriverFile  = "file"
	CorpusDriverRedis = "redis"
)

// CorpusConfig selects where the restaurant corpus and generic menus are loaded from.
type CorpusConfig struct {
	Driver    string `yaml:"driver"` // file, redis (default: file)
	Path      string `yaml:"path"`
	MenusPath string `yaml:"menus_path"`
	Key       string `yaml:"key"`
	MenusKey  string `yaml:"menus_key"`
}

// DatabaseConfig holds key-value store connection settings. Used by the redis corpus driver.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// GeocoderConfig holds place-search provider settings.
type GeocoderConfig struct {
	BaseURL      string   `yaml:"base_url"`
	UserAgent    string   `yaml:"user_agent"`
	TimeoutSec   int      `yaml:"timeout_sec"`
	CountryCodes []string `yaml:"country_codes"`
}

// SearchConfig holds search policy settings.
type SearchConfig struct {
	RadiusKm     float64          `yaml:"radius_km"`
	DefaultLimit int              `yaml:"default_limit"`
	MaxLimit     int              `yaml:"max_limit"`
	Source       string           `yaml:"source"`
	Synonyms     []SynonymsConfig `yaml:"synonyms"` // replaces the built-in taxonomy when set
}

// SynonymsConfig is one synonym class. Order in the list decides category precedence.
type SynonymsConfig struct {
	Alias    string   `yaml:"alias"`
	Synonyms []string `yaml:"synonyms"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Corpus.Driver == "" {
		c.Corpus.Driver = CorpusDriverFile
	}
	if c.Corpus.Path == "" {
		c.Corpus.Path = "data/restaurants.json"
	}
	if c.Corpus.MenusPath == "" {
		c.Corpus.MenusPath = "data/menus.json"
	}
	if c.Corpus.Key == "" {
		c.Corpus.Key = "agentcommerce:{corpus}:restaurants"
	}
	if c.Corpus.MenusKey == "" {
		c.Corpus.MenusKey = "agentcommerce:{corpus}:menus"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Geocoder.TimeoutSec <= 0 {
		c.Geocoder.TimeoutSec = 5
	}
	if c.Search.RadiusKm <= 0 {
		c.Search.RadiusKm = 30
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 10
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 25
	}
	if c.Search.Source == "" {
		c.Search.Source = "local-db"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Corpus.Driver {
	case CorpusDriverFile:
	case CorpusDriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis corpus driver")
		}
	default:
		return fmt.Errorf("corpus.driver must be %q or %q, got %q", CorpusDriverFile, CorpusDriverRedis, c.Corpus.Driver)
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) exceeds search.max_limit (%d)", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	for i, s := range c.Search.Synonyms {
		if strings.TrimSpace(s.Alias) == "" {
			return fmt.Errorf("search.synonyms[%d].alias is required", i)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
