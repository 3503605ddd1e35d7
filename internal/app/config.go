package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/klauspost/pgzip"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (POKEDEX_ prefix), a local .env file, or YAML config
// files.
type Config struct {
	Addr        string        `default:"0.0.0.0:8080" usage:"HTTP server listen address"`
	Headline    string        `default:"Pokédex" usage:"Title shown on the list page"`
	PokeAPI     PokeAPIConfig `env:"POKEAPI" yaml:"pokeapi"`
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Compression CompressionConfig
	Graceful    GracefulConfig
}

// PokeAPIConfig controls the upstream data source.
type PokeAPIConfig struct {
	BaseURL          string        `default:"https://pokeapi.co/api/v2" usage:"PokeAPI root URL" flag:"pokeapi-url"`
	CatalogLimit     int           `default:"100000" usage:"Number of items requested for the catalog listing"`
	FetchConcurrency int           `default:"16" usage:"Max concurrent detail fetches per load (0 = unbounded)"`
	Language         string        `default:"en" usage:"Ability description language (empty = first entry)"`
	Timeout          time.Duration `default:"0s" usage:"Upstream request timeout (0 = none)"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
	MaxAge  int      `default:"86400" usage:"Preflight cache lifetime in seconds"`
}

// CompressionConfig controls gzip response compression.
type CompressionConfig struct {
	Enabled bool `default:"true" usage:"Gzip responses for clients that accept it"`
	Level   int  `default:"-1" usage:"Gzip level (-1 = default, 1-9)"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from a .env file, environment variables and
// YAML config files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	// A missing .env is the common case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	return loadConfig(aconfig.Config{
		EnvPrefix: "POKEDEX",
		Files:     []string{"config.yaml", "/etc/pokedex/config.yaml"},
	})
}

func loadConfig(ac aconfig.Config) (*Config, error) {
	ac.FileDecoders = map[string]aconfig.FileDecoder{
		".yaml": aconfigyaml.New(),
	}

	var cfg Config
	if err := aconfig.LoaderFor(&cfg, ac).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.PokeAPI.BaseURL == "":
		return errors.New("pokeapi base URL is required")
	case c.PokeAPI.CatalogLimit <= 0:
		return errors.Errorf("catalog limit must be positive, got %d", c.PokeAPI.CatalogLimit)
	case c.PokeAPI.FetchConcurrency < 0:
		return errors.Errorf("fetch concurrency must not be negative, got %d", c.PokeAPI.FetchConcurrency)
	case c.Compression.Level < pgzip.DefaultCompression || c.Compression.Level > pgzip.BestCompression:
		return errors.Errorf("invalid gzip level %d", c.Compression.Level)
	}
	return nil
}

// applyPlatformDefaults honours the PORT variable set by hosting platforms
// (Railway, Render, etc.) unless an explicit address was configured.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
