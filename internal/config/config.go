package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains service configuration loaded from environment variables.
type Config struct {
	// Host is the bind address; defaults to all interfaces.
	Host string `env:"HOST" envDefault:"0.0.0.0"`

	// Port is the HTTP listen port.
	Port int `env:"PORT" envDefault:"3000"`

	// UploadDir receives raw source uploads.
	UploadDir string `env:"UPLOAD_DIR" envDefault:"data/uploads"`

	// OutputDir receives persisted obfuscated artifacts.
	OutputDir string `env:"OUTPUT_DIR" envDefault:"data/output"`

	// EngineBin is the obfuscation engine executable resolved via PATH.
	EngineBin string `env:"ENGINE_BIN" envDefault:"javascript-obfuscator"`

	// PresetsFile optionally points to a JSON file of preset overrides.
	PresetsFile string `env:"PRESETS_FILE"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LogJSON switches the process logger to JSON output.
	LogJSON bool `env:"LOG_JSON" envDefault:"false"`
}

// Load reads configuration from a best-effort .env file and the process
// environment, then applies guardrails.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize clamps invalid values back to usable defaults.
func (c *Config) Sanitize() {
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = 3000
	}
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.UploadDir == "" {
		c.UploadDir = "data/uploads"
	}
	if c.OutputDir == "" {
		c.OutputDir = "data/output"
	}
	if c.EngineBin == "" {
		c.EngineBin = "javascript-obfuscator"
	}
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
