package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    Server    `yaml:"server" envconfig:"SERVER"`
	Logging   Logging   `yaml:"logging" envconfig:"LOGGING"`
	Paths     Paths     `yaml:"paths" envconfig:"PATHS"`
	Generator Generator `yaml:"generator" envconfig:"GENERATOR"`
	Theme     Theme     `yaml:"theme" envconfig:"THEME"`
	RateLimit RateLimit `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
	Export    Export    `yaml:"export" envconfig:"EXPORT"`
	Telemetry Telemetry `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// Server contains HTTP server configuration
type Server struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8090"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// Logging contains logging configuration
type Logging struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/gradeviz.log"`
}

// Generator contains synthetic dataset generation configuration
type Generator struct {
	DefaultCount int `yaml:"default_count" envconfig:"DEFAULT_COUNT" default:"50"`
	MaxCount     int `yaml:"max_count" envconfig:"MAX_COUNT" default:"500"`
}

// Theme contains chart theming configuration
type Theme struct {
	// Name selects the active palette: "light" or "dark".
	Name string `yaml:"name" envconfig:"NAME" default:"light"`
}

// RateLimit contains rate limiting configuration for the dashboard server
type RateLimit struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// Telemetry contains tracing configuration
type Telemetry struct {
	// TraceStdout dumps spans to stdout, for local debugging.
	TraceStdout bool `yaml:"trace_stdout" envconfig:"TRACE_STDOUT" default:"false"`
}

// Export contains export configuration
type Export struct {
	// MaxCSVBytes caps the size of CSV files accepted by the loader.
	MaxCSVBytes int64 `yaml:"max_csv_bytes" envconfig:"MAX_CSV_BYTES" default:"10485760"`
	// RenderTimeout bounds a single chromedp capture (PNG or PDF).
	RenderTimeout time.Duration `yaml:"render_timeout" envconfig:"RENDER_TIMEOUT" default:"45s"`
}

// Load loads configuration from environment variables and config file.
// File values fill in what the environment left unset; the environment wins.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("GRADEVIZ", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("path validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Generator.DefaultCount == 0 {
		envConfig.Generator.DefaultCount = fileConfig.Generator.DefaultCount
	}
	if envConfig.Theme.Name == "" {
		envConfig.Theme.Name = fileConfig.Theme.Name
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Generator.DefaultCount <= 0 {
		return fmt.Errorf("generator default count must be positive")
	}

	if c.Generator.MaxCount < c.Generator.DefaultCount {
		return fmt.Errorf("generator max count %d below default count %d",
			c.Generator.MaxCount, c.Generator.DefaultCount)
	}

	if c.Theme.Name != "light" && c.Theme.Name != "dark" {
		return fmt.Errorf("unknown theme: %q", c.Theme.Name)
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/gradeviz.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: Server{
			Port:            8090,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Logging: Logging{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/gradeviz.log",
		},
		Paths: DefaultPaths(),
		Generator: Generator{
			DefaultCount: 50,
			MaxCount:     500,
		},
		Theme: Theme{Name: "light"},
		RateLimit: RateLimit{
			Enabled: true,
			RPS:     50,
			Burst:   25,
		},
		Export: Export{
			MaxCSVBytes:   10 << 20,
			RenderTimeout: 45 * time.Second,
		},
	}
}
