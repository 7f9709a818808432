package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"gemscope/internal/errors"
	"gemscope/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable the application reads.
const EnvPrefix = "GEMSCOPE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Charts    ChartsConfig    `yaml:"charts" envconfig:"CHARTS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console stdout file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// DatasetConfig locates the inputs and outputs of an analysis run.
type DatasetConfig struct {
	CSVPath   string `yaml:"csv_path" envconfig:"CSV_PATH" validate:"required"`
	ImagePath string `yaml:"image_path" envconfig:"IMAGE_PATH"`
	ExportDir string `yaml:"export_dir" envconfig:"EXPORT_DIR" validate:"required"`
}

// AnalysisConfig holds the cleaning bound and the curated grade sets.
type AnalysisConfig struct {
	MaxCarat  float64  `yaml:"max_carat" envconfig:"MAX_CARAT" validate:"gt=0"`
	Colors    []string `yaml:"colors" envconfig:"COLORS" validate:"min=1,dive,required"`
	Clarities []string `yaml:"clarities" envconfig:"CLARITIES" validate:"min=1,dive,required"`
	Cuts      []string `yaml:"cuts" envconfig:"CUTS" validate:"min=1,dive,required"`
}

// ChartsConfig sizes rendered panels, in pixels.
type ChartsConfig struct {
	Width  int `yaml:"width" envconfig:"WIDTH" validate:"min=200,max=4000"`
	Height int `yaml:"height" envconfig:"HEIGHT" validate:"min=150,max=4000"`
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	EnableMetrics bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
}

// Load builds the configuration from defaults, the first config file found
// (GEMSCOPE_CONFIG or a well-known location) and the environment, in
// increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file layer.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config from file", err).
				WithContext("path", path)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg; keys absent from the file
// keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate checks struct constraints and the grade sets, and normalises
// logging so output is always JSON.
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	for _, v := range c.Analysis.Colors {
		if !domain.Color(v).Valid() {
			return fmt.Errorf("analysis.colors: unknown color grade %q", v)
		}
	}
	for _, v := range c.Analysis.Clarities {
		if !domain.Clarity(v).Valid() {
			return fmt.Errorf("analysis.clarities: unknown clarity grade %q", v)
		}
	}
	for _, v := range c.Analysis.Cuts {
		if !domain.Cut(v).Valid() {
			return fmt.Errorf("analysis.cuts: unknown cut grade %q", v)
		}
	}

	c.Logging.Level = strings.ToLower(c.Logging.Level)
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join("logs", "gemscope.log")
	}

	return nil
}

// getConfigFilePath returns the path to the config file, or "" when none
// exists.
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		"gemscope.yaml",
		"configs/gemscope.yaml",
		"../configs/gemscope.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// ListenAddr is the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     false,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "both",
			FilePath:    filepath.Join("logs", "gemscope.log"),
			Development: false,
		},
		Dataset: DatasetConfig{
			CSVPath:   filepath.Join("data", "diamonds.csv"),
			ImagePath: filepath.Join("data", "color-grade.png"),
			ExportDir: "exports",
		},
		Analysis: AnalysisConfig{
			MaxCarat:  domain.MaxCarat,
			Colors:    []string{"D", "E", "F", "G"},
			Clarities: []string{"IF", "VVS1", "VVS2", "VS1", "VS2"},
			Cuts:      []string{"Very Good", "Premium", "Ideal"},
		},
		Charts: ChartsConfig{
			Width:  640,
			Height: 420,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
			EnableMetrics: true,
		},
	}
}
