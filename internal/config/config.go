package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"catalogcli/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable (CATALOG_ANALYSIS_TOP_GENRE_COUNT, ...)
const EnvPrefix = "CATALOG"

// ConfigFileEnv names an explicit config file, overriding the search locations
const ConfigFileEnv = "CATALOG_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// AnalysisConfig holds the options recognized by the pipeline core
type AnalysisConfig struct {
	ForecastHorizonYears int `yaml:"forecast_horizon_years" envconfig:"FORECAST_HORIZON_YEARS" validate:"min=1,max=50"`
	TopGenreCount        int `yaml:"top_genre_count" envconfig:"TOP_GENRE_COUNT" validate:"min=1,max=1000"`
	// RatingMap holds overrides merged over the default rating table.
	RatingMap map[string]string `yaml:"rating_map" envconfig:"RATING_MAP" validate:"dive,keys,required,endkeys,rating_category"`
}

// Ratings returns the default rating table with the configured overrides applied.
func (a AnalysisConfig) Ratings() domain.RatingMap {
	ratings := domain.DefaultRatingMap()
	for code, category := range a.RatingMap {
		ratings[code] = domain.RatingCategory(category)
	}
	return ratings
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputFile  string `yaml:"input_file" envconfig:"INPUT_FILE"`
	Sheet      string `yaml:"sheet" envconfig:"SHEET"`
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// ServerConfig contains HTTP server configuration for the report viewer
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// TelemetryConfig selects OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			ForecastHorizonYears: 3,
			TopGenreCount:        10,
		},
		Paths: PathsConfig{
			InputFile:  "data/titles.csv",
			ReportsDir: "data/reports",
			LogsDir:    "logs",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/catalog.log",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "catalog-pulse",
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
	}
}

// Load builds the configuration from defaults, then the config file if one
// is found, then CATALOG_* environment variables.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file layer.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", configFile, err)
		}
	}

	// Unset variables leave the field untouched, so env only overrides what it names
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes logging options
func (c *Config) Validate() error {
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/catalog.log"
	}
	return newValidator().Struct(c)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("rating_category", isRatingCategory)
	v.RegisterStructValidation(validateRateLimit, RateLimitConfig{})
	return v
}

// validateRateLimit rejects an enabled limiter that admits no requests
func validateRateLimit(sl validator.StructLevel) {
	rl := sl.Current().Interface().(RateLimitConfig)
	if rl.Enabled && rl.RPS <= 0 {
		sl.ReportError(rl.RPS, "RPS", "RPS", "gt_when_enabled", "0")
	}
}

func isRatingCategory(fl validator.FieldLevel) bool {
	return domain.RatingCategory(fl.Field().String()).IsValid()
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}

	locations := []string{
		"catalog.yaml",
		"configs/catalog.yaml",
		"../configs/catalog.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}
