package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	QC        QCConfig        `yaml:"qc" envconfig:"QC"`
	ShortTerm ShortTermConfig `yaml:"short_term" envconfig:"SHORT_TERM"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// QCConfig carries the long-term battery defaults. Station metadata
// overrides these per parameter; the values here are the documented QARTOD
// fallbacks.
type QCConfig struct {
	Params         []string `yaml:"params" envconfig:"PARAMS" validate:"min=1"`
	IndexColumn    string   `yaml:"index_column" envconfig:"INDEX_COLUMN" validate:"required"`
	NumStdevs      float64  `yaml:"num_stdevs" envconfig:"NUM_STDEVS" validate:"gt=0"`
	FlatSuspectRun int      `yaml:"flat_suspect_run" envconfig:"FLAT_SUSPECT_RUN" validate:"gte=2"`
	FlatFailRun    int      `yaml:"flat_fail_run" envconfig:"FLAT_FAIL_RUN" validate:"gte=2,gtefield=FlatSuspectRun"`
	FlatEps        float64  `yaml:"flat_eps" envconfig:"FLAT_EPS" validate:"gt=0"`
}

// ShortTermConfig carries the short-term displacement check defaults.
type ShortTermConfig struct {
	Params          []string `yaml:"params" envconfig:"PARAMS" validate:"min=1"`
	IndexColumn     string   `yaml:"index_column" envconfig:"INDEX_COLUMN" validate:"required"`
	MissingRunLimit int      `yaml:"missing_run_limit" envconfig:"MISSING_RUN_LIMIT" validate:"gt=0"`
	NumStdevs       float64  `yaml:"num_stdevs" envconfig:"NUM_STDEVS" validate:"gt=0"`
	InstrumentMin   float64  `yaml:"instrument_min" envconfig:"INSTRUMENT_MIN"`
	InstrumentMax   float64  `yaml:"instrument_max" envconfig:"INSTRUMENT_MAX" validate:"gtfield=InstrumentMin"`
	LocalMin        float64  `yaml:"local_min" envconfig:"LOCAL_MIN"`
	LocalMax        float64  `yaml:"local_max" envconfig:"LOCAL_MAX" validate:"gtfield=LocalMin"`
}

// ServerConfig configures the report HTTP server.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gt=0,lt=65536"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RateLimit       RateLimit     `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimit configures request throttling on the report server.
type RateLimit struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/buoyqc.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "reports",
			LogsDir:    "logs",
		},
		QC: QCConfig{
			Params:         []string{"hm0", "mdir", "tm02"},
			IndexColumn:    "Time",
			NumStdevs:      4,
			FlatSuspectRun: 3,
			FlatFailRun:    5,
			FlatEps:        0.01,
		},
		ShortTerm: ShortTermConfig{
			Params:          []string{"Heave", "North", "West"},
			IndexColumn:     "Time",
			MissingRunLimit: 4,
			NumStdevs:       4,
			InstrumentMin:   -750,
			InstrumentMax:   750,
			LocalMin:        -500,
			LocalMax:        500,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimit{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
	}
}

// Load builds the configuration: defaults, then the YAML file (when
// present), then BUOYQC_-prefixed environment variables, validated at the
// end.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = "config.yaml"
	}
	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", configFile, err)
	}

	if err := envconfig.Process("BUOYQC", cfg); err != nil {
		return nil, fmt.Errorf("load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration structure.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
