// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig

	SetEngineWorkerConcurrency(int)
	SetEngineMinChunkSize(int)
	SetEngineVerboseMatching(bool)
}

// Config holds the entire application configuration. Private fields force
// access through the Interface getters.
type Config struct {
	logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
	engine EngineConfig `mapstructure:"engine" yaml:"engine"`
}

// LoggerConfig mirrors the observability package's needs: level, format,
// optional rotated log file, and console colors.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig configures the model-query engine and its scheduler.
type EngineConfig struct {
	// WorkerConcurrency is the preferred number of parallel chunks.
	// Zero means one per CPU.
	WorkerConcurrency int `mapstructure:"worker_concurrency" yaml:"worker_concurrency"`
	// MinChunkSize is the minimum number of callables per chunk.
	MinChunkSize int `mapstructure:"min_chunk_size" yaml:"min_chunk_size"`
	// VerboseMatching emits a diagnostic for every rule/callable match.
	VerboseMatching bool `mapstructure:"verbose_matching" yaml:"verbose_matching"`
}

func (c *Config) Logger() LoggerConfig { return c.logger }
func (c *Config) Engine() EngineConfig { return c.engine }

func (c *Config) SetEngineWorkerConcurrency(n int) { c.engine.WorkerConcurrency = n }
func (c *Config) SetEngineMinChunkSize(n int)      { c.engine.MinChunkSize = n }
func (c *Config) SetEngineVerboseMatching(v bool)  { c.engine.VerboseMatching = v }

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "modelquery",
			MaxSize:     50,
			MaxBackups:  3,
			MaxAge:      14,
			Colors: ColorConfig{
				Debug:  "cyan",
				Info:   "green",
				Warn:   "yellow",
				Error:  "red",
				DPanic: "magenta",
				Panic:  "magenta",
				Fatal:  "magenta",
			},
		},
		engine: EngineConfig{
			MinChunkSize: 500,
		},
	}
}

// Load reads configuration from an optional YAML file plus MODELQUERY_*
// environment variables, layered over the defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	cfg := New()

	v.SetDefault("logger.level", cfg.logger.Level)
	v.SetDefault("logger.format", cfg.logger.Format)
	v.SetDefault("logger.service_name", cfg.logger.ServiceName)
	v.SetDefault("logger.max_size", cfg.logger.MaxSize)
	v.SetDefault("logger.max_backups", cfg.logger.MaxBackups)
	v.SetDefault("logger.max_age", cfg.logger.MaxAge)
	v.SetDefault("engine.worker_concurrency", cfg.engine.WorkerConcurrency)
	v.SetDefault("engine.min_chunk_size", cfg.engine.MinChunkSize)
	v.SetDefault("engine.verbose_matching", cfg.engine.VerboseMatching)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("modelquery")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("MODELQUERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars apply.
	}

	cfg.logger.Level = v.GetString("logger.level")
	cfg.logger.Format = v.GetString("logger.format")
	cfg.logger.AddSource = v.GetBool("logger.add_source")
	cfg.logger.ServiceName = v.GetString("logger.service_name")
	cfg.logger.LogFile = v.GetString("logger.log_file")
	cfg.logger.MaxSize = v.GetInt("logger.max_size")
	cfg.logger.MaxBackups = v.GetInt("logger.max_backups")
	cfg.logger.MaxAge = v.GetInt("logger.max_age")
	cfg.logger.Compress = v.GetBool("logger.compress")
	cfg.engine.WorkerConcurrency = v.GetInt("engine.worker_concurrency")
	cfg.engine.MinChunkSize = v.GetInt("engine.min_chunk_size")
	cfg.engine.VerboseMatching = v.GetBool("engine.verbose_matching")

	return cfg, nil
}
