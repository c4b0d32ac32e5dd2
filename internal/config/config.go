// Package config loads application configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Corpus  CorpusConfig  `mapstructure:"corpus"`
	Output  OutputConfig  `mapstructure:"output"`
	Extract ExtractConfig `mapstructure:"extract"`
	Query   QueryConfig   `mapstructure:"query"`
	Store   StoreConfig   `mapstructure:"store"`
}

// CorpusConfig locates the corpus on disk.
type CorpusConfig struct {
	Root string `mapstructure:"root"`
}

// OutputConfig controls where the emitted datasets go.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// ExtractConfig tunes the extraction run.
type ExtractConfig struct {
	Workers int `mapstructure:"workers"` // 0 = one per CPU
}

// QueryConfig tunes the query service.
type QueryConfig struct {
	// StalenessYears bounds how old a sighting may be for locate queries.
	StalenessYears int `mapstructure:"staleness_years"`
}

// StoreConfig controls the optional SQLite export.
type StoreConfig struct {
	Path string `mapstructure:"path"` // empty disables the export
}

// Load loads configuration from an optional file plus environment
// variables, applying defaults and validating the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("corpus.root", ".")
	v.SetDefault("output.dir", "output")
	v.SetDefault("extract.workers", 0)
	v.SetDefault("query.staleness_years", 30)
	v.SetDefault("store.path", "")
}

func bindEnvVars(v *viper.Viper) {
	if root := os.Getenv("NAIVETEXT_CORPUS_ROOT"); root != "" {
		v.Set("corpus.root", root)
	}
	if dir := os.Getenv("NAIVETEXT_OUTPUT_DIR"); dir != "" {
		v.Set("output.dir", dir)
	}
	if workers := os.Getenv("NAIVETEXT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil {
			v.Set("extract.workers", w)
		}
	}
	if years := os.Getenv("NAIVETEXT_STALENESS_YEARS"); years != "" {
		if y, err := strconv.Atoi(years); err == nil {
			v.Set("query.staleness_years", y)
		}
	}
	if path := os.Getenv("NAIVETEXT_STORE_PATH"); path != "" {
		v.Set("store.path", path)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Corpus.Root == "" {
		return fmt.Errorf("corpus root cannot be empty")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.Extract.Workers < 0 {
		return fmt.Errorf("extract workers cannot be negative")
	}
	if c.Query.StalenessYears <= 0 {
		return fmt.Errorf("query staleness_years must be positive")
	}
	return nil
}
