// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Reference source kinds.
const (
	SourceYAML     = "yaml"
	SourceWorkbook = "workbook"
	SourceNone     = "none"
)

// Account store drivers.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Reference ReferenceConfig `mapstructure:"reference" yaml:"reference"`

	Output struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
		Templates string `mapstructure:"templates" yaml:"templates"`
	} `mapstructure:"output" yaml:"output"`

	Campaigns CampaignsConfig `mapstructure:"campaigns" yaml:"campaigns"`
}

// ReferenceConfig locates the reference tables and the account store.
type ReferenceConfig struct {
	Source   string `mapstructure:"source" yaml:"source"`
	Path     string `mapstructure:"path" yaml:"path"`
	Accounts struct {
		Driver string `mapstructure:"driver" yaml:"driver"`
		DSN    string `mapstructure:"dsn" yaml:"-"`
	} `mapstructure:"accounts" yaml:"accounts"`
	ChunkSize       int `mapstructure:"chunk_size" yaml:"chunk_size"`
	ChCodeChunkSize int `mapstructure:"chcode_chunk_size" yaml:"chcode_chunk_size"`
	Parallel        int `mapstructure:"parallel" yaml:"parallel"`
}

// BucketConfig is one portfolio segment. Roster names the reference table of its agents.
type BucketConfig struct {
	Label    string   `mapstructure:"label" yaml:"label"`
	Prefixes []string `mapstructure:"prefixes" yaml:"prefixes"`
	Roster   string   `mapstructure:"roster" yaml:"roster"`
}

// CampaignsConfig holds the per-client knobs.
type CampaignsConfig struct {
	BPI struct {
		HouseAgent     string            `mapstructure:"house_agent" yaml:"house_agent"`
		MinColumns     int               `mapstructure:"min_columns" yaml:"min_columns"`
		ReasonDefaults map[string]string `mapstructure:"reason_defaults" yaml:"reason_defaults"`
	} `mapstructure:"bpi" yaml:"bpi"`

	BDO struct {
		Agency         string            `mapstructure:"agency" yaml:"agency"`
		AllowList      []string          `mapstructure:"allow_list" yaml:"allow_list"`
		Buckets        []BucketConfig    `mapstructure:"buckets" yaml:"buckets"`
		RequireRoster  bool              `mapstructure:"require_roster" yaml:"require_roster"`
		ReasonDefaults map[string]string `mapstructure:"reason_defaults" yaml:"reason_defaults"`
	} `mapstructure:"bdo" yaml:"bdo"`

	ROB struct {
		Taggings []string `mapstructure:"taggings" yaml:"taggings"`
	} `mapstructure:"rob" yaml:"rob"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// A non-empty file replaces the search paths.
func InitializeConfig(file ...string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if len(file) > 0 && file[0] != "" {
		v.SetConfigFile(file[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.collections-reports")
		v.AddConfigPath(".collections-reports")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("COLLECT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if len(file) > 0 && file[0] != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", file[0], err)
			}
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// DSNs usually carry credentials; keep them out of config files.
	if err := v.BindEnv("reference.accounts.dsn", "COLLECT_REFERENCE_ACCOUNTS_DSN", "DATABASE_URL"); err != nil {
		fmt.Printf("Warning: failed to bind DATABASE_URL environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("reference.source", SourceWorkbook)
	v.SetDefault("reference.path", "reference")
	v.SetDefault("reference.accounts.driver", DriverNone)
	v.SetDefault("reference.accounts.dsn", "")
	v.SetDefault("reference.chunk_size", 100)
	v.SetDefault("reference.chcode_chunk_size", 20)
	v.SetDefault("reference.parallel", 1)

	v.SetDefault("output.directory", "output")
	v.SetDefault("output.templates", "templates")

	v.SetDefault("campaigns.bpi.house_agent", "SPMADRID")
	v.SetDefault("campaigns.bpi.min_columns", 43)
	v.SetDefault("campaigns.bpi.reason_defaults", map[string]string{"PTP": "BUSY", "CALL NO PTP": "NISV", "UNCON": "NABZ"})

	v.SetDefault("campaigns.bdo.agency", "SP MADRID")
	v.SetDefault("campaigns.bdo.allow_list", []string{"SYSTEM", "LCMANZANO", "ACALVAREZ", "DSDEGUZMAN", "SRELIOT", "TANAZAIRE", "SPMADRID"})
	v.SetDefault("campaigns.bdo.buckets", []map[string]interface{}{
		{"label": "Bucket 1", "prefixes": []string{"01"}, "roster": "BUCKET1_AGENT"},
		{"label": "Bucket 2", "prefixes": []string{"02"}, "roster": "BUCKET2_AGENT"},
		{"label": "Bucket 5&6", "prefixes": []string{"05", "06"}, "roster": "BUCKET5&6_AGENT"},
	})
	v.SetDefault("campaigns.bdo.require_roster", true)
	v.SetDefault("campaigns.bdo.reason_defaults", map[string]string{"PTP": "BUSY", "CALL NO PTP": "NISV", "UNCON": "NABZ"})

	v.SetDefault("campaigns.rob.taggings", []string{"JDGANIAL", "JAAGUILAR", "NFMUANA"})
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Reference.Source {
	case SourceYAML, SourceWorkbook:
		if config.Reference.Path == "" {
			return fmt.Errorf("reference.path required for source %q", config.Reference.Source)
		}
	case SourceNone:
	default:
		return fmt.Errorf("invalid reference source: %s (must be 'yaml', 'workbook' or 'none')", config.Reference.Source)
	}

	switch config.Reference.Accounts.Driver {
	case DriverNone:
	case DriverSQLite, DriverPostgres:
		if config.Reference.Accounts.DSN == "" {
			return fmt.Errorf("reference.accounts.dsn required for driver %q", config.Reference.Accounts.Driver)
		}
	default:
		return fmt.Errorf("invalid accounts driver: %s (must be 'none', 'sqlite' or 'postgres')", config.Reference.Accounts.Driver)
	}

	if config.Reference.ChunkSize < 1 {
		return fmt.Errorf("reference.chunk_size must be positive, got: %d", config.Reference.ChunkSize)
	}
	if config.Reference.ChCodeChunkSize < 1 {
		return fmt.Errorf("reference.chcode_chunk_size must be positive, got: %d", config.Reference.ChCodeChunkSize)
	}
	if config.Reference.Parallel < 1 || config.Reference.Parallel > 64 {
		return fmt.Errorf("reference.parallel must be between 1 and 64, got: %d", config.Reference.Parallel)
	}

	if config.Campaigns.BPI.MinColumns < 1 {
		return fmt.Errorf("campaigns.bpi.min_columns must be positive, got: %d", config.Campaigns.BPI.MinColumns)
	}
	for i, b := range config.Campaigns.BDO.Buckets {
		if b.Label == "" || len(b.Prefixes) == 0 {
			return fmt.Errorf("campaigns.bdo.buckets[%d] needs a label and at least one prefix", i)
		}
	}
	if len(config.Campaigns.ROB.Taggings) == 0 {
		return fmt.Errorf("campaigns.rob.taggings must not be empty")
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// Rosters maps each BDO bucket label to its roster table.
func (c *Config) Rosters() map[string]string {
	out := make(map[string]string, len(c.Campaigns.BDO.Buckets))
	for _, b := range c.Campaigns.BDO.Buckets {
		if b.Roster != "" {
			out[b.Label] = b.Roster
		}
	}
	return out
}
