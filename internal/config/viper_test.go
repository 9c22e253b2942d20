package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, SourceWorkbook, config.Reference.Source)
	assert.Equal(t, "reference", config.Reference.Path)
	assert.Equal(t, DriverNone, config.Reference.Accounts.Driver)
	assert.Equal(t, 100, config.Reference.ChunkSize)
	assert.Equal(t, 20, config.Reference.ChCodeChunkSize)
	assert.Equal(t, 1, config.Reference.Parallel)
	assert.Equal(t, "output", config.Output.Directory)
	assert.Equal(t, "templates", config.Output.Templates)
	assert.Equal(t, "SPMADRID", config.Campaigns.BPI.HouseAgent)
	assert.Equal(t, 43, config.Campaigns.BPI.MinColumns)
	assert.Equal(t, "SP MADRID", config.Campaigns.BDO.Agency)
	assert.True(t, config.Campaigns.BDO.RequireRoster)
	assert.Contains(t, config.Campaigns.BDO.AllowList, "SYSTEM")
	require.Len(t, config.Campaigns.BDO.Buckets, 3)
	assert.Equal(t, "Bucket 5&6", config.Campaigns.BDO.Buckets[2].Label)
	assert.Equal(t, []string{"05", "06"}, config.Campaigns.BDO.Buckets[2].Prefixes)
	assert.Equal(t, []string{"JDGANIAL", "JAAGUILAR", "NFMUANA"}, config.Campaigns.ROB.Taggings)
	assert.Len(t, config.Campaigns.BPI.ReasonDefaults, 3)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	testEnvVars := map[string]string{
		"COLLECT_LOG_LEVEL":                 "debug",
		"COLLECT_LOG_FORMAT":                "json",
		"COLLECT_REFERENCE_SOURCE":          "yaml",
		"COLLECT_REFERENCE_PATH":            "ref.yaml",
		"COLLECT_REFERENCE_ACCOUNTS_DRIVER": "postgres",
		"COLLECT_REFERENCE_CHUNK_SIZE":      "50",
		"COLLECT_OUTPUT_DIRECTORY":          "/tmp/reports",
		"COLLECT_CAMPAIGNS_BPI_HOUSE_AGENT": "HOUSE",
		"DATABASE_URL":                      "postgres://collect@localhost/ref",
	}

	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, SourceYAML, config.Reference.Source)
	assert.Equal(t, "ref.yaml", config.Reference.Path)
	assert.Equal(t, DriverPostgres, config.Reference.Accounts.Driver)
	assert.Equal(t, "postgres://collect@localhost/ref", config.Reference.Accounts.DSN)
	assert.Equal(t, 50, config.Reference.ChunkSize)
	assert.Equal(t, "/tmp/reports", config.Output.Directory)
	assert.Equal(t, "HOUSE", config.Campaigns.BPI.HouseAgent)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")

	configContent := `
log:
  level: "warn"
  format: "json"
reference:
  source: "none"
  accounts:
    driver: "sqlite"
    dsn: "accounts.db"
output:
  directory: "out"
campaigns:
  bdo:
    require_roster: false
    buckets:
      - label: "Bucket 1"
        prefixes: ["01"]
  rob:
    taggings: ["AGENT1", "AGENT2"]
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)
	t.Chdir(tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, SourceNone, config.Reference.Source)
	assert.Equal(t, DriverSQLite, config.Reference.Accounts.Driver)
	assert.Equal(t, "accounts.db", config.Reference.Accounts.DSN)
	assert.Equal(t, "out", config.Output.Directory)
	assert.False(t, config.Campaigns.BDO.RequireRoster)
	require.Len(t, config.Campaigns.BDO.Buckets, 1)
	assert.Equal(t, []string{"01"}, config.Campaigns.BDO.Buckets[0].Prefixes)
	assert.Equal(t, []string{"AGENT1", "AGENT2"}, config.Campaigns.ROB.Taggings)
	assert.Equal(t, 43, config.Campaigns.BPI.MinColumns, "untouched keys keep their defaults")
}

func TestInitializeConfig_ExplicitFile(t *testing.T) {
	clearTestEnvVars(t)
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0644))

	config, err := InitializeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)

	_, err = InitializeConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInitializeConfig_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)

	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
reference:
  chunk_size: 10
  parallel: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644))

	t.Setenv("COLLECT_LOG_LEVEL", "error")
	t.Setenv("COLLECT_REFERENCE_PARALLEL", "4")
	t.Chdir(tempDir)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)      // env var wins
	assert.Equal(t, 10, config.Reference.ChunkSize) // config file value
	assert.Equal(t, 4, config.Reference.Parallel)   // env var wins
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Reference.Source = SourceWorkbook
	c.Reference.Path = "reference"
	c.Reference.Accounts.Driver = DriverNone
	c.Reference.ChunkSize = 100
	c.Reference.ChCodeChunkSize = 20
	c.Reference.Parallel = 1
	c.Campaigns.BPI.MinColumns = 43
	c.Campaigns.ROB.Taggings = []string{"JDGANIAL"}
	return c
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "invalid" },
			expectError:  "invalid log format",
		},
		{
			name:         "unknown reference source",
			modifyConfig: func(c *Config) { c.Reference.Source = "ftp" },
			expectError:  "invalid reference source",
		},
		{
			name:         "workbook source without path",
			modifyConfig: func(c *Config) { c.Reference.Path = "" },
			expectError:  "reference.path required",
		},
		{
			name:         "store driver without dsn",
			modifyConfig: func(c *Config) { c.Reference.Accounts.Driver = DriverSQLite },
			expectError:  "reference.accounts.dsn required",
		},
		{
			name:         "unknown store driver",
			modifyConfig: func(c *Config) { c.Reference.Accounts.Driver = "mysql" },
			expectError:  "invalid accounts driver",
		},
		{
			name:         "zero chunk size",
			modifyConfig: func(c *Config) { c.Reference.ChunkSize = 0 },
			expectError:  "reference.chunk_size must be positive",
		},
		{
			name:         "zero chcode chunk size",
			modifyConfig: func(c *Config) { c.Reference.ChCodeChunkSize = 0 },
			expectError:  "reference.chcode_chunk_size must be positive",
		},
		{
			name:         "parallel out of range",
			modifyConfig: func(c *Config) { c.Reference.Parallel = 100 },
			expectError:  "reference.parallel must be between 1 and 64",
		},
		{
			name:         "zero min columns",
			modifyConfig: func(c *Config) { c.Campaigns.BPI.MinColumns = 0 },
			expectError:  "campaigns.bpi.min_columns must be positive",
		},
		{
			name: "bucket without prefixes",
			modifyConfig: func(c *Config) {
				c.Campaigns.BDO.Buckets = []BucketConfig{{Label: "Bucket 1"}}
			},
			expectError: "campaigns.bdo.buckets[0]",
		},
		{
			name:         "no taggings",
			modifyConfig: func(c *Config) { c.Campaigns.ROB.Taggings = nil },
			expectError:  "campaigns.rob.taggings must not be empty",
		},
	}

	require.NoError(t, validateConfig(validConfig()))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{name: "text format info level", level: "info", format: "text"},
		{name: "json format debug level", level: "debug", format: "json"},
		{name: "invalid level falls back to info", level: "loud", format: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			config.Log.Level = tt.level
			config.Log.Format = tt.format
			logger := ConfigureLoggingFromConfig(config)
			require.NotNil(t, logger)
			if tt.level == "loud" {
				assert.Equal(t, "info", logger.GetLevel().String())
			} else {
				assert.Equal(t, tt.level, logger.GetLevel().String())
			}
		})
	}
}

func TestRosters(t *testing.T) {
	config := validConfig()
	config.Campaigns.BDO.Buckets = []BucketConfig{
		{Label: "Bucket 1", Prefixes: []string{"01"}, Roster: "BUCKET1_AGENT"},
		{Label: "Bucket 2", Prefixes: []string{"02"}},
	}
	assert.Equal(t, map[string]string{"Bucket 1": "BUCKET1_AGENT"}, config.Rosters())
}

func TestGetEnv(t *testing.T) {
	t.Setenv("COLLECT_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnv("COLLECT_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("COLLECT_TEST_UNSET_VALUE", "fallback"))
}

// Helper function to clear test environment variables
func clearTestEnvVars(t *testing.T) {
	envVars := []string{
		"COLLECT_LOG_LEVEL",
		"COLLECT_LOG_FORMAT",
		"COLLECT_REFERENCE_SOURCE",
		"COLLECT_REFERENCE_PATH",
		"COLLECT_REFERENCE_ACCOUNTS_DRIVER",
		"COLLECT_REFERENCE_ACCOUNTS_DSN",
		"COLLECT_REFERENCE_CHUNK_SIZE",
		"COLLECT_REFERENCE_CHCODE_CHUNK_SIZE",
		"COLLECT_REFERENCE_PARALLEL",
		"COLLECT_OUTPUT_DIRECTORY",
		"COLLECT_OUTPUT_TEMPLATES",
		"COLLECT_CAMPAIGNS_BPI_HOUSE_AGENT",
		"DATABASE_URL",
	}

	for _, envVar := range envVars {
		if err := os.Unsetenv(envVar); err != nil {
			fmt.Printf("Warning: failed to unset environment variable %s: %v\n", envVar, err)
		}
	}
}
