package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"spmadrid/collections-reports/internal/config"
	"spmadrid/collections-reports/internal/factory"
	"spmadrid/collections-reports/internal/logging"
	"spmadrid/collections-reports/internal/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.InitializeConfig()
	require.NoError(t, err)
	cfg.Reference.Source = config.SourceNone
	cfg.Reference.Accounts.Driver = config.DriverNone
	cfg.Output.Templates = t.TempDir()
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		config      func(t *testing.T) *config.Config
		expectError bool
		errorMsg    string
	}{
		{
			name:        "nil config",
			config:      func(*testing.T) *config.Config { return nil },
			expectError: true,
			errorMsg:    "configuration cannot be nil",
		},
		{
			name:   "no reference data",
			config: baseConfig,
		},
		{
			name: "sqlite account store",
			config: func(t *testing.T) *config.Config {
				cfg := baseConfig(t)
				cfg.Reference.Accounts.Driver = config.DriverSQLite
				cfg.Reference.Accounts.DSN = filepath.Join(t.TempDir(), "accounts.db")
				return cfg
			},
		},
		{
			name: "unopenable sqlite path",
			config: func(t *testing.T) *config.Config {
				cfg := baseConfig(t)
				cfg.Reference.Accounts.Driver = config.DriverSQLite
				cfg.Reference.Accounts.DSN = " "
				return cfg
			},
			expectError: true,
			errorMsg:    "opening sqlite account store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewContainer(context.Background(), tt.config(t))
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetConfig())
			assert.NotNil(t, c.GetReader())
			assert.NotNil(t, c.GetLoader())
			assert.NotNil(t, c.GetWriter())
			assert.NoError(t, c.Close())
		})
	}
}

func TestContainer_YAMLReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.yaml")
	doc := `agents:
  - id: AGENT1
    full_name: Ana Reyes
    bucket: Bucket 1
accounts:
  - account_id: "123"
    chcode: CH1
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	cfg := baseConfig(t)
	cfg.Reference.Source = config.SourceYAML
	cfg.Reference.Path = path

	c, err := NewContainerWithLogger(context.Background(), cfg, logging.NewMockLogger())
	require.NoError(t, err)
	defer c.Close()

	snap, err := c.GetLoader().Load(context.Background(), reference.NeedRoster|reference.NeedAccounts, []string{"123"})
	require.NoError(t, err)
	name, ok := snap.ResolveAgent("agent1")
	assert.True(t, ok)
	assert.Equal(t, "Ana Reyes", name)
	code, ok := snap.ChCodeFor("123")
	assert.True(t, ok)
	assert.Equal(t, "CH1", code)
}

func TestContainer_GetCampaign(t *testing.T) {
	c, err := NewContainerWithLogger(context.Background(), baseConfig(t), logging.NewMockLogger())
	require.NoError(t, err)
	defer c.Close()

	camp, err := c.GetCampaign(factory.Agency, factory.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "agency", camp.Name())

	_, err = c.GetCampaign("bogus", factory.Overrides{})
	assert.Error(t, err)
}
