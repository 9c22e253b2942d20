package root_test

import (
	"testing"
	"time"

	"spmadrid/collections-reports/cmd/root"
	"spmadrid/collections-reports/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	root.Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "collections-reports", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "daily collection reports")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	for _, name := range []string{"config", "log-level", "log-format", "output-dir", "reference", "date"} {
		assert.NotNil(t, root.Cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "o", root.Cmd.PersistentFlags().Lookup("output-dir").Shorthand)
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestReportDate(t *testing.T) {
	original := root.SharedFlags.Date
	defer func() { root.SharedFlags.Date = original }()

	root.SharedFlags.Date = "03/05/2024"
	got, err := root.ReportDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	root.SharedFlags.Date = "2024-03-06"
	got, err = root.ReportDate()
	require.NoError(t, err)
	assert.Equal(t, 6, got.Day())

	root.SharedFlags.Date = "someday"
	_, err = root.ReportDate()
	assert.Error(t, err)

	root.SharedFlags.Date = ""
	got, err = root.ReportDate()
	require.NoError(t, err)
	assert.Zero(t, got.Hour())
}

func TestPersistentPreRunE(t *testing.T) {
	original := root.SharedFlags
	defer func() { root.SharedFlags = original }()

	t.Setenv("COLLECT_REFERENCE_SOURCE", config.SourceNone)
	out := t.TempDir()
	root.SharedFlags.OutputDir = out
	root.SharedFlags.LogLevel = "warn"

	require.NoError(t, root.Cmd.PersistentPreRunE(&cobra.Command{}, nil))
	require.NotNil(t, root.AppContainer)
	assert.Equal(t, out, root.AppConfig.Output.Directory)
	assert.Equal(t, "warn", root.AppConfig.Log.Level)
	root.Cmd.PersistentPostRun(&cobra.Command{}, nil)
}
