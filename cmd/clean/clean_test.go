package clean_test

import (
	"testing"

	"spmadrid/collections-reports/cmd/clean"
	"spmadrid/collections-reports/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCleanCommand_Metadata(t *testing.T) {
	assert.Equal(t, "clean", clean.Cmd.Use)
	assert.Contains(t, clean.Cmd.Long, "duplicate")
	assert.NotNil(t, clean.Cmd.RunE)
	for _, name := range []string{"input", "drop-blank", "drop-duplicates", "sanitize-headers"} {
		assert.NotNil(t, clean.Cmd.Flags().Lookup(name), name)
	}
}

func TestCleanCommand_NoContainer(t *testing.T) {
	original := root.AppContainer
	defer func() { root.AppContainer = original }()
	root.AppContainer = nil

	err := clean.Cmd.RunE(&cobra.Command{}, nil)
	assert.EqualError(t, err, "dependencies not initialized")
}
