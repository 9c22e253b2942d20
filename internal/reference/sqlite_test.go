package reference

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "ref", "accounts.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.Exec(`INSERT INTO endorsed_accounts (account_number, chcode, endo_date, stores, cluster)
		VALUES ('000123', 'CH1', '2024-01-15', 'MAKATI', 'NCR'), ('456', 'CH4', '', '', '')`)
	require.NoError(t, err)
	_, err = store.db.Exec(`INSERT INTO field_results (chcode, status, sub_status, inserted_date)
		VALUES ('CH1', 'VISITED', 'OLD', '2024-01-01 08:00:00'), ('CH1', 'VISITED', 'NEW', '2024-02-01 08:00:00')`)
	require.NoError(t, err)

	ctx := context.Background()
	accounts, err := store.AccountMetadata(ctx, []string{"123", "00123", "789", ""})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "CH1", accounts[0].ChCode)
	assert.Equal(t, "MAKATI", accounts[0].Store)
	assert.Equal(t, 15, accounts[0].EndoDate.Day())

	results, err := store.FieldResults(ctx, []string{"CH1"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	snap := NewSnapshot(Data{Accounts: accounts, FieldResults: results})
	latest, ok := snap.FieldResult("CH1")
	require.True(t, ok)
	assert.Equal(t, "NEW", latest.SubStatus)

	none, err := store.AccountMetadata(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestNewSQLiteStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStore(" ")
	assert.Error(t, err)
}
