package reference

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"spmadrid/collections-reports/internal/dateutils"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS endorsed_accounts (
	account_number TEXT PRIMARY KEY,
	chcode         TEXT NOT NULL DEFAULT '',
	endo_date      TEXT NOT NULL DEFAULT '',
	stores         TEXT NOT NULL DEFAULT '',
	cluster        TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS field_results (
	chcode        TEXT NOT NULL,
	status        TEXT NOT NULL DEFAULT '',
	sub_status    TEXT NOT NULL DEFAULT '',
	inserted_date TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_field_results_chcode ON field_results(chcode);
`

// SQLiteStore is an AccountStore backed by a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (and if needed creates) the store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AccountMetadata selects the endorsement rows of ids. Leading zeros are ignored on both sides.
func (s *SQLiteStore) AccountMetadata(ctx context.Context, ids []string) ([]AccountMeta, error) {
	keys := normalizedKeys(ids, AccountKey)
	if len(keys) == 0 {
		return nil, nil
	}
	query := `SELECT account_number, chcode, endo_date, stores, cluster FROM endorsed_accounts
		WHERE ltrim(account_number, '0') IN (` + placeholders(len(keys)) + `) ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, query, anySlice(keys)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var out []AccountMeta
	for rows.Next() {
		var a AccountMeta
		var endo string
		if err := rows.Scan(&a.AccountID, &a.ChCode, &endo, &a.Store, &a.Cluster); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.EndoDate = parseStoredDate(endo)
		out = append(out, a)
	}
	return out, rows.Err()
}

// FieldResults selects every field result of the given ChCodes.
func (s *SQLiteStore) FieldResults(ctx context.Context, chcodes []string) ([]FieldResult, error) {
	keys := normalizedKeys(chcodes, strings.TrimSpace)
	if len(keys) == 0 {
		return nil, nil
	}
	query := `SELECT chcode, status, sub_status, inserted_date FROM field_results
		WHERE chcode IN (` + placeholders(len(keys)) + `) ORDER BY rowid`
	rows, err := s.db.QueryContext(ctx, query, anySlice(keys)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query field results: %w", err)
	}
	defer rows.Close()

	var out []FieldResult
	for rows.Next() {
		var f FieldResult
		var inserted string
		if err := rows.Scan(&f.ChCode, &f.Status, &f.SubStatus, &inserted); err != nil {
			return nil, fmt.Errorf("failed to scan field result: %w", err)
		}
		f.InsertedDate = parseStoredDate(inserted)
		out = append(out, f)
	}
	return out, rows.Err()
}

func parseStoredDate(s string) time.Time {
	t, _ := dateutils.ParseCell(s)
	return t
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func anySlice(keys []string) []any {
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k
	}
	return out
}

// normalizedKeys normalizes, drops blanks and dedupes while keeping order.
func normalizedKeys(keys []string, norm func(string) string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = norm(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
