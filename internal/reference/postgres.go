package reference

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const (
	pgAccountsQuery = `SELECT account_number, COALESCE(chcode, ''), COALESCE(endo_date::text, ''),
		COALESCE(stores, ''), COALESCE(cluster, '')
		FROM endorsed_accounts WHERE ltrim(account_number, '0') = ANY($1)`
	pgFieldResultsQuery = `SELECT chcode, COALESCE(status, ''), COALESCE(sub_status, ''),
		COALESCE(inserted_date::text, '')
		FROM field_results WHERE chcode = ANY($1)`
)

// querier is the part of pgxpool.Pool the store uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore is an AccountStore backed by the shared endorsement database.
type PostgresStore struct {
	pool  querier
	close func()
}

// NewPostgresStore connects a pool to dsn and checks it.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool, close: pool.Close}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

// AccountMetadata selects the endorsement rows of ids in one round trip.
func (s *PostgresStore) AccountMetadata(ctx context.Context, ids []string) ([]AccountMeta, error) {
	keys := normalizedKeys(ids, AccountKey)
	if len(keys) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, pgAccountsQuery, pq.Array(keys))
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
func (s *PostgresStore) FieldResults(ctx context.Context, chcodes []string) ([]FieldResult, error) {
	keys := normalizedKeys(chcodes, strings.TrimSpace)
	if len(keys) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, pgFieldResultsQuery, pq.Array(keys))
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
