package reference

import "context"

// Catalog serves the small, whole-table reference datasets.
type Catalog interface {
	AgentRoster(ctx context.Context) ([]Agent, error)
	BankStatusMap(ctx context.Context) ([]StatusMapping, error)
	ReasonCodes(ctx context.Context) ([]string, error)
	Dispositions(ctx context.Context) ([]string, error)
}

// AccountStore serves keyed account lookups, queried in chunks.
type AccountStore interface {
	AccountMetadata(ctx context.Context, accountIDs []string) ([]AccountMeta, error)
	FieldResults(ctx context.Context, chcodes []string) ([]FieldResult, error)
}

// Source is the full lookup service.
type Source interface {
	Catalog
	AccountStore
}

type combined struct {
	Catalog
	AccountStore
}

// Combine joins a catalog and an account store into one Source.
// A nil store answers every account query with nothing.
func Combine(c Catalog, a AccountStore) Source {
	if a == nil {
		a = NoAccounts{}
	}
	return combined{Catalog: c, AccountStore: a}
}

// NoAccounts is an AccountStore without data.
type NoAccounts struct{}

func (NoAccounts) AccountMetadata(context.Context, []string) ([]AccountMeta, error) { return nil, nil }

func (NoAccounts) FieldResults(context.Context, []string) ([]FieldResult, error) { return nil, nil }

// EmptyCatalog is a Catalog without data.
type EmptyCatalog struct{}

func (EmptyCatalog) AgentRoster(context.Context) ([]Agent, error) { return nil, nil }
func (EmptyCatalog) BankStatusMap(context.Context) ([]StatusMapping, error) { return nil, nil }
func (EmptyCatalog) ReasonCodes(context.Context) ([]string, error) { return nil, nil }
func (EmptyCatalog) Dispositions(context.Context) ([]string, error) { return nil, nil }
