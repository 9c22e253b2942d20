package reference

import (
	"sort"
	"strings"

	"spmadrid/collections-reports/internal/textutils"
)

// Data is the raw content of a snapshot.
type Data struct {
	Agents       []Agent
	Statuses     []StatusMapping
	ReasonCodes  []string
	Dispositions []string
	Accounts     []AccountMeta
	FieldResults []FieldResult
}

// Snapshot is an immutable, indexed copy of the reference data taken at the start of a run.
// Every query is total: a miss reports not-found and never fails.
type Snapshot struct {
	names        map[string]string
	buckets      map[string][]string
	roster       []Agent
	bankStatus   map[string]string
	reasonCodes  map[string]struct{}
	dispositions map[string]struct{}
	accounts     map[string]AccountMeta
	endorsed     map[string]struct{}
	fieldResults map[string]FieldResult
}

// NewSnapshot indexes d. Duplicate keys keep their first entry, except field results
// where the latest InsertedDate wins.
func NewSnapshot(d Data) *Snapshot {
	s := &Snapshot{
		names:        make(map[string]string),
		buckets:      make(map[string][]string),
		bankStatus:   make(map[string]string, len(d.Statuses)),
		reasonCodes:  make(map[string]struct{}, len(d.ReasonCodes)),
		dispositions: make(map[string]struct{}, len(d.Dispositions)),
		accounts:     make(map[string]AccountMeta, len(d.Accounts)),
		endorsed:     make(map[string]struct{}, len(d.Accounts)),
		fieldResults: make(map[string]FieldResult, len(d.FieldResults)),
	}

	for _, a := range d.Agents {
		id := agentKey(a.ID)
		if id == "" {
			continue
		}
		a.ID, a.FullName, a.Bucket = id, strings.TrimSpace(a.FullName), strings.TrimSpace(a.Bucket)
		s.roster = append(s.roster, a)
		if _, ok := s.names[id]; !ok {
			s.names[id] = a.FullName
		}
		if a.Bucket != "" && !contains(s.buckets[id], a.Bucket) {
			s.buckets[id] = append(s.buckets[id], a.Bucket)
		}
	}

	for _, m := range d.Statuses {
		key := statusKey(m.RawStatus)
		if _, ok := s.bankStatus[key]; key != "" && !ok {
			s.bankStatus[key] = strings.TrimSpace(m.BankStatus)
		}
	}
	for _, c := range d.ReasonCodes {
		if c = codeKey(c); c != "" {
			s.reasonCodes[c] = struct{}{}
		}
	}
	for _, c := range d.Dispositions {
		if c = statusKey(c); c != "" {
			s.dispositions[c] = struct{}{}
		}
	}
	for _, a := range d.Accounts {
		if id := rawAccountID(a.AccountID); id != "" {
			s.endorsed[id] = struct{}{}
		}
		key := AccountKey(a.AccountID)
		if _, ok := s.accounts[key]; key != "" && !ok {
			a.ChCode = strings.TrimSpace(a.ChCode)
			s.accounts[key] = a
		}
	}
	for _, f := range d.FieldResults {
		key := strings.TrimSpace(f.ChCode)
		if key == "" {
			continue
		}
		if cur, ok := s.fieldResults[key]; ok && !f.InsertedDate.After(cur.InsertedDate) {
			continue
		}
		s.fieldResults[key] = f
	}
	return s
}

// Empty returns a snapshot with no data.
func Empty() *Snapshot { return NewSnapshot(Data{}) }

// AccountKey normalizes an account number for lookups: trimmed, without leading zeros.
func AccountKey(id string) string {
	return textutils.StripLeadingZeros(strings.TrimSuffix(strings.TrimSpace(id), ".0"))
}

func rawAccountID(id string) string { return strings.TrimSuffix(strings.TrimSpace(id), ".0") }

func agentKey(id string) string { return strings.ToUpper(strings.TrimSpace(id)) }
func statusKey(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
func codeKey(c string) string { return strings.ToUpper(strings.TrimSpace(c)) }

// ResolveAgent returns the full name of an agent.
func (s *Snapshot) ResolveAgent(id string) (string, bool) {
	name, ok := s.names[agentKey(id)]
	return name, ok
}

// BucketsFor lists the buckets an agent is rostered in, in roster order.
// Agents with no roster entry have no buckets.
func (s *Snapshot) BucketsFor(id string) []string {
	return append([]string(nil), s.buckets[agentKey(id)]...)
}

// Rostered reports whether the agent appears in any roster.
func (s *Snapshot) Rostered(id string) bool {
	_, ok := s.names[agentKey(id)]
	return ok
}

// Roster returns the roster rows, sorted by bucket then agent.
func (s *Snapshot) Roster() []Agent {
	out := append([]Agent(nil), s.roster...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bucket != out[j].Bucket {
			return out[i].Bucket < out[j].Bucket
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// BankStatus maps a raw status to the bank-facing status.
func (s *Snapshot) BankStatus(raw string) (string, bool) {
	bs, ok := s.bankStatus[statusKey(raw)]
	return bs, ok
}

// IsValidReasonCode reports membership in the reason-code set.
func (s *Snapshot) IsValidReasonCode(code string) bool {
	_, ok := s.reasonCodes[codeKey(code)]
	return ok
}

// HasDispositions reports whether a disposition set was loaded.
func (s *Snapshot) HasDispositions() bool { return len(s.dispositions) > 0 }

// IsValidDisposition reports membership in the disposition set.
// With no set loaded every status is accepted.
func (s *Snapshot) IsValidDisposition(status string) bool {
	if len(s.dispositions) == 0 {
		return true
	}
	_, ok := s.dispositions[statusKey(status)]
	return ok
}

// Account returns the endorsement metadata of an account.
func (s *Snapshot) Account(id string) (AccountMeta, bool) {
	a, ok := s.accounts[AccountKey(id)]
	return a, ok
}

// Endorsed reports whether an account number is already in the account dataset. The
// number is compared as written, so "0001001" and "1001" are different accounts here
// even though Account and ChCodeFor treat them as one.
func (s *Snapshot) Endorsed(id string) bool {
	_, ok := s.endorsed[rawAccountID(id)]
	return ok
}

// ChCodeFor returns the ChCode of an account.
func (s *Snapshot) ChCodeFor(id string) (string, bool) {
	a, ok := s.accounts[AccountKey(id)]
	if !ok || a.ChCode == "" {
		return "", false
	}
	return a.ChCode, true
}

// FieldResult returns the latest field result of a ChCode. A status or sub-status of
// "0" or "" blanks both.
func (s *Snapshot) FieldResult(chcode string) (FieldResult, bool) {
	f, ok := s.fieldResults[strings.TrimSpace(chcode)]
	if !ok {
		return FieldResult{}, false
	}
	if blankResult(f.Status) || blankResult(f.SubStatus) {
		f.Status, f.SubStatus = "", ""
	}
	return f, true
}

func blankResult(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "0"
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
