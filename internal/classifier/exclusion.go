package classifier

import (
	"regexp"
	"strings"

	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
	"spmadrid/collections-reports/internal/textutils"
)

// Remarks written by the contact-management system itself.
const (
	RemarkReassignment = "Updates when case reassign to another collector"
	RemarkAutoPDUpdate = "System Auto Update Remarks For PD"
)

// ExclusionRule drops a record from every output when it matches.
type ExclusionRule interface {
	Excludes(rec models.Record, st models.CanonicalStatus) bool
	// Name identifies the rule in logs and run statistics.
	Name() string
}

// SystemRemarks excludes records whose remark is one of the system sentinels.
type SystemRemarks struct {
	Remarks []string
}

// DefaultSystemRemarks returns the two contact-management sentinels.
func DefaultSystemRemarks() SystemRemarks {
	return SystemRemarks{Remarks: []string{RemarkReassignment, RemarkAutoPDUpdate}}
}

func (r SystemRemarks) Name() string { return "system_remark" }

func (r SystemRemarks) Excludes(rec models.Record, _ models.CanonicalStatus) bool {
	remark := strings.TrimSpace(rec.Remark)
	for _, s := range r.Remarks {
		if strings.EqualFold(remark, s) {
			return true
		}
	}
	return false
}

var placeholderCard = regexp.MustCompile(`^ch([1-9]|1[0-9])$`)

// PlaceholderCard excludes the synthetic card numbers ch1 to ch19.
type PlaceholderCard struct{}

func (PlaceholderCard) Name() string { return "placeholder_card" }

func (PlaceholderCard) Excludes(rec models.Record, _ models.CanonicalStatus) bool {
	return placeholderCard.MatchString(strings.TrimSpace(rec.Card))
}

// RemarkContains excludes remarks containing any of the substrings, ignoring case.
type RemarkContains struct {
	Substrings []string
}

func (RemarkContains) Name() string { return "remark_contains" }

func (r RemarkContains) Excludes(rec models.Record, _ models.CanonicalStatus) bool {
	return containsAny(rec.Remark, r.Substrings)
}

// AgentContains excludes records remarked by agents whose id contains any of the substrings.
type AgentContains struct {
	Substrings []string
}

func (AgentContains) Name() string { return "agent_contains" }

func (r AgentContains) Excludes(rec models.Record, _ models.CanonicalStatus) bool {
	return containsAny(rec.RemarkBy, r.Substrings)
}

// BlankOrExcludedStatus excludes blank statuses, the EXCLUDE category and any status
// mentioning DNC, such as "PTP - DNC REQUEST".
type BlankOrExcludedStatus struct{}

func (BlankOrExcludedStatus) Name() string { return "blank_or_dnc_status" }

func (BlankOrExcludedStatus) Excludes(_ models.Record, st models.CanonicalStatus) bool {
	return st.Raw == "" || st.Kind == models.CategoryExclude || textutils.ContainsFold(st.Raw, "DNC")
}

// InvalidDisposition excludes statuses missing from the disposition set.
type InvalidDisposition struct {
	Snapshot *reference.Snapshot
}

func (InvalidDisposition) Name() string { return "invalid_disposition" }

func (r InvalidDisposition) Excludes(_ models.Record, st models.CanonicalStatus) bool {
	return !r.Snapshot.IsValidDisposition(st.Raw)
}

// FirstExclusion returns the name of the first rule that excludes the record.
func FirstExclusion(rules []ExclusionRule, rec models.Record, st models.CanonicalStatus) (string, bool) {
	for _, r := range rules {
		if r.Excludes(rec, st) {
			return r.Name(), true
		}
	}
	return "", false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && textutils.ContainsFold(s, sub) {
			return true
		}
	}
	return false
}
