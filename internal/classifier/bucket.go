package classifier

import (
	"strings"

	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
)

// DefaultAllowList is the set of system-like agents routed strictly by card prefix.
var DefaultAllowList = []string{"SYSTEM", "LCMANZANO", "ACALVAREZ", "DSDEGUZMAN", "SRELIOT", "TANAZAIRE", "SPMADRID"}

// Bucket is a portfolio segment and the card prefixes that identify it.
type Bucket struct {
	Label    string
	Prefixes []string
}

// DefaultBuckets are the BDO auto segments.
var DefaultBuckets = []Bucket{
	{Label: "Bucket 1", Prefixes: []string{"01"}},
	{Label: "Bucket 2", Prefixes: []string{"02"}},
	{Label: "Bucket 5&6", Prefixes: []string{"05", "06"}},
}

// BucketRouter assigns records to buckets.
//
// An agent's candidate buckets are its roster buckets. An agent with no roster bucket
// matches every bucket unless RequireRoster is set. Allow-listed agents then keep only the
// candidates whose prefixes match the card number; every other agent keeps all candidates.
type BucketRouter struct {
	Buckets       []Bucket
	AllowList     []string
	RequireRoster bool
	Snapshot      *reference.Snapshot
}

// Route returns the labels of rec in bucket order.
func (r *BucketRouter) Route(rec models.Record) []string {
	agent := strings.ToUpper(strings.TrimSpace(rec.RemarkBy))
	rostered := r.Snapshot.BucketsFor(agent)
	if len(rostered) == 0 && r.RequireRoster {
		return nil
	}
	strict := r.allowListed(agent)
	card := strings.TrimSpace(rec.Card)

	var out []string
	for _, b := range r.Buckets {
		if len(rostered) > 0 && !contains(rostered, b.Label) {
			continue
		}
		if strict && !hasAnyPrefix(card, b.Prefixes) {
			continue
		}
		out = append(out, b.Label)
	}
	return out
}

func (r *BucketRouter) allowListed(agent string) bool {
	for _, a := range r.AllowList {
		if strings.EqualFold(a, agent) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
