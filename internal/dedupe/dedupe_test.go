package dedupe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type row struct {
	id       string
	account  string
	status   string
	at       time.Time
	complete bool
}

func ids(rows []row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.id)
	}
	return out
}

func day(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

type compositeKey struct{ account, status string }

func byAccountStatus(r row) compositeKey { return compositeKey{r.account, r.status} }

func TestKeepFirst(t *testing.T) {
	rows := []row{{id: "1", account: "A"}, {id: "2", account: "B"}, {id: "3", account: "A"}}
	got := KeepFirst(rows, func(r row) string { return r.account })
	assert.Equal(t, []string{"1", "2"}, ids(got))
	assert.Len(t, rows, 3, "input untouched")
	assert.Empty(t, KeepFirst(nil, func(r row) string { return r.account }))
}

func TestLatestByCompositeKey(t *testing.T) {
	rows := []row{
		{id: "old", account: "A", status: "PTP - NEW", at: day(1)},
		{id: "new", account: "A", status: "PTP - NEW", at: day(5)},
		{id: "other status", account: "A", status: "UNCON", at: day(2)},
		{id: "tie-1", account: "B", status: "PTP - NEW", at: day(3)},
		{id: "tie-2", account: "B", status: "PTP - NEW", at: day(3)},
	}

	got := Latest(rows, byAccountStatus, func(r row) time.Time { return r.at })
	assert.Equal(t, []string{"new", "tie-1", "other status"}, ids(got))
	assert.Equal(t, "old", rows[0].id)
}

func TestMaxBy(t *testing.T) {
	rows := []row{
		{id: "c1-old", account: "C1", at: day(1)},
		{id: "c2", account: "C2", at: day(1)},
		{id: "c1-new", account: "C1", at: day(9)},
		{id: "c1-tie", account: "C1", at: day(9)},
	}
	got := MaxBy(rows, func(r row) string { return r.account }, func(a, b row) bool { return a.at.Before(b.at) })
	assert.Equal(t, []string{"c1-new", "c2"}, ids(got))
}

func TestKeepLastComplete(t *testing.T) {
	rows := []row{
		{id: "a1", account: "A", complete: true},
		{id: "a2", account: "A"},
		{id: "a3", account: "A", complete: true},
		{id: "b1", account: "B"},
		{id: "b2", account: "B"},
		{id: "c1", account: "C", complete: true},
	}
	got := KeepLastComplete(rows, func(r row) string { return r.account }, func(r row) bool { return r.complete })
	assert.Equal(t, []string{"a2", "a3", "b1", "b2", "c1"}, ids(got))
}
