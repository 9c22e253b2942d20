package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spmadrid/collections-reports/internal/models"
	"spmadrid/collections-reports/internal/reference"
)

func TestBucketRouter(t *testing.T) {
	snap := reference.NewSnapshot(reference.Data{Agents: []reference.Agent{
		{ID: "AGENT1", FullName: "Agent One", Bucket: "Bucket 1"},
		{ID: "AGENT2", FullName: "Agent Two", Bucket: "Bucket 2"},
		{ID: "AGENT2", FullName: "Agent Two", Bucket: "Bucket 5&6"},
		{ID: "SYSTEM", FullName: "System", Bucket: "Bucket 5&6"},
	}})
	router := &BucketRouter{Buckets: DefaultBuckets, AllowList: DefaultAllowList, Snapshot: snap}

	tests := []struct {
		name  string
		agent string
		card  string
		want  []string
	}{
		{"rostered agent ignores prefix", "agent1", "0512", []string{"Bucket 1"}},
		{"agent in two buckets", "AGENT2", "0100", []string{"Bucket 2", "Bucket 5&6"}},
		{"unrostered agent matches every bucket", "NEWBIE", "9999", []string{"Bucket 1", "Bucket 2", "Bucket 5&6"}},
		{"allow-listed rostered agent filtered by prefix", "SYSTEM", "0612", []string{"Bucket 5&6"}},
		{"allow-listed rostered agent outside its bucket", "SYSTEM", "0112", nil},
		{"allow-listed unrostered agent routes by prefix", "SPMADRID", "0212", []string{"Bucket 2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := router.Route(models.Record{RemarkBy: tt.agent, Card: tt.card})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBucketRouterRequireRoster(t *testing.T) {
	router := &BucketRouter{Buckets: DefaultBuckets, RequireRoster: true, Snapshot: reference.Empty()}
	assert.Empty(t, router.Route(models.Record{RemarkBy: "NEWBIE", Card: "0100"}))
}
