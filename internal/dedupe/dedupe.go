// Package dedupe keeps one row per key under the uniqueness policies the reports use.
// Every function returns a new slice and leaves its input untouched.
package dedupe

import (
	"sort"
	"time"
)

// KeepFirst keeps the first row of each key, in input order.
func KeepFirst[T any, K comparable](rows []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// NewestFirst returns rows stably sorted by at, latest first.
func NewestFirst[T any](rows []T, at func(T) time.Time) []T {
	out := append([]T(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return at(out[i]).After(at(out[j])) })
	return out
}

// Latest keeps the row with the latest time per key. The survivors are ordered newest first;
// rows with equal times keep their input order.
func Latest[T any, K comparable](rows []T, key func(T) K, at func(T) time.Time) []T {
	return KeepFirst(NewestFirst(rows, at), key)
}

// MaxBy keeps, per key, the row for which no other row of the key is greater under less.
// Ties keep the earlier row. Groups appear in the order their first row was seen.
func MaxBy[T any, K comparable](rows []T, key func(T) K, less func(a, b T) bool) []T {
	index := make(map[K]int, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			index[k] = len(out)
			out = append(out, r)
			continue
		}
		if less(out[i], r) {
			out[i] = r
		}
	}
	return out
}

// KeepLastComplete resolves collisions between complete rows sharing a key: only the last
// complete row of each key survives. Incomplete rows are never dropped.
func KeepLastComplete[T any, K comparable](rows []T, key func(T) K, complete func(T) bool) []T {
	last := make(map[K]int)
	for i, r := range rows {
		if complete(r) {
			last[key(r)] = i
		}
	}
	out := make([]T, 0, len(rows))
	for i, r := range rows {
		if complete(r) && last[key(r)] != i {
			continue
		}
		out = append(out, r)
	}
	return out
}
