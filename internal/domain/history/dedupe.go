// Package history provides the read-time view over the append-only review
// ledger. Persisted records are never mutated; deduplication is a pure
// function applied when the ledger is read.
package history

import (
	"sort"

	"github.com/sedlabs/expense-claims/internal/domain/entity"
)

// Dedupe returns the ledger ordered by timestamp with duplicate resubmission
// events collapsed: when two or more "resubmitted" records carry an identical
// timestamp (a retried client request), only the first is retained. All other
// actions are retained without deduplication. The input slice is not
// modified.
func Dedupe(records []entity.HistoryRecord) []entity.HistoryRecord {
	ordered := make([]entity.HistoryRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	seen := make(map[int64]bool)
	result := ordered[:0]
	for _, record := range ordered {
		if record.Action == entity.ActionResubmitted {
			key := record.Timestamp.UnixNano()
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		result = append(result, record)
	}
	return result
}
