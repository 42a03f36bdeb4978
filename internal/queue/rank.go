package queue

import (
	"sort"

	"github.com/erazemk/servis/internal/model"
)

// rankPending derives the 0-based position of every pending item, ordered by
// (arrival date, creation time). Ties on both keys fall back to the row id,
// which preserves insertion order since SQLite timestamps have second
// granularity. Non-pending items are ignored.
//
// This is the single source of truth for queue order: the mutating paths
// persist its result, and the read path applies it on the fly so a stale
// stored index is never surfaced.
func rankPending(items []model.QueueItem) map[int64]int {
	pending := make([]model.QueueItem, 0, len(items))
	for _, item := range items {
		if item.Status == model.QueueStatusPending {
			pending = append(pending, item)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		a, b := pending[i], pending[j]
		if !a.ArrivalDate.Equal(b.ArrivalDate) {
			return a.ArrivalDate.Before(b.ArrivalDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	ranks := make(map[int64]int, len(pending))
	for i, item := range pending {
		ranks[item.ID] = i
	}
	return ranks
}
