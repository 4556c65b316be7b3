package services

import (
	"slices"
	"time"

	"mailroom/internal/core/domain/model/pkgnumber"
)

// NumberReconciler compares the allocator's reservations of one mailroom with
// the numbers held by its live packages.
//
// A reservation without a live package is either a registration still in
// flight (acquired, not yet persisted) or a leak (request aborted between
// acquire and persist, release lost after a resolve). Only reservations older
// than the cutoff are treated as leaks.
type NumberReconciler struct{}

func NewNumberReconciler() NumberReconciler {
	return NumberReconciler{}
}

// FindOrphans returns, in ascending order, the reserved numbers that no live
// package holds and that were reserved before cutoff.
func (NumberReconciler) FindOrphans(
	reservations []pkgnumber.Reservation,
	live []pkgnumber.Number,
	cutoff time.Time,
) []pkgnumber.Number {
	held := make(map[pkgnumber.Number]struct{}, len(live))
	for _, n := range live {
		held[n] = struct{}{}
	}

	orphans := make([]pkgnumber.Number, 0)
	for _, r := range reservations {
		if r.Number.IsZero() {
			continue
		}
		if _, ok := held[r.Number]; ok {
			continue
		}
		if !r.ReservedAt.Before(cutoff) {
			continue
		}
		orphans = append(orphans, r.Number)
	}

	slices.SortFunc(orphans, func(a, b pkgnumber.Number) int { return a.Int() - b.Int() })
	return slices.Compact(orphans)
}
