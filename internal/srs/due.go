package srs

import (
	"slices"
	"strings"
	"time"
)

// Card is anything that can be scheduled: it exposes its next review time
// and a stable key used to break ordering ties.
type Card interface {
	DueAt() time.Time
	Key() string
}

// IsDue reports whether c is due at now.
func IsDue(c Card, now time.Time) bool {
	return !c.DueAt().After(now)
}

// SelectDue returns the cards whose next review date is at or before now,
// in their input order. The input slice is left untouched.
func SelectDue[C Card](cards []C, now time.Time) []C {
	due := make([]C, 0, len(cards))
	for _, c := range cards {
		if IsDue(c, now) {
			due = append(due, c)
		}
	}
	return due
}

// OrderByPriority returns a copy of cards sorted for review: overdue cards
// first, most overdue leading, then the rest soonest first. Cards sharing a
// next review date are ordered by key.
func OrderByPriority[C Card](cards []C, now time.Time) []C {
	ordered := slices.Clone(cards)
	slices.SortStableFunc(ordered, func(a, b C) int {
		return comparePriority(a, b, now)
	})
	return ordered
}

func comparePriority(a, b Card, now time.Time) int {
	aOverdue := a.DueAt().Before(now)
	bOverdue := b.DueAt().Before(now)
	if aOverdue != bOverdue {
		if aOverdue {
			return -1
		}
		return 1
	}
	// Within either group an earlier date sorts first: for overdue cards
	// that is the most negative overdue amount.
	if c := a.DueAt().Compare(b.DueAt()); c != 0 {
		return c
	}
	return strings.Compare(a.Key(), b.Key())
}

// Stats summarises a due set.
type Stats struct {
	TotalDue int `json:"total_due"`
	Overdue  int `json:"overdue"`
	DueToday int `json:"due_today"`
}

// ComputeStats counts the due set. DueToday compares calendar days in loc;
// a nil loc means UTC.
func ComputeStats[C Card](due []C, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.UTC
	}
	stats := Stats{TotalDue: len(due)}
	today := now.In(loc)
	for _, c := range due {
		at := c.DueAt()
		if at.Before(now) {
			stats.Overdue++
		}
		if sameDay(at.In(loc), today) {
			stats.DueToday++
		}
	}
	return stats
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
