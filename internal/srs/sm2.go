// Package srs implements the SM-2 spaced-repetition scheduler used for
// flashcard reviews: the per-card parameter update, due-set selection,
// priority ordering and due-set statistics.
//
// Every function is pure. The current time is always passed in by the
// caller, so the package holds no state and is safe for concurrent use.
package srs

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// DefaultEasinessFactor is the easiness factor of a newly created card.
	DefaultEasinessFactor = 2.5
	// MinEasinessFactor is the lower bound of the easiness factor.
	MinEasinessFactor = 1.3
	// InitialInterval is the interval, in days, of a newly created card.
	InitialInterval = 1

	successThreshold = 3
	secondInterval   = 6
)

var (
	ErrInvalidQuality = errors.New("srs: quality must be an integer between 0 and 5")
	ErrInvalidState   = errors.New("srs: card state out of domain")
)

// State is the memory state of a single card.
type State struct {
	EasinessFactor float64
	Repetitions    int
	Interval       int
	NextReviewDate time.Time
}

// NewState returns the state of a freshly created card. It is due immediately.
func NewState(now time.Time) State {
	return State{
		EasinessFactor: DefaultEasinessFactor,
		Repetitions:    0,
		Interval:       InitialInterval,
		NextReviewDate: now,
	}
}

// Validate reports whether s lies inside the domain Update accepts.
func (s State) Validate() error {
	switch {
	case math.IsNaN(s.EasinessFactor) || s.EasinessFactor < MinEasinessFactor:
		return fmt.Errorf("%w: easiness factor %v below %v", ErrInvalidState, s.EasinessFactor, MinEasinessFactor)
	case s.Repetitions < 0:
		return fmt.Errorf("%w: negative repetitions %d", ErrInvalidState, s.Repetitions)
	case s.Interval < 0:
		return fmt.Errorf("%w: negative interval %d", ErrInvalidState, s.Interval)
	}
	return nil
}

// Update applies one review with the given quality to s and returns the new
// state. s is not modified.
//
// A successful recall (quality >= 3) adjusts the easiness factor and extends
// the streak; a lapse keeps the easiness factor, resets the streak and
// schedules the card for the next day. Intervals after the second success
// grow as round(interval * EF'), rounding half away from zero.
func Update(q Quality, s State, now time.Time) (State, error) {
	if !q.IsValid() {
		return State{}, fmt.Errorf("%w: got %d", ErrInvalidQuality, int(q))
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}

	next := State{EasinessFactor: s.EasinessFactor}
	if q.IsSuccess() {
		next.EasinessFactor = nextEasinessFactor(s.EasinessFactor, q)
		next.Repetitions = s.Repetitions + 1
	} else {
		next.Repetitions = 0
	}
	next.Interval = nextInterval(q, next.Repetitions, s.Interval, next.EasinessFactor)
	next.NextReviewDate = now.AddDate(0, 0, next.Interval)
	return next, nil
}

func nextEasinessFactor(ef float64, q Quality) float64 {
	d := float64(PerfectRecall - q)
	ef += 0.1 - d*(0.08+d*0.02)
	if ef < MinEasinessFactor {
		return MinEasinessFactor
	}
	return ef
}

func nextInterval(q Quality, repetitions, interval int, ef float64) int {
	if !q.IsSuccess() {
		return InitialInterval
	}
	switch repetitions {
	case 1:
		return InitialInterval
	case 2:
		return secondInterval
	}
	days := int(math.Round(float64(interval) * ef))
	if days < InitialInterval {
		// a zero interval carried in from storage would otherwise stick at 0
		return InitialInterval
	}
	return days
}
