package srs

import "fmt"

// Quality is a learner's self-reported recall quality for one review.
type Quality int

const (
	Blackout        Quality = iota // No memory at all.
	CompleteFailure                // Completely forgot.
	Recognized                     // Forgot but recognized when shown.
	Difficult                      // Remembered with difficulty.
	Hesitant                       // Remembered after slight hesitation.
	PerfectRecall                  // Remembered easily.
)

var qualityDescriptions = [...]string{
	Blackout:        "Blackout - No memory at all",
	CompleteFailure: "Very Hard - Completely forgot",
	Recognized:      "Hard - Forgot but recognized when shown",
	Difficult:       "Fair - Remembered with difficulty",
	Hesitant:        "Good - Remembered with slight hesitation",
	PerfectRecall:   "Perfect - Remembered easily",
}

// IsValid reports whether q is in the range 0..5.
func (q Quality) IsValid() bool {
	return q >= Blackout && q <= PerfectRecall
}

// IsSuccess reports whether q counts as a successful recall.
func (q Quality) IsSuccess() bool {
	return q >= successThreshold
}

// Description returns the label shown to learners for q.
func (q Quality) Description() string {
	if !q.IsValid() {
		return "Unknown"
	}
	return qualityDescriptions[q]
}

func (q Quality) String() string {
	if !q.IsValid() {
		return fmt.Sprintf("Quality(%d)", int(q))
	}
	return fmt.Sprintf("%d", int(q))
}
