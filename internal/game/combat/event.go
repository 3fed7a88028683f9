package combat

import (
	"github.com/cory-johannsen/lifesim/internal/game/body"
	"github.com/cory-johannsen/lifesim/internal/game/confidence"
)

// EventKind classifies a fight event.
type EventKind int

const (
	EventRoundStarted EventKind = iota
	EventTurnSkipped
	EventPanicked
	EventExhausted
	EventPenalty
	EventConfidence
	EventMiss
	EventHit
	EventEscaped
	EventEscapeFailed
	EventStrike
	EventMercy
	EventNoMercy
	EventDefeated
	EventResolved
)

var eventNames = [...]string{
	EventRoundStarted: "round_started",
	EventTurnSkipped:  "turn_skipped",
	EventPanicked:     "panicked",
	EventExhausted:    "exhausted",
	EventPenalty:      "penalty",
	EventConfidence:   "confidence",
	EventMiss:         "miss",
	EventHit:          "hit",
	EventEscaped:      "escaped",
	EventEscapeFailed: "escape_failed",
	EventStrike:       "strike",
	EventMercy:        "mercy",
	EventNoMercy:      "no_mercy",
	EventDefeated:     "defeated",
	EventResolved:     "resolved",
}

// String returns the event kind name.
func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event records one observable fight transition. Callers render Narrative or
// build their own text from the structured fields.
type Event struct {
	Kind    EventKind
	Round   int
	ActorID string
	// TargetID is empty for events that involve a single side.
	TargetID string
	Zone     body.Zone
	Damage   int
	Roll     int
	Chance   int
	Critical bool
	Parried  bool
	// Confidence is set for EventConfidence.
	Confidence *confidence.Change
	Result     Result
	Narrative  string
}

// Sink receives events as they happen.
type Sink func(Event)
