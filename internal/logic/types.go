// Package logic contains pure business logic for button channel tracking.
// This package has NO external dependencies (no GPIO, serial, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package logic

import "time"

// Channel identifies one button/LED pair by zero-based index.
type Channel int

// Valid reports whether the channel index is in [0, n).
func (c Channel) Valid(n int) bool {
	return c >= 0 && int(c) < n
}

// Number returns the 1-based channel number used on the wire.
func (c Channel) Number() int {
	return int(c) + 1
}

// ButtonState represents the debounced logical state of a button.
type ButtonState string

const (
	StateReleased ButtonState = "RELEASED"
	StatePressed  ButtonState = "PRESSED"
)

// EventKind represents a detected transition.
type EventKind string

const (
	EventPressed  EventKind = "pressed"
	EventReleased EventKind = "released"
)

// Event represents a single debounced transition to be reported.
type Event struct {
	Channel Channel
	Kind    EventKind
	// Time is the instant the transition was accepted, not the instant
	// of reporting.
	Time time.Time
}

// channelState tracks debounce bookkeeping for one channel.
type channelState struct {
	// Current stable (debounced) state
	stable ButtonState
	// Pending state during debounce
	pending ButtonState
	// Time when pending state was first observed
	pendingSince time.Time
	// Time when the current PRESSED state began; meaningful only while
	// stable == StatePressed
	pressedSince time.Time
	// Whether the channel has established a baseline
	baselined bool
}

// Counts tracks how many of each transition occurred since startup,
// per channel.
type Counts struct {
	Pressed  []int
	Released []int
}

func newCounts(n int) Counts {
	return Counts{
		Pressed:  make([]int, n),
		Released: make([]int, n),
	}
}

// Clone returns an independent copy safe to hand to other goroutines.
func (c Counts) Clone() Counts {
	out := newCounts(len(c.Pressed))
	copy(out.Pressed, c.Pressed)
	copy(out.Released, c.Released)
	return out
}

func boolToState(pressed bool) ButtonState {
	if pressed {
		return StatePressed
	}
	return StateReleased
}
