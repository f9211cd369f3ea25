package logic

import "time"

// Debouncer tracks per-channel button state and detects debounced
// transitions.
//
// A transition is accepted once the raw level has held its new value for the
// settle duration. A settle duration of zero degenerates to a single-sample
// compare: any raw sample differing from the stable state is accepted
// immediately, and the caller's polling cadence is the only rate limit.
type Debouncer struct {
	settle time.Duration
	chans  []channelState
	counts Counts
}

// NewDebouncer creates a debouncer for n channels with the given settle
// duration.
func NewDebouncer(n int, settle time.Duration) *Debouncer {
	chans := make([]channelState, n)
	for i := range chans {
		chans[i].stable = StateReleased
	}
	return &Debouncer{
		settle: settle,
		chans:  chans,
		counts: newCounts(n),
	}
}

// Channels returns the number of channels tracked.
func (d *Debouncer) Channels() int {
	return len(d.chans)
}

// Sample feeds one raw reading for one channel. pressed is the logical level
// after any wiring inversion (true = button down). On an accepted transition
// it returns the corresponding Event, timestamped with now; otherwise nil.
//
// The first samples for a channel establish a baseline and never produce an
// event, whatever the wiring polarity reads at boot.
func (d *Debouncer) Sample(ch Channel, pressed bool, now time.Time) *Event {
	if !ch.Valid(len(d.chans)) {
		return nil
	}
	c := &d.chans[ch]
	state := boolToState(pressed)

	if !c.baselined {
		d.baseline(c, state, now)
		return nil
	}

	if state == c.stable {
		// No change from stable state, clear any pending
		c.pending = ""
		return nil
	}

	if c.pending != state {
		c.pending = state
		c.pendingSince = now
	}

	if now.Sub(c.pendingSince) < d.settle {
		return nil
	}

	c.stable = state
	c.pending = ""
	if state == StatePressed {
		c.pressedSince = now
		d.counts.Pressed[ch]++
	} else {
		d.counts.Released[ch]++
	}

	return &Event{Channel: ch, Kind: kindForState(state), Time: now}
}

func (d *Debouncer) baseline(c *channelState, state ButtonState, now time.Time) {
	if c.pending != state {
		// First observation, or the level changed under us: restart
		c.pending = state
		c.pendingSince = now
	}
	if now.Sub(c.pendingSince) >= d.settle {
		c.stable = state
		c.pending = ""
		c.baselined = true
		if state == StatePressed {
			c.pressedSince = now
		}
	}
}

// Baselined reports whether every channel has established a baseline.
func (d *Debouncer) Baselined() bool {
	for i := range d.chans {
		if !d.chans[i].baselined {
			return false
		}
	}
	return true
}

// State returns the current stable state of one channel.
func (d *Debouncer) State(ch Channel) ButtonState {
	if !ch.Valid(len(d.chans)) {
		return StateReleased
	}
	return d.chans[ch].stable
}

// States returns the current stable state of every channel.
func (d *Debouncer) States() []ButtonState {
	out := make([]ButtonState, len(d.chans))
	for i := range d.chans {
		out[i] = d.chans[i].stable
	}
	return out
}

// PressedSince returns when the channel's current PRESSED state began.
// ok is false while the channel is released.
func (d *Debouncer) PressedSince(ch Channel) (t time.Time, ok bool) {
	if !ch.Valid(len(d.chans)) || d.chans[ch].stable != StatePressed {
		return time.Time{}, false
	}
	return d.chans[ch].pressedSince, true
}

// CountsSnapshot returns a copy of the per-channel transition counts.
func (d *Debouncer) CountsSnapshot() Counts {
	return d.counts.Clone()
}

func kindForState(s ButtonState) EventKind {
	if s == StatePressed {
		return EventPressed
	}
	return EventReleased
}
