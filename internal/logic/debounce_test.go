package logic

import (
	"testing"
	"time"
)

func TestNewDebouncer(t *testing.T) {
	d := NewDebouncer(4, 5*time.Millisecond)
	if d == nil {
		t.Fatal("NewDebouncer returned nil")
	}
	if d.Channels() != 4 {
		t.Errorf("expected 4 channels, got %d", d.Channels())
	}
	if d.Baselined() {
		t.Error("new debouncer should not be baselined")
	}
	for ch := Channel(0); ch < 4; ch++ {
		if d.State(ch) != StateReleased {
			t.Errorf("channel %d: expected RELEASED before any sample, got %s", ch, d.State(ch))
		}
	}
}

func TestNoSpuriousEventAtStartup(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(2, 0)

	// First iteration: whatever the wiring reads, no event may fire.
	if ev := d.Sample(0, false, now); ev != nil {
		t.Errorf("channel 0: unexpected event at startup: %+v", ev)
	}
	if ev := d.Sample(1, true, now); ev != nil {
		t.Errorf("channel 1: unexpected event at startup: %+v", ev)
	}
	if !d.Baselined() {
		t.Error("zero settle: should baseline on the first sample")
	}
	if d.State(1) != StatePressed {
		t.Errorf("channel 1: expected PRESSED baseline, got %s", d.State(1))
	}
}

func TestBaselineSettleDuration(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(1, 10*time.Millisecond)

	d.Sample(0, false, now)
	if d.Baselined() {
		t.Error("should not baseline before settle duration")
	}

	// Level flips during baseline: observation restarts.
	d.Sample(0, true, now.Add(5*time.Millisecond))
	d.Sample(0, true, now.Add(10*time.Millisecond))
	if d.Baselined() {
		t.Error("should not baseline while level is changing")
	}

	if ev := d.Sample(0, true, now.Add(15*time.Millisecond)); ev != nil {
		t.Errorf("unexpected event at baseline establishment: %+v", ev)
	}
	if !d.Baselined() {
		t.Error("should baseline once level held for settle duration")
	}
	if d.State(0) != StatePressed {
		t.Errorf("expected PRESSED baseline, got %s", d.State(0))
	}
}

func TestSingleSampleTransition(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(1, 0)
	d.Sample(0, false, now)

	at := now.Add(3 * time.Millisecond)
	ev := d.Sample(0, true, at)
	if ev == nil {
		t.Fatal("expected Pressed event on first differing sample")
	}
	if ev.Kind != EventPressed {
		t.Errorf("expected pressed, got %s", ev.Kind)
	}
	if ev.Channel != 0 {
		t.Errorf("expected channel 0, got %d", ev.Channel)
	}
	if !ev.Time.Equal(at) {
		t.Errorf("expected timestamp %v, got %v", at, ev.Time)
	}
}

func TestRoundTrip(t *testing.T) {
	// [Released, Pressed, Pressed, Released] sampled once per iteration
	// must yield exactly one Pressed then one Released, in that order.
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(1, 0)

	raw := []bool{false, true, true, false}
	var events []Event
	for i, pressed := range raw {
		if ev := d.Sample(0, pressed, now.Add(time.Duration(i)*3*time.Millisecond)); ev != nil {
			events = append(events, *ev)
		}
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != EventPressed {
		t.Errorf("event 0: expected pressed, got %s", events[0].Kind)
	}
	if events[1].Kind != EventReleased {
		t.Errorf("event 1: expected released, got %s", events[1].Kind)
	}
	if events[1].Time.Before(events[0].Time) {
		t.Error("events out of timestamp order")
	}
}

func TestSettleSuppressesBounce(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(1, 10*time.Millisecond)

	// Baseline released.
	d.Sample(0, false, now)
	d.Sample(0, false, now.Add(10*time.Millisecond))
	if !d.Baselined() {
		t.Fatal("expected baseline")
	}

	// Contact chatter: alternating samples shorter than the settle window.
	base := now.Add(20 * time.Millisecond)
	for i := 0; i < 6; i++ {
		pressed := i%2 == 0
		if ev := d.Sample(0, pressed, base.Add(time.Duration(i)*3*time.Millisecond)); ev != nil {
			t.Errorf("sample %d: chatter produced event %+v", i, ev)
		}
	}

	// Now the level holds: exactly one Pressed after the settle window.
	hold := base.Add(30 * time.Millisecond)
	var got *Event
	for i := 0; i < 5; i++ {
		ev := d.Sample(0, true, hold.Add(time.Duration(i)*3*time.Millisecond))
		if ev != nil {
			if got != nil {
				t.Fatalf("second event for one physical press: %+v", ev)
			}
			got = ev
		}
	}
	if got == nil {
		t.Fatal("expected a Pressed event once level held")
	}
	if got.Kind != EventPressed {
		t.Errorf("expected pressed, got %s", got.Kind)
	}
}

func TestPressedSince(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(1, 0)
	d.Sample(0, false, now)

	if _, ok := d.PressedSince(0); ok {
		t.Error("PressedSince should not be set while released")
	}

	at := now.Add(3 * time.Millisecond)
	d.Sample(0, true, at)
	since, ok := d.PressedSince(0)
	if !ok {
		t.Fatal("PressedSince should be set while pressed")
	}
	if !since.Equal(at) {
		t.Errorf("expected PressedSince %v, got %v", at, since)
	}

	d.Sample(0, false, at.Add(3*time.Millisecond))
	if _, ok := d.PressedSince(0); ok {
		t.Error("PressedSince should clear on release")
	}
}

func TestCounts(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(2, 0)
	d.Sample(0, false, now)
	d.Sample(1, false, now)

	step := 3 * time.Millisecond
	d.Sample(0, true, now.Add(step))
	d.Sample(0, false, now.Add(2*step))
	d.Sample(0, true, now.Add(3*step))
	d.Sample(1, true, now.Add(3*step))

	c := d.CountsSnapshot()
	if c.Pressed[0] != 2 || c.Released[0] != 1 {
		t.Errorf("channel 0: got pressed=%d released=%d, want 2/1", c.Pressed[0], c.Released[0])
	}
	if c.Pressed[1] != 1 || c.Released[1] != 0 {
		t.Errorf("channel 1: got pressed=%d released=%d, want 1/0", c.Pressed[1], c.Released[1])
	}

	// Snapshot is a copy, not a view.
	c.Pressed[0] = 99
	if d.CountsSnapshot().Pressed[0] != 2 {
		t.Error("CountsSnapshot returned a live reference")
	}
}

func TestOutOfRangeChannelIgnored(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer(2, 0)
	if ev := d.Sample(5, true, now); ev != nil {
		t.Errorf("out-of-range sample produced event %+v", ev)
	}
	if ev := d.Sample(-1, true, now); ev != nil {
		t.Errorf("negative channel produced event %+v", ev)
	}
}
