// Package status provides a thread-safe status tracker for the button-panel
// daemon. It is written by the polling loop and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/button-panel/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Channels   int
	PollMs     int64
	DebounceMs int64
	Panel      string // "gpio", "expander", "fake"
	Serial     string
	Broker     string // empty = MQTT mirror disabled
	HTTPAddr   string
	Game       string // "off", "trials", "ramp"
	Legacy     bool
}

// ChannelStatus is one channel's view in a snapshot.
type ChannelStatus struct {
	Button   logic.ButtonState
	LED      bool
	Pressed  int
	Released int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Channels      []ChannelStatus
	Baselined     bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Channels:  make([]ChannelStatus, cfg.Channels),
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets channel states, LED states, baseline status, and transition
// counts. Called from the polling loop on every tick.
func (t *Tracker) Update(buttons []logic.ButtonState, leds []bool, baselined bool, counts logic.Counts) {
	t.mu.Lock()
	chans := make([]ChannelStatus, len(buttons))
	for i := range buttons {
		chans[i] = ChannelStatus{
			Button:   buttons[i],
			LED:      leds[i],
			Pressed:  counts.Pressed[i],
			Released: counts.Released[i],
		}
	}
	t.snap.Channels = chans
	t.snap.Baselined = baselined
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Channels = append([]ChannelStatus(nil), t.snap.Channels...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
