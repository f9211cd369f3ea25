// Package controller owns the per-channel LED state and runs the polling
// iteration that reconciles host commands with debounced button transitions.
package controller

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/sweeney/button-panel/internal/logic"
	"github.com/sweeney/button-panel/internal/panel"
	"github.com/sweeney/button-panel/internal/protocol"
)

// FullBrightness is the level driven for a plain "on" command.
const FullBrightness uint8 = 255

// Controller is the single owner of the ledActive state. All methods must be
// called from one goroutine; there is no internal locking.
type Controller struct {
	channels  int
	hw        panel.IO
	link      io.ReadWriter
	parser    *protocol.Parser
	deb       *logic.Debouncer
	start     time.Time
	ledActive []bool
	readBuf   []byte
}

// New creates a controller over the given panel and serial link.
//
// settle is the debounce settle duration; zero selects single-sample
// debouncing, leaving the caller's polling cadence as the only rate limit.
// start anchors the monotonic millisecond timestamps put on the wire.
func New(hw panel.IO, link io.ReadWriter, parser *protocol.Parser, channels int, settle time.Duration, start time.Time) *Controller {
	return &Controller{
		channels:  channels,
		hw:        hw,
		link:      link,
		parser:    parser,
		deb:       logic.NewDebouncer(channels, settle),
		start:     start,
		ledActive: make([]bool, channels),
		readBuf:   make([]byte, 256),
	}
}

// Banner writes the startup line announcing successful hardware init.
func (c *Controller) Banner() error {
	return c.writeLine(protocol.Banner)
}

// Tick runs one polling iteration at the given instant: drain inbound bytes,
// decode and apply at most one command, then poll every channel in index
// order, applying the press-override rule and reporting transitions.
//
// Commands are applied before channels are polled, so a command and a press
// arriving in the same iteration deterministically end with the LED off.
// Recoverable errors (hardware reads, link writes) are logged and absorbed;
// Tick itself never fails.
func (c *Controller) Tick(now time.Time) []logic.Event {
	c.drainLink()

	if cmd, ok := c.parser.Next(); ok {
		if err := c.ApplyCommand(cmd); err != nil {
			log.Printf("apply command %v: %v", cmd, err)
		}
	}

	var events []logic.Event
	for ch := 0; ch < c.channels; ch++ {
		pressed, err := c.hw.ReadDigital(ch)
		if err != nil {
			log.Printf("read channel %d: %v", ch+1, err)
			continue
		}
		ev := c.deb.Sample(logic.Channel(ch), pressed, now)
		if ev == nil {
			continue
		}
		if ev.Kind == logic.EventPressed {
			if err := c.ApplyPress(ev.Channel); err != nil {
				log.Printf("press override channel %d: %v", ch+1, err)
			}
		}
		if err := c.writeLine(protocol.FormatEvent(ev.Channel, ev.Kind, c.Millis(ev.Time))); err != nil {
			log.Printf("report event: %v", err)
		}
		events = append(events, *ev)
	}
	return events
}

// drainLink moves available bytes from the link into the parser.
// Short reads and timeouts end the drain; the link is never blocked on.
func (c *Controller) drainLink() {
	for {
		n, err := c.link.Read(c.readBuf)
		if n > 0 {
			c.parser.Feed(c.readBuf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("link read: %v", err)
			}
			return
		}
		if n < len(c.readBuf) {
			return
		}
	}
}

// ApplyCommand sets the target channel's LED per the command and, in the
// suffixed protocol mode, acknowledges it on the link. Idempotent: repeating
// a command re-asserts the same hardware level.
func (c *Controller) ApplyCommand(cmd protocol.Command) error {
	level := uint8(0)
	if cmd.Action == protocol.ActionOn {
		level = FullBrightness
	}
	if err := c.SetLED(cmd.Channel, level); err != nil {
		return err
	}
	if c.parser.Legacy() {
		return nil
	}
	return c.writeLine(protocol.FormatReply(cmd))
}

// ApplyPress unconditionally clears the channel's LED. A physical press wins
// over any prior or pending "on" state for its own channel, however it was
// set. Always safe to call, even when the LED is already off.
func (c *Controller) ApplyPress(ch logic.Channel) error {
	return c.SetLED(ch, 0)
}

// SetLED records the channel's logical LED state and drives the hardware
// level. This is the only writer of ledActive; policy layers (games) go
// through it rather than touching hardware directly.
func (c *Controller) SetLED(ch logic.Channel, level uint8) error {
	if !ch.Valid(c.channels) {
		return fmt.Errorf("channel %d out of range", ch)
	}
	c.ledActive[ch] = level > 0
	return c.hw.WritePWM(int(ch), level)
}

// LEDActive returns the logical on/off state of a channel's LED.
func (c *Controller) LEDActive(ch logic.Channel) bool {
	if !ch.Valid(c.channels) {
		return false
	}
	return c.ledActive[ch]
}

// LEDStates returns a copy of every channel's logical LED state.
func (c *Controller) LEDStates() []bool {
	out := make([]bool, c.channels)
	copy(out, c.ledActive)
	return out
}

// ButtonStates returns every channel's debounced button state.
func (c *Controller) ButtonStates() []logic.ButtonState {
	return c.deb.States()
}

// Baselined reports whether every channel has established its baseline.
func (c *Controller) Baselined() bool {
	return c.deb.Baselined()
}

// Counts returns a snapshot of per-channel transition counts.
func (c *Controller) Counts() logic.Counts {
	return c.deb.CountsSnapshot()
}

// Millis converts an instant to the monotonic millisecond timestamp put on
// the wire.
func (c *Controller) Millis(t time.Time) uint64 {
	ms := t.Sub(c.start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}

func (c *Controller) writeLine(line string) error {
	_, err := io.WriteString(c.link, line+"\n")
	return err
}
