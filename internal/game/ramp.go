package game

import (
	"fmt"

	"github.com/sweeney/button-panel/internal/logic"
)

// DefaultRampStep divides the full brightness range into four steps, so a
// fifth press wraps the channel back to dark.
const DefaultRampStep = 64

// Ramp is the brightness accumulator: each press on a channel steps its LED
// level up by a fixed increment, wrapping to zero past full scale.
type Ramp struct {
	lights Lights
	step   uint8
	levels []uint8
}

// NewRamp creates the ramp game. A step of 0 falls back to DefaultRampStep.
func NewRamp(lights Lights, channels int, step uint8) *Ramp {
	if step == 0 {
		step = DefaultRampStep
	}
	return &Ramp{
		lights: lights,
		step:   step,
		levels: make([]uint8, channels),
	}
}

// HandleEvent steps the pressed channel's level. Releases are ignored.
func (g *Ramp) HandleEvent(ev logic.Event) error {
	if ev.Kind != logic.EventPressed || !ev.Channel.Valid(len(g.levels)) {
		return nil
	}
	// uint8 arithmetic wraps past full scale back toward zero.
	g.levels[ev.Channel] += g.step
	if err := g.lights.SetLED(ev.Channel, g.levels[ev.Channel]); err != nil {
		return fmt.Errorf("ramp channel %d: %w", ev.Channel.Number(), err)
	}
	return nil
}

// Level returns a channel's accumulated brightness.
func (g *Ramp) Level(ch logic.Channel) uint8 {
	if !ch.Valid(len(g.levels)) {
		return 0
	}
	return g.levels[ch]
}
