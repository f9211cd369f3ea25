package game

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/sweeney/button-panel/internal/controller"
	"github.com/sweeney/button-panel/internal/logic"
)

// Result records one completed trial.
type Result struct {
	Trial    int
	Channel  logic.Channel
	Reaction time.Duration // lit-to-press
}

// Trials runs the reaction game: a random unused channel is lit, the press
// that answers it (which also clears the LED via the press-override rule)
// ends the trial, and the next channel is drawn until the pool is empty.
type Trials struct {
	lights  Lights
	rng     *rand.Rand
	pool    []logic.Channel
	trial   int
	current logic.Channel
	active  bool
	litAt   time.Time
	results []Result
}

// NewTrials creates the game over all channels in [0, channels).
// The seed makes the channel order reproducible in tests.
func NewTrials(lights Lights, channels int, seed int64) *Trials {
	g := &Trials{
		lights: lights,
		rng:    rand.New(rand.NewSource(seed)),
	}
	for ch := 0; ch < channels; ch++ {
		g.pool = append(g.pool, logic.Channel(ch))
	}
	return g
}

// Start lights the first randomly chosen channel. No-op once the pool is
// drained.
func (g *Trials) Start(now time.Time) error {
	if g.active || len(g.pool) == 0 {
		return nil
	}
	i := g.rng.Intn(len(g.pool))
	g.current = g.pool[i]
	g.pool = append(g.pool[:i], g.pool[i+1:]...)

	g.trial++
	g.active = true
	g.litAt = now
	if err := g.lights.SetLED(g.current, controller.FullBrightness); err != nil {
		return fmt.Errorf("light channel %d: %w", g.current.Number(), err)
	}
	return nil
}

// HandleEvent completes the running trial when its channel is pressed, and
// starts the next one. Presses on other channels and releases are ignored.
func (g *Trials) HandleEvent(ev logic.Event) error {
	if !g.active || ev.Kind != logic.EventPressed || ev.Channel != g.current {
		return nil
	}

	g.results = append(g.results, Result{
		Trial:    g.trial,
		Channel:  ev.Channel,
		Reaction: ev.Time.Sub(g.litAt),
	})
	g.active = false
	log.Printf("trial %d: channel %d answered in %v", g.trial, ev.Channel.Number(), ev.Time.Sub(g.litAt))

	if len(g.pool) == 0 {
		log.Printf("trials complete: %d trials", g.trial)
		return nil
	}
	return g.Start(ev.Time)
}

// Done reports whether every channel has been used and answered.
func (g *Trials) Done() bool {
	return !g.active && len(g.pool) == 0 && g.trial > 0
}

// Results returns the completed trials in order.
func (g *Trials) Results() []Result {
	return append([]Result(nil), g.results...)
}

// Reset refills the pool with every channel and clears the results.
func (g *Trials) Reset(channels int) {
	g.pool = g.pool[:0]
	for ch := 0; ch < channels; ch++ {
		g.pool = append(g.pool, logic.Channel(ch))
	}
	g.trial = 0
	g.active = false
	g.results = nil
}
