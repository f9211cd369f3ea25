// Package game layers application policies over the controller primitives.
// Games never touch hardware or LED state directly: everything goes through
// the controller's SetLED, and presses reach them as debounced events, so
// the press-override rule holds no matter which policy is running.
package game

import (
	"github.com/sweeney/button-panel/internal/logic"
)

// Lights is the slice of the controller a game is allowed to drive.
type Lights interface {
	SetLED(ch logic.Channel, level uint8) error
}

// Game reacts to debounced button events.
type Game interface {
	// HandleEvent is called once per debounced transition, after the
	// controller has applied the press-override rule.
	HandleEvent(ev logic.Event) error
}
