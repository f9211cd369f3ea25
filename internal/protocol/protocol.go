// Package protocol implements the line-oriented serial protocol spoken with
// the host: inbound LED commands and outbound button events and replies.
//
// Inbound lines:
//
//	LED_<n>_ON   turn on channel n (1-based); reply "LED <n> ON"
//	LED_<n>_OFF  turn off channel n; reply "LED <n> OFF"
//	LED_<n>      legacy mode only: turn on channel n, no reply
//
// Any other line is silently discarded. Outbound lines:
//
//	button_<n>_pressed <timestampMs>
//	button_<n>_released <timestampMs>
package protocol

import (
	"fmt"

	"github.com/sweeney/button-panel/internal/logic"
)

// Action is the LED operation a command requests.
type Action string

const (
	ActionOn  Action = "ON"
	ActionOff Action = "OFF"
)

// Command is a decoded host instruction to set a channel's LED state.
// Commands are ephemeral: decoded by the Parser, applied immediately,
// not retained.
type Command struct {
	Channel logic.Channel
	Action  Action
}

// Banner is emitted once hardware initialization succeeds.
const Banner = "Ready!"

// FormatReply formats the acknowledgement line for an accepted command.
func FormatReply(cmd Command) string {
	return fmt.Sprintf("LED %d %s", cmd.Channel.Number(), cmd.Action)
}

// FormatEvent formats the outbound line for a button transition.
// ms is the monotonic millisecond timestamp captured at detection.
func FormatEvent(ch logic.Channel, kind logic.EventKind, ms uint64) string {
	return fmt.Sprintf("button_%d_%s %d", ch.Number(), kind, ms)
}
