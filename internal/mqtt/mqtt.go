// Package mqtt provides an optional MQTT mirror of button events, with
// abstraction for testing. The serial link is the primary event channel;
// this mirror exists for observers that already live on the broker.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/button-panel/internal/logic"
)

// Topic is the MQTT topic for button events.
const Topic = "panel/buttons/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "panel/buttons/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish mirrors a button event to the broker. ms is the monotonic
	// millisecond timestamp the event carried on the serial link.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event, ms uint64) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN"
	Reason    string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Retained  bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Button ButtonPayload `json:"button"`
}

// ButtonPayload contains the button event details.
type ButtonPayload struct {
	Timestamp string `json:"timestamp"`
	Channel   int    `json:"channel"` // 1-based, matching the serial protocol
	Event     string `json:"event"`
	Millis    uint64 `json:"millis"`
}

// FormatPayload creates the JSON payload for a button event.
func FormatPayload(event logic.Event, ms uint64) ([]byte, error) {
	payload := Payload{
		Button: ButtonPayload{
			Timestamp: event.Time.UTC().Format(time.RFC3339),
			Channel:   event.Channel.Number(),
			Event:     string(event.Kind),
			Millis:    ms,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
