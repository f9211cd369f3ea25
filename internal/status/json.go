package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Channels      []ChannelJSON `json:"channels"`
	Ready         bool          `json:"ready"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	MQTT          *MQTTStatus   `json:"mqtt,omitempty"`
	Config        ConfigJSON    `json:"config"`
}

// ChannelJSON is the JSON representation of one channel.
type ChannelJSON struct {
	Channel  int    `json:"channel"` // 1-based, matching the serial protocol
	Button   string `json:"button"`
	LED      string `json:"led"`
	Pressed  int    `json:"pressed"`
	Released int    `json:"released"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Channels   int    `json:"channels"`
	PollMs     int64  `json:"poll_ms"`
	DebounceMs int64  `json:"debounce_ms"`
	Panel      string `json:"panel"`
	Serial     string `json:"serial"`
	HTTPAddr   string `json:"http_addr"`
	Game       string `json:"game,omitempty"`
	Legacy     bool   `json:"legacy_protocol,omitempty"`
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	inner := StatusInner{
		Ready:         snap.Baselined,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Config: ConfigJSON{
			Channels:   snap.Config.Channels,
			PollMs:     snap.Config.PollMs,
			DebounceMs: snap.Config.DebounceMs,
			Panel:      snap.Config.Panel,
			Serial:     snap.Config.Serial,
			HTTPAddr:   snap.Config.HTTPAddr,
			Game:       snap.Config.Game,
			Legacy:     snap.Config.Legacy,
		},
	}

	for i, ch := range snap.Channels {
		button := string(ch.Button)
		if button == "" {
			button = "UNKNOWN"
		}
		led := "OFF"
		if ch.LED {
			led = "ON"
		}
		inner.Channels = append(inner.Channels, ChannelJSON{
			Channel:  i + 1,
			Button:   button,
			LED:      led,
			Pressed:  ch.Pressed,
			Released: ch.Released,
		})
	}

	if snap.Config.Broker != "" {
		inner.MQTT = &MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker}
	}

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}
