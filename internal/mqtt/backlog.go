package mqtt

import "log"

// pending stores a serialized message awaiting a broker connection.
type pending struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// backlog is a fixed-capacity FIFO holding messages published while the
// broker is unreachable, replayed in order on reconnect. When full, the
// oldest message is dropped. Not safe for concurrent use — the publisher
// synchronizes access.
type backlog struct {
	slots   []pending
	next    int // next write position
	held    int
	dropped bool // a message was dropped since the last drain
}

func newBacklog(capacity int) *backlog {
	return &backlog{slots: make([]pending, capacity)}
}

func (b *backlog) add(msg pending) {
	if b.held == len(b.slots) {
		if !b.dropped {
			log.Printf("mqtt: backlog full (%d messages), dropping oldest", len(b.slots))
			b.dropped = true
		}
		// next already points at the oldest slot; overwrite it.
		b.slots[b.next] = msg
		b.next = (b.next + 1) % len(b.slots)
		return
	}
	b.slots[b.next] = msg
	b.next = (b.next + 1) % len(b.slots)
	b.held++
}

// drain returns the held messages oldest-first and empties the backlog.
func (b *backlog) drain() []pending {
	if b.held == 0 {
		return nil
	}
	out := make([]pending, b.held)
	start := (b.next - b.held + len(b.slots)) % len(b.slots)
	for i := 0; i < b.held; i++ {
		out[i] = b.slots[(start+i)%len(b.slots)]
	}
	b.held = 0
	b.next = 0
	b.dropped = false
	return out
}

func (b *backlog) len() int {
	return b.held
}
