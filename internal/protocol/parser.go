package protocol

import (
	"bytes"

	"github.com/sweeney/button-panel/internal/logic"
)

const (
	cmdPrefix    = "LED_"
	cmdSuffixOn  = "_ON"
	cmdSuffixOff = "_OFF"
)

// Parser accumulates serial bytes and decodes newline-terminated command
// lines. Partial lines stay buffered across calls.
//
// The parser is deliberately permissive: a line that is not a well-formed
// command for a known channel is consumed and dropped without error.
// Malformed input must never halt or corrupt controller state.
type Parser struct {
	channels int
	legacy   bool
	buf      []byte
}

// NewParser creates a parser for the given channel count.
//
// legacy selects the single-action protocol variant: lines carry no _ON/_OFF
// suffix, a bare LED_<n> always means "turn on", and accepted commands get no
// reply line.
func NewParser(channels int, legacy bool) *Parser {
	return &Parser{channels: channels, legacy: legacy}
}

// Legacy reports whether the parser runs the suffixless protocol variant.
func (p *Parser) Legacy() bool {
	return p.legacy
}

// Feed appends newly received bytes to the parse buffer.
func (p *Parser) Feed(data []byte) {
	p.buf = append(p.buf, data...)
}

// Pending returns the number of buffered bytes not yet consumed.
func (p *Parser) Pending() int {
	return len(p.buf)
}

// Next consumes at most one complete line from the buffer and returns its
// decoded command. ok is false when no complete line is buffered or when the
// consumed line was not a valid command.
func (p *Parser) Next() (cmd Command, ok bool) {
	i := bytes.IndexByte(p.buf, '\n')
	if i < 0 {
		return Command{}, false
	}
	line := p.buf[:i]
	p.buf = p.buf[i+1:]
	return p.decode(bytes.TrimSpace(line))
}

func (p *Parser) decode(line []byte) (Command, bool) {
	rest, ok := cutPrefix(line, cmdPrefix)
	if !ok || len(rest) == 0 {
		return Command{}, false
	}

	digit := rest[0]
	if digit < '1' || digit > '9' {
		return Command{}, false
	}
	ch := logic.Channel(digit - '1')
	rest = rest[1:]

	var action Action
	switch {
	case p.legacy:
		// Single-action variant: bare LED_<n>, always "on".
		if len(rest) != 0 {
			return Command{}, false
		}
		action = ActionOn
	case string(rest) == cmdSuffixOn:
		action = ActionOn
	case string(rest) == cmdSuffixOff:
		action = ActionOff
	default:
		return Command{}, false
	}

	if !ch.Valid(p.channels) {
		return Command{}, false
	}
	return Command{Channel: ch, Action: action}, true
}

func cutPrefix(b []byte, prefix string) ([]byte, bool) {
	if len(b) < len(prefix) || string(b[:len(prefix)]) != prefix {
		return b, false
	}
	return b[len(prefix):], true
}
