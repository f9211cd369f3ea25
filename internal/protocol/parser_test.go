package protocol

import (
	"testing"

	"github.com/sweeney/button-panel/internal/logic"
)

func TestParseOnOff(t *testing.T) {
	p := NewParser(4, false)
	p.Feed([]byte("LED_2_ON\nLED_2_OFF\n"))

	cmd, ok := p.Next()
	if !ok {
		t.Fatal("expected command from LED_2_ON")
	}
	if cmd.Channel != 1 || cmd.Action != ActionOn {
		t.Errorf("got %+v, want channel 1 ON", cmd)
	}

	cmd, ok = p.Next()
	if !ok {
		t.Fatal("expected command from LED_2_OFF")
	}
	if cmd.Channel != 1 || cmd.Action != ActionOff {
		t.Errorf("got %+v, want channel 1 OFF", cmd)
	}

	if _, ok := p.Next(); ok {
		t.Error("expected no further commands")
	}
}

func TestParsePartialLineStaysBuffered(t *testing.T) {
	p := NewParser(4, false)

	p.Feed([]byte("LED_1"))
	if _, ok := p.Next(); ok {
		t.Fatal("partial line decoded as command")
	}
	if p.Pending() != 5 {
		t.Errorf("expected 5 buffered bytes, got %d", p.Pending())
	}

	p.Feed([]byte("_ON\n"))
	cmd, ok := p.Next()
	if !ok {
		t.Fatal("expected command after line completed")
	}
	if cmd.Channel != 0 || cmd.Action != ActionOn {
		t.Errorf("got %+v, want channel 0 ON", cmd)
	}
	if p.Pending() != 0 {
		t.Errorf("expected empty buffer, got %d bytes", p.Pending())
	}
}

func TestParseOnePerCall(t *testing.T) {
	p := NewParser(4, false)
	p.Feed([]byte("LED_1_ON\nLED_2_ON\n"))

	cmd, ok := p.Next()
	if !ok || cmd.Channel != 0 {
		t.Fatalf("first call: got (%+v, %v), want channel 0", cmd, ok)
	}
	cmd, ok = p.Next()
	if !ok || cmd.Channel != 1 {
		t.Fatalf("second call: got (%+v, %v), want channel 1", cmd, ok)
	}
}

func TestParseTrimsWhitespace(t *testing.T) {
	p := NewParser(4, false)
	p.Feed([]byte("  LED_3_ON \r\n"))
	cmd, ok := p.Next()
	if !ok {
		t.Fatal("expected command from padded line")
	}
	if cmd.Channel != 2 || cmd.Action != ActionOn {
		t.Errorf("got %+v, want channel 2 ON", cmd)
	}
}

func TestParseMalformedDiscarded(t *testing.T) {
	lines := []string{
		"",                // blank
		"hello",           // no prefix
		"LED_",            // missing digit
		"LED_x_ON",        // non-digit channel
		"LED_0_ON",        // digit below 1
		"LED_9_ON",        // out of range for 4 channels
		"LED_2_BLINK",     // unknown suffix
		"LED_2",           // missing suffix in strict mode
		"LED_2_ON_PLEASE", // trailing junk
	}
	for _, line := range lines {
		p := NewParser(4, false)
		p.Feed([]byte(line + "\n"))
		if cmd, ok := p.Next(); ok {
			t.Errorf("line %q: decoded as %+v, want discard", line, cmd)
		}
		if p.Pending() != 0 {
			t.Errorf("line %q: malformed line left %d bytes buffered", line, p.Pending())
		}
	}
}

func TestParseMalformedThenValid(t *testing.T) {
	p := NewParser(4, false)
	p.Feed([]byte("garbage\nLED_4_OFF\n"))

	if _, ok := p.Next(); ok {
		t.Fatal("garbage line decoded as command")
	}
	cmd, ok := p.Next()
	if !ok {
		t.Fatal("expected command after garbage line")
	}
	if cmd.Channel != 3 || cmd.Action != ActionOff {
		t.Errorf("got %+v, want channel 3 OFF", cmd)
	}
}

func TestParseLegacyMode(t *testing.T) {
	p := NewParser(4, true)
	p.Feed([]byte("LED_3\n"))
	cmd, ok := p.Next()
	if !ok {
		t.Fatal("expected command from legacy LED_3")
	}
	if cmd.Channel != 2 || cmd.Action != ActionOn {
		t.Errorf("got %+v, want channel 2 ON", cmd)
	}

	// Suffixed lines are not part of the legacy grammar.
	p.Feed([]byte("LED_3_ON\n"))
	if cmd, ok := p.Next(); ok {
		t.Errorf("legacy mode decoded suffixed line as %+v", cmd)
	}
}

func TestFormatReply(t *testing.T) {
	got := FormatReply(Command{Channel: 1, Action: ActionOn})
	if got != "LED 2 ON" {
		t.Errorf("got %q, want %q", got, "LED 2 ON")
	}
	got = FormatReply(Command{Channel: 3, Action: ActionOff})
	if got != "LED 4 OFF" {
		t.Errorf("got %q, want %q", got, "LED 4 OFF")
	}
}

func TestFormatEvent(t *testing.T) {
	got := FormatEvent(0, logic.EventPressed, 1234)
	if got != "button_1_pressed 1234" {
		t.Errorf("got %q, want %q", got, "button_1_pressed 1234")
	}
	got = FormatEvent(2, logic.EventReleased, 98765)
	if got != "button_3_released 98765" {
		t.Errorf("got %q, want %q", got, "button_3_released 98765")
	}
}
