package panel

import (
	"errors"
	"testing"
)

func TestFakeIOReadStep(t *testing.T) {
	f := NewFakeIO(2, [][]bool{
		{false, true},
		{true, false},
	})

	got, err := f.ReadDigital(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("row 0 channel 1: expected pressed")
	}

	f.Step()
	got, _ = f.ReadDigital(0)
	if !got {
		t.Error("row 1 channel 0: expected pressed")
	}

	// Exhausted samples repeat the last row.
	f.Step()
	f.Step()
	got, _ = f.ReadDigital(0)
	if !got {
		t.Error("past last row: expected last row to repeat")
	}
}

func TestFakeIOWrites(t *testing.T) {
	f := NewFakeIO(2, nil)

	if err := f.WritePWM(0, 255); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.WritePWM(0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Writes) != 2 {
		t.Fatalf("expected 2 recorded writes, got %d", len(f.Writes))
	}
	if f.Writes[0] != (PWMWrite{Channel: 0, Level: 255}) {
		t.Errorf("write 0: got %+v", f.Writes[0])
	}
	if f.Levels[0] != 0 {
		t.Errorf("expected final level 0, got %d", f.Levels[0])
	}
}

func TestFakeIOOutOfRange(t *testing.T) {
	f := NewFakeIO(2, [][]bool{{false, false}})
	if _, err := f.ReadDigital(2); err == nil {
		t.Error("expected error reading channel 2 of 2")
	}
	if err := f.WritePWM(-1, 1); err == nil {
		t.Error("expected error writing channel -1")
	}
}

func TestFakeIOInjectedErrors(t *testing.T) {
	f := NewFakeIO(1, [][]bool{{false}})
	f.ReadError = errors.New("simulated read error")
	if _, err := f.ReadDigital(0); err == nil {
		t.Error("expected injected read error")
	}

	f.ReadError = nil
	f.WriteError = errors.New("simulated write error")
	if err := f.WritePWM(0, 1); err == nil {
		t.Error("expected injected write error")
	}
}

func TestFakeIOScriptKeepsWrites(t *testing.T) {
	f := NewFakeIO(1, [][]bool{{false}, {true}})
	f.Step()
	f.WritePWM(0, 255)

	f.Script([][]bool{{true}})
	if got, _ := f.ReadDigital(0); !got {
		t.Error("after script: expected first row of new script")
	}
	if len(f.Writes) != 1 || f.Levels[0] != 255 {
		t.Error("after script: expected writes and levels untouched")
	}
}

func TestFakeIOReset(t *testing.T) {
	f := NewFakeIO(1, [][]bool{{false}, {true}})
	f.Step()
	f.WritePWM(0, 255)
	f.Close()

	f.Reset()
	if got, _ := f.ReadDigital(0); got {
		t.Error("after reset: expected row 0")
	}
	if len(f.Writes) != 0 || f.Levels[0] != 0 {
		t.Error("after reset: expected writes cleared")
	}
	if f.Closed {
		t.Error("after reset: expected not closed")
	}
}
