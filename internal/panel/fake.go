package panel

import "fmt"

// PWMWrite records one WritePWM call for test assertions.
type PWMWrite struct {
	Channel int
	Level   uint8
}

// FakeIO is a test double returning scripted button samples and recording
// every LED write.
type FakeIO struct {
	// Samples contains scripted button levels, one row per tick, one
	// value per channel (true = pressed). Step advances to the next row;
	// once exhausted the last row repeats.
	Samples [][]bool

	// Writes contains every WritePWM call in order.
	Writes []PWMWrite

	// Levels holds the last level written per channel.
	Levels []uint8

	// ReadError, if set, will be returned by ReadDigital.
	ReadError error

	// WriteError, if set, will be returned by WritePWM.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool

	// AutoStep advances to the next row after the last channel is read,
	// so a polling loop that scans channels in index order consumes one
	// row per scan without the test calling Step.
	AutoStep bool

	channels int
	row      int
}

// NewFakeIO creates a FakeIO for the given channel count and scripted
// samples.
func NewFakeIO(channels int, samples [][]bool) *FakeIO {
	return &FakeIO{
		Samples:  samples,
		Levels:   make([]uint8, channels),
		channels: channels,
	}
}

// ReadDigital returns the scripted level for a channel on the current row.
func (f *FakeIO) ReadDigital(ch int) (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if ch < 0 || ch >= f.channels {
		return false, fmt.Errorf("fake panel: channel %d out of range", ch)
	}
	if len(f.Samples) == 0 {
		return false, nil
	}
	v := f.Samples[f.row][ch]
	if f.AutoStep && ch == f.channels-1 {
		f.Step()
	}
	return v, nil
}

// Step advances to the next scripted row. Once samples are exhausted the
// last row repeats.
func (f *FakeIO) Step() {
	if f.row < len(f.Samples)-1 {
		f.row++
	}
}

// WritePWM records the write and updates the channel's level.
func (f *FakeIO) WritePWM(ch int, level uint8) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	if ch < 0 || ch >= f.channels {
		return fmt.Errorf("fake panel: channel %d out of range", ch)
	}
	f.Writes = append(f.Writes, PWMWrite{Channel: ch, Level: level})
	f.Levels[ch] = level
	return nil
}

// Close marks the panel as closed.
func (f *FakeIO) Close() error {
	f.Closed = true
	return nil
}

// Script replaces the sample script and rewinds to its first row, leaving
// the recorded writes and levels in place.
func (f *FakeIO) Script(samples [][]bool) {
	f.Samples = samples
	f.row = 0
}

// Reset rewinds the samples and clears recorded writes.
func (f *FakeIO) Reset() {
	f.row = 0
	f.Writes = nil
	f.Levels = make([]uint8, f.channels)
	f.Closed = false
	f.ReadError = nil
	f.WriteError = nil
}
