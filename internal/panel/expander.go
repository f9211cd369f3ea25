//go:build linux

package panel

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/pcf857x"
	"periph.io/x/host/v3"
)

// ExpanderPanel drives buttons and LEDs through a PCF8574 I2C I/O expander.
// Expander pins 0..n-1 carry the buttons, pins n..2n-1 the LEDs.
//
// The PCF857x is quasi-bidirectional and open-drain: button pins read low
// when pressed, and LEDs are wired between Vcc and the pin, so driving a pin
// low turns its LED on.
type ExpanderPanel struct {
	bus      i2c.BusCloser
	dev      *pcf857x.Dev
	channels int
}

// NewExpanderPanel opens the I2C bus (empty name selects the first available
// bus) and configures a PCF8574 at addr for n button/LED channels.
func NewExpanderPanel(busName string, addr uint16, channels int) (*ExpanderPanel, error) {
	if channels < 1 || channels*2 > 8 {
		return nil, fmt.Errorf("expander panel: %d channels will not fit a PCF8574", channels)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus: %w", err)
	}

	dev, err := pcf857x.New(bus, addr, pcf857x.PCF8574)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("probe pcf8574 at 0x%02x: %w", addr, err)
	}

	p := &ExpanderPanel{bus: bus, dev: dev, channels: channels}
	for ch := 0; ch < channels; ch++ {
		if err := dev.Pins[ch].In(gpio.PullUp, gpio.NoEdge); err != nil {
			bus.Close()
			return nil, fmt.Errorf("configure button %d: %w", ch+1, err)
		}
		// All LEDs off (pin high releases the open drain).
		if err := dev.Pins[channels+ch].Out(gpio.High); err != nil {
			bus.Close()
			return nil, fmt.Errorf("configure led %d: %w", ch+1, err)
		}
	}

	return p, nil
}

// ReadDigital returns the logical button level for a channel.
// The expander pin reads low when the button is pressed.
func (p *ExpanderPanel) ReadDigital(ch int) (bool, error) {
	if ch < 0 || ch >= p.channels {
		return false, fmt.Errorf("expander panel: channel %d out of range", ch)
	}
	return p.dev.Pins[ch].Read() == gpio.Low, nil
}

// WritePWM drives a channel's LED. The expander has no PWM, so any nonzero
// level sinks the pin (LED on).
func (p *ExpanderPanel) WritePWM(ch int, level uint8) error {
	if ch < 0 || ch >= p.channels {
		return fmt.Errorf("expander panel: channel %d out of range", ch)
	}
	pin := p.dev.Pins[p.channels+ch]
	v := gpio.High // off
	if level > 0 {
		v = gpio.Low
	}
	if err := pin.Out(v); err != nil {
		return fmt.Errorf("write led %d: %w", ch+1, err)
	}
	return nil
}

// Close turns all LEDs off and releases the bus.
func (p *ExpanderPanel) Close() error {
	var errs []error
	for ch := 0; ch < p.channels; ch++ {
		if err := p.dev.Pins[p.channels+ch].Out(gpio.High); err != nil {
			errs = append(errs, fmt.Errorf("clear led %d: %w", ch+1, err))
		}
	}
	if err := p.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close i2c bus: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
