//go:build linux

package panel

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOPanel drives buttons and LEDs on raw GPIO lines through the Linux
// GPIO character device.
type GPIOPanel struct {
	chip    *gpiocdev.Chip
	buttons []*gpiocdev.Line
	leds    []*gpiocdev.Line
}

// NewGPIOPanel requests the given button and LED lines (BCM numbering).
// Button lines are inputs with pull-ups (pressed pulls the line low);
// LED lines are outputs, driven low initially.
func NewGPIOPanel(buttonPins, ledPins []int) (*GPIOPanel, error) {
	if len(buttonPins) != len(ledPins) {
		return nil, fmt.Errorf("gpio panel: %d button pins but %d led pins", len(buttonPins), len(ledPins))
	}

	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	p := &GPIOPanel{chip: chip}
	for i, pin := range buttonPins {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request button %d pin %d: %w", i+1, pin, err)
		}
		p.buttons = append(p.buttons, line)
	}
	for i, pin := range ledPins {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request led %d pin %d: %w", i+1, pin, err)
		}
		p.leds = append(p.leds, line)
	}

	return p, nil
}

// ReadDigital returns the logical button level for a channel.
// Inverts raw GPIO: pull-up wiring reads low (0) when pressed.
func (p *GPIOPanel) ReadDigital(ch int) (bool, error) {
	if ch < 0 || ch >= len(p.buttons) {
		return false, fmt.Errorf("gpio panel: channel %d out of range", ch)
	}
	raw, err := p.buttons[ch].Value()
	if err != nil {
		return false, fmt.Errorf("read button %d: %w", ch+1, err)
	}
	return raw == 0, nil
}

// WritePWM drives a channel's LED. Plain GPIO lines have no PWM, so any
// nonzero level drives the line high.
func (p *GPIOPanel) WritePWM(ch int, level uint8) error {
	if ch < 0 || ch >= len(p.leds) {
		return fmt.Errorf("gpio panel: channel %d out of range", ch)
	}
	v := 0
	if level > 0 {
		v = 1
	}
	if err := p.leds[ch].SetValue(v); err != nil {
		return fmt.Errorf("write led %d: %w", ch+1, err)
	}
	return nil
}

// Close drives all LEDs off, reconfigures the lines as inputs to match Pi
// boot defaults, and releases them.
func (p *GPIOPanel) Close() error {
	var errs []error

	for i, led := range p.leds {
		if err := led.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear led %d: %w", i+1, err))
		}
		if err := led.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure led %d: %w", i+1, err))
		}
		if err := led.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close led %d: %w", i+1, err))
		}
	}
	for i, b := range p.buttons {
		if err := b.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button %d: %w", i+1, err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
