//go:build !linux

package panel

import "errors"

var errNotSupported = errors.New("panel: not supported on this platform (requires Linux)")

// GPIOPanel is not available on non-Linux platforms.
type GPIOPanel struct{}

// NewGPIOPanel returns an error on non-Linux platforms.
func NewGPIOPanel(buttonPins, ledPins []int) (*GPIOPanel, error) {
	return nil, errNotSupported
}

func (p *GPIOPanel) ReadDigital(ch int) (bool, error) { return false, errNotSupported }

func (p *GPIOPanel) WritePWM(ch int, level uint8) error { return errNotSupported }

func (p *GPIOPanel) Close() error { return nil }

// ExpanderPanel is not available on non-Linux platforms.
type ExpanderPanel struct{}

// NewExpanderPanel returns an error on non-Linux platforms.
func NewExpanderPanel(busName string, addr uint16, channels int) (*ExpanderPanel, error) {
	return nil, errNotSupported
}

func (p *ExpanderPanel) ReadDigital(ch int) (bool, error) { return false, errNotSupported }

func (p *ExpanderPanel) WritePWM(ch int, level uint8) error { return errNotSupported }

func (p *ExpanderPanel) Close() error { return nil }
