// Package link provides the serial transport for the host protocol.
// The real implementation wraps a tty via tarm/serial; the loopback
// implementation provides an in-memory pair for tests.
package link

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Port is a byte-stream link to the host. Reads are bounded-time: a Read
// with nothing available returns promptly (n == 0 or io.EOF) rather than
// blocking the polling loop.
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial port configuration.
type Config struct {
	// Device path, e.g. "/dev/ttyGS0" or "/dev/ttyUSB0".
	Device string

	// Baud rate. The observed host scripts use 9600 and 115200.
	Baud int

	// ReadTimeout bounds each Read call so the polling loop is never
	// blocked waiting for host bytes.
	ReadTimeout time.Duration
}

// DefaultConfig returns the configuration matching the host scripts.
func DefaultConfig(device string) Config {
	return Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 5 * time.Millisecond,
	}
}

// Open opens the serial device described by cfg.
func Open(cfg Config) (Port, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("open serial: no device configured")
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}
	return port, nil
}
