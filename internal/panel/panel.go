// Package panel provides the button/LED hardware abstraction.
// The real implementations use the Linux GPIO character device and an I2C
// I/O expander. The fake implementation allows testing without hardware.
package panel

// IO drives one panel of button/LED channels.
//
// All methods are called from the single controller goroutine; implementations
// need no internal locking for that caller.
type IO interface {
	// ReadDigital returns the logical button level for a channel:
	// true = pressed, after any wiring inversion (the panels here are
	// wired active-low with pull-ups).
	ReadDigital(ch int) (bool, error)

	// WritePWM drives a channel's LED to the given level (0 = off,
	// 255 = full). Implementations without PWM treat any nonzero level
	// as on.
	WritePWM(ch int, level uint8) error

	// Close releases hardware resources, leaving LEDs off.
	Close() error
}

// Channels is the channel count of every observed panel build.
const Channels = 4

// Default pin assignments (BCM numbering).
var (
	DefaultButtonPins = []int{17, 27, 22, 23}
	DefaultLEDPins    = []int{5, 6, 13, 19}
)

// DefaultExpanderAddr is the I2C address PCF8574 boards strap to by default.
const DefaultExpanderAddr = 0x20
