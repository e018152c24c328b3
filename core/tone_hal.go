package core

// Pin identifies the buzzer output pin on the target board
type Pin uint8

// NoPin marks an unconfigured buzzer (every operation is a no-op)
const NoPin Pin = 255

// ToneDriver is the abstract square-wave output interface that core code
// uses. Platform-specific implementations handle actual hardware control:
// PWM or PIO on microcontrollers, a serial-attached device on the host,
// or a recording mock in tests.
type ToneDriver interface {
	// ConfigurePin prepares a pin for tone output
	// Returns error if pin is invalid or already in use
	ConfigurePin(pin Pin) error

	// StartTone begins a square wave of the given frequency (Hz) on the pin.
	// The driver stops the output on its own after duration milliseconds;
	// the scheduler never issues a matching StopTone for it.
	StartTone(pin Pin, frequency, duration uint16) error

	// StopTone silences the pin immediately, cancelling any sounding tone
	StopTone(pin Pin) error
}
