//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"
	"github.com/tinygo-org/pio/rp2-pio/piolib"

	"buzzgo/core"
)

// PIOToneDriver implements core.ToneDriver on a PIO state machine using the
// piolib square-wave pulsar. Each burst is queued as a fixed cycle count, so
// the hardware ends the tone on its own and no software timer is needed.
// Useful when the buzzer pin's PWM slice is taken by another peripheral.
type PIOToneDriver struct {
	pins map[core.Pin]*piolib.Pulsar
}

// NewPIOToneDriver creates an empty PIO tone driver
func NewPIOToneDriver() *PIOToneDriver {
	return &PIOToneDriver{pins: make(map[core.Pin]*piolib.Pulsar)}
}

// ConfigurePin claims a PIO0 state machine and binds the pulsar to the pin
func (d *PIOToneDriver) ConfigurePin(pin core.Pin) error {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		return err
	}
	pulsar, err := piolib.NewPulsar(sm, machine.Pin(pin))
	if err != nil {
		sm.Unclaim()
		return err
	}
	d.pins[pin] = pulsar
	return nil
}

// StartTone queues frequency*duration/1000 square-wave cycles at the tone
// period. Any cycles still queued from a previous burst are dropped first.
func (d *PIOToneDriver) StartTone(pin core.Pin, frequency, duration uint16) error {
	p, ok := d.pins[pin]
	if !ok {
		return errNotConfigured
	}
	p.Stop()
	if frequency == 0 || duration == 0 {
		return nil
	}
	if err := p.SetPeriod(time.Second / time.Duration(frequency)); err != nil {
		return err
	}
	cycles := uint32(frequency) * uint32(duration) / 1000
	if cycles == 0 {
		cycles = 1
	}
	return p.TryQueue(cycles)
}

// StopTone drops any queued cycles and resets the state machine
func (d *PIOToneDriver) StopTone(pin core.Pin) error {
	p, ok := d.pins[pin]
	if !ok {
		return errNotConfigured
	}
	p.Stop()
	return nil
}
