//go:build rp2040 || rp2350

package main

import (
	"errors"
	"machine"
	"time"

	"tinygo.org/x/drivers/tone"

	"buzzgo/core"
)

var (
	errNotConfigured = errors.New("tone: pin not configured")
	errNoPWM         = errors.New("tone: no PWM slice for pin")
)

// pwmSpeaker is one configured output: the drivers/tone speaker plus a
// generation counter so a stale auto-stop never kills a newer tone.
type pwmSpeaker struct {
	speaker tone.Speaker
	gen     uint32
}

// PWMToneDriver implements core.ToneDriver on the RP2040's hardware PWM
// slices through tinygo.org/x/drivers/tone. StartTone durations are
// enforced with a timer callback, matching the fire-and-forget contract.
type PWMToneDriver struct {
	pins map[core.Pin]*pwmSpeaker
}

// NewPWMToneDriver creates an empty PWM tone driver
func NewPWMToneDriver() *PWMToneDriver {
	return &PWMToneDriver{pins: make(map[core.Pin]*pwmSpeaker)}
}

// ConfigurePin claims the pin's PWM slice and prepares it for tone output
func (d *PWMToneDriver) ConfigurePin(pin core.Pin) error {
	mp := machine.Pin(pin)
	pwm := pwmForPin(mp)
	if pwm == nil {
		return errNoPWM
	}
	speaker, err := tone.New(pwm, mp)
	if err != nil {
		return err
	}
	d.pins[pin] = &pwmSpeaker{speaker: speaker}
	return nil
}

// StartTone begins a square wave and schedules its own stop after duration
// milliseconds. Frequency 0 is silence.
func (d *PWMToneDriver) StartTone(pin core.Pin, frequency, duration uint16) error {
	s, ok := d.pins[pin]
	if !ok {
		return errNotConfigured
	}
	s.gen++
	if frequency == 0 {
		s.speaker.Stop()
		return nil
	}
	if err := s.speaker.SetPeriod(uint64(1e9) / uint64(frequency)); err != nil {
		return err
	}
	if duration > 0 {
		gen := s.gen
		time.AfterFunc(time.Duration(duration)*time.Millisecond, func() {
			if s.gen == gen {
				s.speaker.Stop()
			}
		})
	}
	return nil
}

// StopTone silences the pin immediately
func (d *PWMToneDriver) StopTone(pin core.Pin) error {
	s, ok := d.pins[pin]
	if !ok {
		return errNotConfigured
	}
	s.gen++
	s.speaker.Stop()
	return nil
}

// pwmForPin maps a GPIO pin to its PWM slice.
// RP2040: pin N is served by slice (N >> 1) & 0x7.
func pwmForPin(pin machine.Pin) tone.PWM {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}
