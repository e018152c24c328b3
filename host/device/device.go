// Package device is a host-side client for a serial-attached buzzer
// running the buzzgo firmware console. Commands are single text lines; the
// firmware answers each one with an "ok ..." or "error: ..." line.
package device

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"buzzgo/core"
	"buzzgo/host/serial"
)

// ErrTimeout is returned when the device does not answer a command in time.
var ErrTimeout = fmt.Errorf("device: reply timeout")

// Device represents a connection to a buzzer MCU
type Device struct {
	port    serial.Port
	pending []byte // unconsumed reply bytes

	// Timeout bounds how long a single command waits for its reply
	Timeout time.Duration
}

// Connect connects to a buzzer MCU via serial port
func Connect(devicePath string) (*Device, error) {
	return ConnectWithConfig(serial.DefaultConfig(devicePath))
}

// ConnectWithConfig connects to a buzzer MCU with a custom serial config
func ConnectWithConfig(cfg *serial.Config) (*Device, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	d := New(port)

	// Give the MCU time to settle if it just enumerated
	time.Sleep(100 * time.Millisecond)

	return d, nil
}

// New wraps an already-open port (used by tests with an in-memory port)
func New(port serial.Port) *Device {
	return &Device{port: port, Timeout: 2 * time.Second}
}

// Close closes the connection to the MCU
func (d *Device) Close() error {
	if d.port != nil {
		return d.port.Close()
	}
	return nil
}

// Command sends one console line and waits for the final reply. The
// payload following "ok" is returned; an "error:" reply becomes an error.
// Banner and echo lines ahead of the reply are skipped.
func (d *Device) Command(line string) (string, error) {
	if _, err := d.port.Write([]byte(line + "\n")); err != nil {
		return "", err
	}
	if err := d.port.Flush(); err != nil {
		return "", err
	}

	deadline := time.Now().Add(d.Timeout)
	for {
		reply, err := d.readLine(deadline)
		if err != nil {
			return "", err
		}
		switch {
		case reply == "ok":
			return "", nil
		case strings.HasPrefix(reply, "ok "):
			return reply[3:], nil
		case strings.HasPrefix(reply, "error:"):
			return "", fmt.Errorf("device: %s", strings.TrimSpace(reply[6:]))
		}
	}
}

// readLine returns the next newline-terminated reply line, buffering
// partial reads across the serial port's short read timeouts.
func (d *Device) readLine(deadline time.Time) (string, error) {
	buf := make([]byte, 64)
	for {
		if i := bytes.IndexByte(d.pending, '\n'); i >= 0 {
			line := strings.TrimRight(string(d.pending[:i]), "\r")
			d.pending = d.pending[i+1:]
			return line, nil
		}
		if time.Now().After(deadline) {
			return "", ErrTimeout
		}
		n, err := d.port.Read(buf)
		if n > 0 {
			d.pending = append(d.pending, buf[:n]...)
			continue
		}
		if err != nil && err != io.EOF {
			return "", err
		}
	}
}

// Ping verifies the console is answering.
func (d *Device) Ping() error {
	_, err := d.Command("ping")
	return err
}

// Beep plays a single immediate tone.
func (d *Device) Beep(frequency, duration uint16) error {
	_, err := d.Command(fmt.Sprintf("beep %d %d", frequency, duration))
	return err
}

// Pulse starts a pulse train on the device.
func (d *Device) Pulse(count uint8, frequency, duration, interval uint16) error {
	_, err := d.Command(fmt.Sprintf("pulse %d %d %d %d", count, frequency, duration, interval))
	return err
}

// Pattern uploads the entries into the device's pattern buffer and starts
// playback. The device truncates uploads beyond its fixed capacity.
func (d *Device) Pattern(pulses []core.Pulse, repeat bool, delay uint16) error {
	if _, err := d.Command("pat clear"); err != nil {
		return err
	}
	for _, p := range pulses {
		_, err := d.Command(fmt.Sprintf("pat add %d %d %d %d", p.Count, p.Frequency, p.Duration, p.Interval))
		if err != nil {
			return err
		}
	}
	_, err := d.Command(fmt.Sprintf("pat play %s %d", bool01(repeat), delay))
	return err
}

// Melody uploads the tone steps into the device's melody buffer and starts
// playback.
func (d *Device) Melody(tones []core.Tone, repeat bool) error {
	if _, err := d.Command("mel clear"); err != nil {
		return err
	}
	for _, t := range tones {
		_, err := d.Command(fmt.Sprintf("mel add %d %d %d", t.Frequency, t.Duration, t.Rest))
		if err != nil {
			return err
		}
	}
	_, err := d.Command("mel play " + bool01(repeat))
	return err
}

// Stop cancels all playback and silences the pin.
func (d *Device) Stop() error {
	_, err := d.Command("stop")
	return err
}

// Status reports which scheduling layers are currently active.
type Status struct {
	Pulse   bool
	Pattern bool
	Melody  bool
}

// Status queries the device's scheduling state.
func (d *Device) Status() (Status, error) {
	payload, err := d.Command("status")
	if err != nil {
		return Status{}, err
	}
	var st Status
	for _, field := range strings.Fields(payload) {
		k, v, found := strings.Cut(field, "=")
		if !found {
			continue
		}
		on := v != "0"
		switch k {
		case "pulse":
			st.Pulse = on
		case "pattern":
			st.Pattern = on
		case "melody":
			st.Melody = on
		}
	}
	return st, nil
}

func bool01(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
