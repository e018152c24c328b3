//go:build rp2040 || rp2350

package main

import (
	"machine"
	"strconv"
	"strings"

	"buzzgo/core"
)

// console is the text command interface on the USB serial port. One command
// per line; every command is answered with "ok ..." or "error: ...".
// Sequence uploads go into the fixed buffers here, which the scheduler then
// borrows for playback, so nothing is allocated while a sequence runs.
type console struct {
	buz  *core.Buzzer
	line []byte

	pattern    [core.MaxPatternPulses]core.Pulse
	patternLen int
	melody     [core.MaxMelodyTones]core.Tone
	melodyLen  int
}

func newConsole(buz *core.Buzzer) *console {
	return &console{buz: buz, line: make([]byte, 0, 64)}
}

// poll drains pending serial bytes into the line buffer and dispatches
// completed lines. Never blocks; called once per main-loop pass.
func (c *console) poll() {
	for machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			return
		}
		if b == '\n' || b == '\r' {
			if len(c.line) > 0 {
				c.dispatch(string(c.line))
				c.line = c.line[:0]
			}
			continue
		}
		if len(c.line) < cap(c.line) {
			c.line = append(c.line, b)
		}
	}
}

func (c *console) dispatch(line string) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	args := parts[1:]

	switch parts[0] {
	case "ping":
		println("ok")

	case "beep":
		cfg := c.buz.Config()
		freq, dur := cfg.Ack.Frequency, cfg.Ack.Duration
		if len(args) >= 2 {
			freq = argU16(args[0], freq)
			dur = argU16(args[1], dur)
		}
		c.buz.Beep(freq, dur)
		println("ok")

	case "pulse":
		if len(args) < 4 {
			println("error: usage: pulse <count> <freq> <dur> <interval>")
			return
		}
		count := argU16(args[0], 0)
		if count == 0 || count > 255 {
			println("error: count must be 1..255")
			return
		}
		c.buz.Pulse(uint8(count), argU16(args[1], 0), argU16(args[2], 0), argU16(args[3], 0))
		println("ok")

	case "pat":
		c.dispatchPattern(args)

	case "mel":
		c.dispatchMelody(args)

	case "stop":
		c.buz.Stop()
		println("ok")

	case "status":
		println("ok pulse=" + active(c.buz.IsPulseActive()) +
			" pattern=" + active(c.buz.IsPatternActive()) +
			" melody=" + active(c.buz.IsMelodyActive()))

	default:
		println("error: unknown command " + parts[0])
	}
}

func (c *console) dispatchPattern(args []string) {
	if len(args) == 0 {
		println("error: usage: pat clear|add|play|stop")
		return
	}
	switch args[0] {
	case "clear":
		c.patternLen = 0
		println("ok")

	case "add":
		if len(args) < 5 {
			println("error: usage: pat add <count> <freq> <dur> <interval>")
			return
		}
		// Entries beyond capacity are dropped, mirroring the loader contract
		if c.patternLen < len(c.pattern) {
			c.pattern[c.patternLen] = core.Pulse{
				Count:     uint8(argU16(args[1], 0)),
				Frequency: argU16(args[2], 0),
				Duration:  argU16(args[3], 0),
				Interval:  argU16(args[4], 0),
			}
			c.patternLen++
		}
		println("ok")

	case "play":
		if c.patternLen == 0 {
			println("error: pattern buffer empty")
			return
		}
		repeat := len(args) >= 2 && args[1] == "1"
		delay := uint16(core.DefaultPatternGap)
		if len(args) >= 3 {
			delay = argU16(args[2], delay)
		}
		c.buz.Pattern(c.pattern[:c.patternLen], repeat, delay)
		println("ok")

	case "stop":
		c.buz.StopPattern()
		println("ok")

	default:
		println("error: usage: pat clear|add|play|stop")
	}
}

func (c *console) dispatchMelody(args []string) {
	if len(args) == 0 {
		println("error: usage: mel clear|add|play|stop")
		return
	}
	switch args[0] {
	case "clear":
		c.melodyLen = 0
		println("ok")

	case "add":
		if len(args) < 4 {
			println("error: usage: mel add <freq> <dur> <rest>")
			return
		}
		if c.melodyLen < len(c.melody) {
			c.melody[c.melodyLen] = core.Tone{
				Frequency: argU16(args[1], 0),
				Duration:  argU16(args[2], 0),
				Rest:      argU16(args[3], 0),
			}
			c.melodyLen++
		}
		println("ok")

	case "play":
		if c.melodyLen == 0 {
			println("error: melody buffer empty")
			return
		}
		repeat := len(args) >= 2 && args[1] == "1"
		c.buz.Melody(c.melody[:c.melodyLen], repeat)
		println("ok")

	case "stop":
		c.buz.StopMelody()
		println("ok")

	default:
		println("error: usage: mel clear|add|play|stop")
	}
}

func argU16(s string, def uint16) uint16 {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return def
	}
	return uint16(v)
}

func active(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
