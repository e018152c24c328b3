package core

// pulseState is the live pulse-train machine. It is materialized from a
// Pulse template (or from Pulse call arguments) and counts bursts down as
// they fire. last == 0 means the train has not fired yet.
type pulseState struct {
	remaining uint8
	frequency uint16
	duration  uint16
	interval  uint16
	last      uint32 // clock value of the most recent burst
	active    bool
}

// Pulse starts a non-blocking train of count tone bursts at the given
// frequency, each duration ms long and separated by interval ms of silence.
// It replaces any running pulse train or pattern. A count of 0 or an
// unconfigured pin makes the call a no-op.
func (b *Buzzer) Pulse(count uint8, frequency, duration, interval uint16) {
	if b.cfg.Pin == NoPin || count == 0 {
		return
	}
	b.pattern = patternState{}
	b.pulse = pulseState{
		remaining: count,
		frequency: frequency,
		duration:  duration,
		interval:  interval,
		active:    true,
	}
}

// PulseBlocking starts a pulse train and ticks until it completes.
// Sugar over Pulse/Update, no timing logic of its own.
func (b *Buzzer) PulseBlocking(count uint8, frequency, duration, interval uint16) {
	b.Pulse(count, frequency, duration, interval)
	for b.pulse.active {
		b.Update()
		sleepTick()
	}
}

// IsPulseActive reports whether a pulse train is running.
func (b *Buzzer) IsPulseActive() bool {
	return b.pulse.active
}

// tickPulse advances the pulse train. A burst fires when the train has not
// fired yet or when interval+duration ms have elapsed since the last burst;
// the comparison is a uint32 delta, so it survives clock wrap. Once all
// bursts have fired the train deactivates on the next pass, and a pattern
// that owns it is told when the final tone stops sounding so the
// inter-entry delay starts only after that.
func (b *Buzzer) tickPulse(now uint32) bool {
	p := &b.pulse
	if p.remaining > 0 {
		if p.last == 0 || now-p.last >= uint32(p.interval)+uint32(p.duration) {
			_ = b.driver.StartTone(b.cfg.Pin, p.frequency, p.duration)
			p.last = now
			p.remaining--
			return true
		}
		return false
	}

	p.active = false
	if b.pattern.active {
		b.pattern.lastEnd = now + uint32(p.duration)
		b.pattern.waiting = true
	}
	return false
}
