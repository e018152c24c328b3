package core

// patternState chains pulse-train templates with a fixed gap between
// entries. pulses is a borrowed slice; the pattern holds only the index of
// the current entry, which is materialized into the embedded pulse train
// when selected.
type patternState struct {
	pulses  []Pulse
	current int
	active  bool
	repeat  bool
	delay   uint16 // gap between entries (ms)
	lastEnd uint32 // clock value when the previous entry stops sounding
	waiting bool   // true while the inter-entry gap runs down
}

// Pattern starts non-blocking playback of a sequence of pulse trains with
// delay ms between entries, optionally repeating. The slice is borrowed:
// the caller must keep it alive and unmodified while the pattern is active.
// An empty slice or an unconfigured pin makes the call a no-op. No delay
// is applied before the first entry.
func (b *Buzzer) Pattern(pulses []Pulse, repeat bool, delay uint16) {
	if b.cfg.Pin == NoPin || len(pulses) == 0 {
		return
	}
	b.pulse.active = false
	b.pattern = patternState{
		pulses: pulses,
		repeat: repeat,
		delay:  delay,
		active: true,
	}
	b.loadPatternEntry(0)
}

// PatternBlocking starts a pattern and ticks until it completes.
func (b *Buzzer) PatternBlocking(pulses []Pulse, repeat bool, delay uint16) {
	b.Pattern(pulses, repeat, delay)
	for b.pattern.active || b.pulse.active {
		b.Update()
		sleepTick()
	}
}

// IsPatternActive reports whether a pattern is running.
func (b *Buzzer) IsPatternActive() bool {
	return b.pattern.active
}

// StopPattern cancels pattern playback (and the embedded pulse train) and
// silences the pin immediately.
func (b *Buzzer) StopPattern() {
	b.pattern = patternState{}
	b.pulse.active = false
	if b.cfg.Pin != NoPin {
		_ = b.driver.StopTone(b.cfg.Pin)
	}
}

// loadPatternEntry materializes entry i into the embedded pulse train.
func (b *Buzzer) loadPatternEntry(i int) {
	e := b.pattern.pulses[i]
	b.pulse = pulseState{
		remaining: e.Count,
		frequency: e.Frequency,
		duration:  e.Duration,
		interval:  e.Interval,
		active:    true,
	}
}

// advancePattern steps to the next entry, wrapping when repeating and
// deactivating at the end otherwise. Returns true while the pattern stays
// active.
func (b *Buzzer) advancePattern() bool {
	p := &b.pattern
	if !p.active || len(p.pulses) == 0 {
		p.active = false
		return false
	}
	p.current++
	if p.current >= len(p.pulses) {
		if !p.repeat {
			p.active = false
			return false
		}
		p.current = 0
	}
	b.loadPatternEntry(p.current)
	return true
}

// tickPattern runs pattern-level bookkeeping while the embedded pulse train
// is idle. lastEnd is recorded as a future timestamp (tone still sounding
// when the train deactivates), so the gap check first waits for the clock
// to pass it before measuring the elapsed gap; both checks use wrap-safe
// deltas.
func (b *Buzzer) tickPattern(now uint32) {
	p := &b.pattern
	if p.waiting {
		if int32(now-p.lastEnd) >= 0 && now-p.lastEnd >= uint32(p.delay) {
			p.waiting = false
			b.advancePattern()
		}
		return
	}
	b.advancePattern()
}
