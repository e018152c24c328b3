package core

// melodyState steps through a borrowed slice of Tone entries: sound the
// frequency for Duration ms, rest for Rest ms, advance. toneStart == 0
// means the current step has not begun.
type melodyState struct {
	tones     []Tone
	current   int
	active    bool
	repeat    bool
	playing   bool   // sounding the tone vs resting
	toneStart uint32 // clock value when the current step began
	paused    bool   // preempted by a pulse or pattern
	pausedAt  uint32 // clock value when the preemption began
}

// Melody starts non-blocking playback of a tone sequence, optionally
// repeating. The slice is borrowed: the caller must keep it alive and
// unmodified while the melody is active. An empty slice or an unconfigured
// pin makes the call a no-op.
func (b *Buzzer) Melody(tones []Tone, repeat bool) {
	if b.cfg.Pin == NoPin || len(tones) == 0 {
		return
	}
	b.StopMelody()
	b.melody = melodyState{tones: tones, repeat: repeat, active: true}
}

// MelodyBlocking plays a tone sequence to completion, ticking with short
// sleeps. Repeat is forced off so the call terminates.
func (b *Buzzer) MelodyBlocking(tones []Tone, repeat bool) {
	b.Melody(tones, repeat)
	b.melody.repeat = false
	for b.melody.active {
		b.Update()
		sleepTick()
	}
}

// IsMelodyActive reports whether a melody is running.
func (b *Buzzer) IsMelodyActive() bool {
	return b.melody.active
}

// StopMelody cancels melody playback and silences the pin immediately.
func (b *Buzzer) StopMelody() {
	b.melody.active = false
	if b.cfg.Pin != NoPin {
		_ = b.driver.StopTone(b.cfg.Pin)
	}
}

// tickMelody advances the melody. It only runs when neither a pulse train
// nor a pattern is active; while one of those preempts, the dispatcher
// records when the pause began and the step-start timestamp is shifted
// forward here on resume, so the melody picks up exactly where it stood.
// Returns true when a new audible note started this call.
func (b *Buzzer) tickMelody(now uint32) bool {
	m := &b.melody
	if m.paused {
		if m.toneStart != 0 {
			m.toneStart += now - m.pausedAt
		}
		m.paused = false
	}

	if m.current >= len(m.tones) {
		if m.repeat {
			m.current = 0
			m.toneStart = 0
			m.playing = false
		} else {
			m.active = false
			_ = b.driver.StopTone(b.cfg.Pin)
		}
		return false
	}

	t := m.tones[m.current]
	switch {
	case m.toneStart == 0:
		m.toneStart = now
		m.playing = true
		if t.Frequency > 0 {
			_ = b.driver.StartTone(b.cfg.Pin, t.Frequency, t.Duration)
			return true
		}
	case m.playing:
		if now-m.toneStart >= uint32(t.Duration) {
			m.playing = false
			_ = b.driver.StopTone(b.cfg.Pin)
		}
	default:
		if now-m.toneStart >= uint32(t.Duration)+uint32(t.Rest) {
			m.current++
			m.toneStart = 0
		}
	}
	return false
}
