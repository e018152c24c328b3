// Non-blocking buzzer scheduling for cooperative firmware loops.
// Implements layered pulse train, pulse pattern and melody playback on a
// single pin, advanced one step at a time by Update calls from the main loop.
package core

import "time"

// Default acknowledge/error tones and timing
const (
	DefaultAckFreq     = 800 // Frequency for acknowledgment beep (Hz)
	DefaultAckDuration = 30  // Duration for acknowledgment beep (ms)
	DefaultErrFreq     = 1000
	DefaultErrDuration = 300
	DefaultRest        = 50  // Rest between pulses (ms)
	DefaultPatternGap  = 300 // Delay between pattern entries (ms)
)

// Fixed capacities for device-side sequence storage. Longer sequences are
// silently truncated when loaded.
const (
	MaxPatternPulses = 20 // Maximum number of pulses in a pattern
	MaxMelodyTones   = 30 // Maximum number of tones in a melody
)

// Setup/SetConfig flags
const (
	FlagNone   = 0x00
	FlagBeep   = 0x01 // Play a short acknowledge pulse train after setup
	FlagForce  = 0x08 // Reconfigure even if the pin is already set up
	FlagSilent = 0x80 // Suppress debug output for this call
)

// Tone is one melody step: a frequency sounded for Duration milliseconds
// followed by Rest milliseconds of silence. Frequency 0 is a pure rest that
// still consumes Duration+Rest of elapsed time.
type Tone struct {
	Frequency uint16 // Hz, 0 = silent step
	Duration  uint16 // ms of tone
	Rest      uint16 // ms of trailing silence
}

// Pulse describes one pulse train: Count identical tone bursts of
// Frequency/Duration separated by Interval+Duration milliseconds.
// Pattern playback borrows a caller-owned slice of these; the caller must
// keep the backing storage alive and unmodified while the pattern is active.
type Pulse struct {
	Count     uint8
	Frequency uint16 // Hz
	Duration  uint16 // ms per burst
	Interval  uint16 // ms of silence between bursts
}

// Config holds the buzzer pin and the default acknowledge/error tones.
type Config struct {
	Pin Pin
	Ack Tone
	Err Tone
}

// DefaultConfig returns an unconfigured buzzer config with the stock
// acknowledge and error tones.
func DefaultConfig() Config {
	return Config{
		Pin: NoPin,
		Ack: Tone{Frequency: DefaultAckFreq, Duration: DefaultAckDuration, Rest: DefaultRest},
		Err: Tone{Frequency: DefaultErrFreq, Duration: DefaultErrDuration, Rest: DefaultRest},
	}
}

// Buzzer is the scheduling context. It owns exactly one pulse train, one
// pattern and one melody state machine; starting a new one of a kind
// replaces whatever was active, with no queueing. All state lives here so
// independent instances can coexist (and be unit tested) without
// process-wide globals.
type Buzzer struct {
	cfg    Config
	driver ToneDriver
	clock  Clock
	debug  DebugWriter

	pulse   pulseState
	pattern patternState
	melody  melodyState
}

// New creates a Buzzer bound to a tone driver and a millisecond clock.
// A nil clock selects Millis.
func New(driver ToneDriver, clock Clock) *Buzzer {
	if clock == nil {
		clock = Millis
	}
	return &Buzzer{cfg: DefaultConfig(), driver: driver, clock: clock}
}

// Setup configures the buzzer pin. Calling with NoPin while a pin is
// configured tears the buzzer down: output is silenced and all scheduling
// state is reset to inactive defaults (returns false). Calling with the
// already-configured pin is a no-op unless FlagForce is set. Zero-valued
// Ack/Err tones in conf are filled with the stock defaults.
func (b *Buzzer) Setup(conf Config, flags uint8) bool {
	if conf.Pin == NoPin && b.cfg.Pin != NoPin {
		_ = b.driver.StopTone(b.cfg.Pin)
		b.cfg = DefaultConfig()
		b.pulse = pulseState{}
		b.pattern = patternState{}
		b.melody = melodyState{}
		return false
	}
	if conf.Pin == b.cfg.Pin && flags&FlagForce == 0 {
		if flags&FlagSilent == 0 {
			b.debugln("buzzer pin already initialized")
		}
		return true
	}

	if err := b.driver.ConfigurePin(conf.Pin); err != nil {
		if flags&FlagSilent == 0 {
			b.debugln("pin configure failed: " + err.Error())
		}
		return false
	}
	applyToneDefaults(&conf)
	b.cfg = conf
	if flags&FlagSilent == 0 {
		b.PrintConfig("")
	}
	if flags&FlagBeep != 0 {
		b.PulseBlocking(3, b.cfg.Ack.Frequency, b.cfg.Ack.Duration, b.cfg.Ack.Rest)
	}
	return true
}

func applyToneDefaults(conf *Config) {
	if conf.Ack == (Tone{}) {
		conf.Ack = Tone{Frequency: DefaultAckFreq, Duration: DefaultAckDuration, Rest: DefaultRest}
	}
	if conf.Err == (Tone{}) {
		conf.Err = Tone{Frequency: DefaultErrFreq, Duration: DefaultErrDuration, Rest: DefaultRest}
	}
}

// Config returns the current configuration.
func (b *Buzzer) Config() Config {
	return b.cfg
}

// SetConfig replaces the acknowledge/error tones. Pin changes must go
// through Setup so the hardware gets reconfigured.
func (b *Buzzer) SetConfig(conf Config, flags uint8) Config {
	applyToneDefaults(&conf)
	b.cfg.Ack = conf.Ack
	b.cfg.Err = conf.Err
	if flags&FlagSilent == 0 {
		b.PrintConfig("")
	}
	return b.cfg
}

// Beep sounds a single immediate tone. No scheduling state is touched.
func (b *Buzzer) Beep(frequency, duration uint16) {
	if b.cfg.Pin == NoPin {
		return
	}
	_ = b.driver.StartTone(b.cfg.Pin, frequency, duration)
}

// BeepAck sounds the configured acknowledge tone.
func (b *Buzzer) BeepAck() {
	b.Beep(b.cfg.Ack.Frequency, b.cfg.Ack.Duration)
}

// BeepErr sounds the configured error tone.
func (b *Buzzer) BeepErr() {
	b.Beep(b.cfg.Err.Frequency, b.cfg.Err.Duration)
}

// Update is the single cooperative tick. Call it once per main-loop pass;
// it never blocks or sleeps and advances at most the highest-priority
// active layer: pulse train, then pattern bookkeeping, then melody.
// A pattern re-arms the embedded pulse train, which is then ticked on the
// following pass. Returns true when this call triggered a brand-new tone
// event, for synchronizing external effects such as an LED flash.
//
// Behavior is derived from clock deltas only, never from call counts, so
// the cadence may be arbitrarily irregular: a late tick fires each pending
// event exactly once.
func (b *Buzzer) Update() bool {
	now := b.clock()

	// A pulse or pattern outranks a running melody. Note when the
	// preemption begins so the melody's elapsed time can be frozen and
	// resumed exactly where it stood (see tickMelody).
	if b.melody.active && !b.melody.paused && (b.pulse.active || b.pattern.active) {
		b.melody.paused = true
		b.melody.pausedAt = now
	}

	switch {
	case b.pulse.active && b.cfg.Pin != NoPin:
		return b.tickPulse(now)
	case b.pattern.active:
		b.tickPattern(now)
	case b.melody.active && b.cfg.Pin != NoPin:
		return b.tickMelody(now)
	}
	return false
}

// Stop silences the pin and cancels pulse, pattern and melody playback.
func (b *Buzzer) Stop() {
	b.StopPattern()
	b.StopMelody()
}

// PrintConfig writes the current configuration through the debug writer.
func (b *Buzzer) PrintConfig(message string) {
	msg := ""
	if message != "" {
		msg = message + " "
	}
	b.debugln(msg +
		"pin: " + utoa(uint32(b.cfg.Pin)) +
		"  ack: " + formatTone(b.cfg.Ack) +
		"  err: " + formatTone(b.cfg.Err))
}

func formatTone(t Tone) string {
	return utoa(uint32(t.Frequency)) + "Hz/" +
		utoa(uint32(t.Duration)) + "ms/" +
		utoa(uint32(t.Rest)) + "ms"
}

// sleepTick is the pacing used by the blocking convenience wrappers. They
// share all timing logic with Update; the sleep only bounds CPU spin.
func sleepTick() {
	time.Sleep(time.Millisecond)
}
