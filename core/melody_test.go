package core

import (
	"testing"
)

func TestMelodyPlaysThrough(t *testing.T) {
	const base = 1000
	b, drv, clk := newTestBuzzer(t, base)

	// 440Hz/100ms + 50ms rest, a pure rest step, then 880Hz/100ms:
	// total playtime 300ms with a silent gap between +150 and +200
	melody := []Tone{
		{Frequency: 440, Duration: 100, Rest: 50},
		{Frequency: 0, Duration: 0, Rest: 50},
		{Frequency: 880, Duration: 100, Rest: 0},
	}
	b.Melody(melody, false)
	if !b.IsMelodyActive() {
		t.Fatal("melody should be active after start")
	}

	b.Update() // step 0 starts at base
	tickThrough(b, clk, base+400)

	if len(drv.events) != 2 {
		t.Fatalf("Expected 2 audible tone events, got %d", len(drv.events))
	}
	if drv.events[0].at != base || drv.events[0].frequency != 440 {
		t.Errorf("Step 0: expected 440Hz at t=%d, got %dHz at t=%d",
			base, drv.events[0].frequency, drv.events[0].at)
	}
	// The zero-frequency step consumes its time silently; the final note
	// starts right after it (per-millisecond ticking adds a couple ms of
	// step-transition latency)
	second := drv.events[1]
	if second.frequency != 880 {
		t.Errorf("Step 2: expected 880Hz, got %dHz", second.frequency)
	}
	if second.at < base+200 || second.at > base+205 {
		t.Errorf("Step 2: expected start near t=%d, got t=%d", base+200, second.at)
	}
	if b.IsMelodyActive() {
		t.Error("melody should be inactive after the last step")
	}
}

func TestMelodyRestStepTriggersNoTone(t *testing.T) {
	const base = 1000
	b, drv, clk := newTestBuzzer(t, base)

	b.Melody([]Tone{{Frequency: 0, Duration: 60, Rest: 40}}, false)
	b.Update()
	tickThrough(b, clk, base+50)
	if !b.IsMelodyActive() {
		t.Error("rest step should still consume duration+rest time")
	}
	tickThrough(b, clk, base+150)
	if b.IsMelodyActive() {
		t.Error("rest step should finish after duration+rest")
	}
	if len(drv.events) != 0 {
		t.Errorf("Expected no tone events for a pure rest, got %d", len(drv.events))
	}
}

func TestMelodyRepeats(t *testing.T) {
	const base = 1000
	b, drv, clk := newTestBuzzer(t, base)

	b.Melody([]Tone{{Frequency: 440, Duration: 10, Rest: 10}}, true)
	b.Update()
	tickThrough(b, clk, base+100)

	if len(drv.events) < 3 {
		t.Fatalf("Expected at least 3 tone events from a repeating melody, got %d", len(drv.events))
	}
	if !b.IsMelodyActive() {
		t.Error("repeating melody should stay active")
	}
}

func TestMelodyPreemptionFreezesElapsedTime(t *testing.T) {
	const base = 1000
	b, drv, clk := newTestBuzzer(t, base)

	b.Melody([]Tone{
		{Frequency: 440, Duration: 100, Rest: 50},
		{Frequency: 880, Duration: 100, Rest: 0},
	}, false)
	b.Update() // step 0 starts, 440Hz fires
	tickThrough(b, clk, base+30)

	// Preempt with a pulse train that runs for about a second, far longer
	// than the rest of the melody step would take unfrozen
	b.Pulse(3, 2000, 10, 490)
	tickThrough(b, clk, base+1035)
	if !b.IsMelodyActive() {
		t.Fatal("preempted melody must stay active")
	}
	if drv.stops != 0 {
		t.Fatal("frozen melody step must not end during the preemption")
	}

	// The melody had ~30ms of step 0 behind it; after resuming it owes
	// the remaining ~70ms before its rest begins
	resumedAt := clk.now
	for drv.stops == 0 && clk.now < resumedAt+200 {
		clk.now++
		b.Update()
	}
	stepEnd := clk.now - resumedAt
	if stepEnd < 60 || stepEnd > 80 {
		t.Errorf("Expected step 0 to sound ~70ms after resume, got %dms", stepEnd)
	}

	tickThrough(b, clk, resumedAt+500)
	last := drv.events[len(drv.events)-1]
	if last.frequency != 880 {
		t.Errorf("Expected the 880Hz step after resume, got %dHz", last.frequency)
	}
	if b.IsMelodyActive() {
		t.Error("melody should finish after resuming")
	}
}

func TestMelodyEmptyIsNoop(t *testing.T) {
	b, _, _ := newTestBuzzer(t, 1000)
	b.Melody(nil, false)
	if b.IsMelodyActive() {
		t.Error("empty melody should not activate")
	}
}

func TestStopMelodySilences(t *testing.T) {
	b, drv, clk := newTestBuzzer(t, 1000)

	b.Melody([]Tone{{Frequency: 440, Duration: 1000, Rest: 0}}, false)
	tickThrough(b, clk, 1010)
	b.StopMelody()
	if b.IsMelodyActive() {
		t.Error("StopMelody should deactivate the melody")
	}
	if drv.stops == 0 {
		t.Error("StopMelody should silence the pin immediately")
	}
}

func TestMelodyEndStopsTone(t *testing.T) {
	b, drv, clk := newTestBuzzer(t, 1000)

	b.Melody([]Tone{{Frequency: 440, Duration: 20, Rest: 0}}, false)
	b.Update()
	tickThrough(b, clk, 1100)
	if b.IsMelodyActive() {
		t.Error("melody should be inactive")
	}
	if drv.stops == 0 {
		t.Error("melody completion should force-stop the tone")
	}
}

func TestMelodyBlocking(t *testing.T) {
	clk := &testClock{}
	drv := &mockDriver{clock: clk}
	b := New(drv, nil) // real clock
	drvClockFix(b, drv)
	if !b.Setup(Config{Pin: 15}, FlagSilent) {
		t.Fatal("Setup failed")
	}

	// Repeat is requested but the blocking wrapper must clear it so the
	// call terminates.
	b.MelodyBlocking([]Tone{{Frequency: 440, Duration: 2, Rest: 1}}, true)
	if b.IsMelodyActive() {
		t.Error("MelodyBlocking should return with the melody inactive")
	}
	if len(drv.events) != 1 {
		t.Errorf("Expected 1 tone event, got %d", len(drv.events))
	}
}
