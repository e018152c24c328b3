package core

import (
	"testing"
)

func TestPatternNonRepeatCompletes(t *testing.T) {
	const base = 1000
	b, drv, clk := newTestBuzzer(t, base)

	entries := []Pulse{
		{Count: 2, Frequency: 800, Duration: 30, Interval: 50},
		{Count: 1, Frequency: 600, Duration: 100, Interval: 0},
	}
	b.Pattern(entries, false, 300)
	if !b.IsPatternActive() {
		t.Fatal("pattern should be active after start")
	}

	b.Update() // entry 0, burst 1 fires immediately: no pre-delay
	tickThrough(b, clk, base+2000)

	// Entry 0 fires at base and base+80; its last tone stops sounding at
	// base+81+30, the 300ms gap runs, entry 1 is loaded at base+411 and
	// fires on the following pass.
	want := []toneEvent{
		{at: base, frequency: 800, duration: 30},
		{at: base + 80, frequency: 800, duration: 30},
		{at: base + 412, frequency: 600, duration: 100},
	}
	if len(drv.events) != len(want) {
		t.Fatalf("Expected %d tone events, got %d", len(want), len(drv.events))
	}
	for i, w := range want {
		if drv.events[i] != w {
			t.Errorf("Event %d: expected %+v, got %+v", i, w, drv.events[i])
		}
	}
	if b.IsPatternActive() || b.IsPulseActive() {
		t.Error("pattern should be inactive after the last entry and gap")
	}
}

func TestPatternDeactivatesAfterFinalGap(t *testing.T) {
	const base = 1000
	b, _, clk := newTestBuzzer(t, base)

	b.Pattern([]Pulse{{Count: 1, Frequency: 500, Duration: 20, Interval: 0}}, false, 100)
	b.Update() // fires at base
	// Tone stops sounding at base+1+20; the pattern stays active through
	// the trailing gap and deactivates at base+121.
	tickThrough(b, clk, base+120)
	if !b.IsPatternActive() {
		t.Fatal("pattern should still be active during the trailing gap")
	}
	clk.now++
	b.Update()
	if b.IsPatternActive() {
		t.Error("pattern should deactivate once the trailing gap elapses")
	}
}

func TestPatternRepeats(t *testing.T) {
	const base = 1000
	b, drv, clk := newTestBuzzer(t, base)

	b.Pattern([]Pulse{{Count: 1, Frequency: 500, Duration: 20, Interval: 0}}, true, 100)
	b.Update()
	tickThrough(b, clk, base+300)

	// One cycle is 122ms: fire, 1ms completion pass, 20ms of sounding,
	// 100ms gap, 1ms load pass.
	want := []uint32{base, base + 122, base + 244}
	if len(drv.events) != len(want) {
		t.Fatalf("Expected %d tone events, got %d", len(want), len(drv.events))
	}
	for i, at := range want {
		if drv.events[i].at != at {
			t.Errorf("Cycle %d: expected t=%d, got t=%d", i, at, drv.events[i].at)
		}
	}
	if !b.IsPatternActive() {
		t.Error("repeating pattern should stay active indefinitely")
	}
}

func TestPatternEmptyIsNoop(t *testing.T) {
	b, drv, clk := newTestBuzzer(t, 1000)

	b.Pattern(nil, false, 300)
	if b.IsPatternActive() || b.IsPulseActive() {
		t.Error("empty pattern should not activate")
	}
	tickThrough(b, clk, 1500)
	if len(drv.events) != 0 {
		t.Errorf("Expected no tone events, got %d", len(drv.events))
	}
}

func TestStopPattern(t *testing.T) {
	b, drv, clk := newTestBuzzer(t, 1000)

	b.Pattern([]Pulse{{Count: 3, Frequency: 800, Duration: 30, Interval: 50}}, true, 300)
	tickThrough(b, clk, 1010)

	b.StopPattern()
	if b.IsPatternActive() || b.IsPulseActive() {
		t.Error("StopPattern should cancel the pattern and its pulse train")
	}
	if drv.stops == 0 {
		t.Error("StopPattern should silence the pin immediately")
	}

	events := len(drv.events)
	tickThrough(b, clk, 3000)
	if len(drv.events) != events {
		t.Error("no tone events may fire after StopPattern")
	}
}

func TestPatternZeroCountEntry(t *testing.T) {
	const base = 1000
	b, drv, clk := newTestBuzzer(t, base)

	// A zero-count entry produces no tone but still runs the gap logic
	entries := []Pulse{
		{Count: 0, Frequency: 800, Duration: 30, Interval: 50},
		{Count: 1, Frequency: 600, Duration: 40, Interval: 0},
	}
	b.Pattern(entries, false, 100)
	b.Update()
	tickThrough(b, clk, base+1000)

	if len(drv.events) != 1 {
		t.Fatalf("Expected 1 tone event, got %d", len(drv.events))
	}
	if drv.events[0].frequency != 600 {
		t.Errorf("Expected the second entry's tone, got %dHz", drv.events[0].frequency)
	}
	if b.IsPatternActive() {
		t.Error("pattern should complete")
	}
}
