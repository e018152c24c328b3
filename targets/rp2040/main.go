//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"buzzgo/core"
)

// Board wiring
const (
	buzzerPin = machine.GP15

	ledFlashMS = 20 // LED pulse length per tone event
)

func main() {
	// Give USB CDC time to enumerate so the first log lines are visible
	time.Sleep(2 * time.Second)

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	driver := NewPWMToneDriver()
	buz := core.New(driver, Millis)
	buz.SetDebugWriter(func(msg string) { println(msg) })

	if !buz.Setup(core.Config{Pin: core.Pin(buzzerPin)}, core.FlagBeep) {
		println("error: buzzer setup failed")
		for {
			time.Sleep(time.Second)
		}
	}

	con := newConsole(buz)
	println("buzzgo ready")

	// Cooperative super-loop: poll the console, tick the scheduler, and
	// mirror new tone events onto the onboard LED.
	ledOffAt := uint32(0)
	ledOn := false
	for {
		con.poll()

		if buz.Update() {
			led.High()
			ledOn = true
			ledOffAt = Millis() + ledFlashMS
		}
		if ledOn && int32(Millis()-ledOffAt) >= 0 {
			led.Low()
			ledOn = false
		}

		time.Sleep(time.Millisecond)
	}
}
