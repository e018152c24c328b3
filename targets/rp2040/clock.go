//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"unsafe"
)

// RP2040/RP2350 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWH = timerBase + 0x08 // Raw timer high word
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var (
	timerRAWH = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWH)))
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))
)

// hardwareMicros reads the full 64-bit RP2040 hardware timer (1MHz).
// High word is read twice to detect a rollover between the two reads.
func hardwareMicros() uint64 {
	for {
		high1 := timerRAWH.Get()
		low := timerRAWL.Get()
		high2 := timerRAWH.Get()
		if high1 == high2 {
			return (uint64(high1) << 32) | uint64(low)
		}
	}
}

// Millis is the scheduler clock: hardware microseconds scaled to
// milliseconds, truncated to 32 bits (wraps after ~49.7 days, which the
// core's delta arithmetic tolerates).
func Millis() uint32 {
	return uint32(hardwareMicros() / 1000)
}
