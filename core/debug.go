package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// SetDebugWriter sets the platform-specific debug output function.
// This allows platforms to redirect diagnostics to UART, USB or a logger;
// output is disabled until a writer is installed.
func (b *Buzzer) SetDebugWriter(writer DebugWriter) {
	b.debug = writer
}

// debugln writes one prefixed diagnostic line, if a writer is installed
func (b *Buzzer) debugln(msg string) {
	if b.debug != nil {
		b.debug("[buzzer] " + msg)
	}
}
