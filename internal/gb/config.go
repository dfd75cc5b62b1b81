package gb

import "io"

// Config contains settings that affect emulation behaviour. The zero value
// is a working configuration: no boot ROM (registers start in the state the
// DMG boot ROM leaves them in), serial output discarded, no tracing.
type Config struct {
	// BootROM is the 256 byte DMG boot ROM. When set, it is mapped over
	// 0x0000-0x00FF until the program writes to 0xFF50 and execution starts
	// at 0x0000.
	BootROM []byte

	// Serial receives every byte shifted out of the serial port.
	Serial io.Writer

	// Trace logs every executed instruction. Very slow.
	Trace bool
}

const bootROMSize = 0x100
