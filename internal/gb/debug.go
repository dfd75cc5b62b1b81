package gb

import (
	"fmt"
	"strings"
)

// DebugInfo is a copy of the machine state for display.
type DebugInfo struct {
	Registers Registers
	IME       bool
	IE        uint8
	IF        uint8
	Halted    bool
	Stopped   bool
	Fault     error

	DIV, TIMA, TMA, TAC uint8

	ROMBank    int
	RAMBank    int
	RAMEnabled bool

	Cycles uint64
	Frames uint64
}

func (b *Bus) DebugInfo() DebugInfo {
	d := DebugInfo{
		Registers: b.cpu.Registers(),
		IME:       b.ints.MasterEnabled(),
		IE:        b.ints.IE(),
		IF:        b.ints.IF(),
		Halted:    b.cpu.Halted(),
		Stopped:   b.cpu.Stopped(),
		Fault:     b.cpu.Fault(),
		DIV:       b.timer.DIV(),
		TIMA:      b.timer.TIMA(),
		TMA:       b.timer.TMA(),
		TAC:       b.timer.TAC(),
		Cycles:    b.clock.Cycles(),
		Frames:    b.clock.Frames(),
	}
	if b.cart != nil {
		d.ROMBank = b.cart.ROMBank()
		d.RAMBank = b.cart.RAMBank()
		d.RAMEnabled = b.cart.RAMEnabled()
	}
	return d
}

// Flags returns F as a string in ZNHC order, with a dash for a clear flag.
func (d DebugInfo) Flags() string {
	var s strings.Builder
	for i, name := range "ZNHC" {
		if d.Registers.F&(0x80>>i) != 0 {
			s.WriteRune(name)
		} else {
			s.WriteRune('-')
		}
	}
	return s.String()
}

// StatusString is a multi-line summary of the machine state.
func (d DebugInfo) StatusString() string {
	r := d.Registers
	var s strings.Builder
	fmt.Fprintf(&s, "A:%02X F:%s\n", r.A, d.Flags())
	fmt.Fprintf(&s, "B:%02X C:%02X\n", r.B, r.C)
	fmt.Fprintf(&s, "D:%02X E:%02X\n", r.D, r.E)
	fmt.Fprintf(&s, "H:%02X L:%02X\n", r.H, r.L)
	fmt.Fprintf(&s, "SP:%04X PC:%04X\n", r.SP, r.PC)
	fmt.Fprintf(&s, "IME:%t IE:%02X IF:%02X\n", d.IME, d.IE, d.IF)
	fmt.Fprintf(&s, "DIV:%02X TIMA:%02X TMA:%02X TAC:%02X\n", d.DIV, d.TIMA, d.TMA, d.TAC)
	fmt.Fprintf(&s, "ROM:%d RAM:%d (%t)\n", d.ROMBank, d.RAMBank, d.RAMEnabled)
	switch {
	case d.Fault != nil:
		fmt.Fprintf(&s, "FAULT %v\n", d.Fault)
	case d.Stopped:
		s.WriteString("STOPPED\n")
	case d.Halted:
		s.WriteString("HALTED\n")
	}
	fmt.Fprintf(&s, "frame %d cycle %d\n", d.Frames, d.Cycles)
	return s.String()
}
