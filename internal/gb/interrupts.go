package gb

import "fmt"

// Interrupt is one of the five interrupt sources. The value is the source's
// bit in the IE and IF registers; lower bits have higher priority.
type Interrupt uint8

const (
	IntVBlank Interrupt = 1 << iota
	IntLCDStat
	IntTimer
	IntSerial
	IntJoypad
)

const interruptMask = 0x1f

// InterruptSources lists every source, highest priority first.
var InterruptSources = [...]Interrupt{IntVBlank, IntLCDStat, IntTimer, IntSerial, IntJoypad}

func (i Interrupt) String() string {
	switch i {
	case IntVBlank:
		return "VBlank"
	case IntLCDStat:
		return "LCDStat"
	case IntTimer:
		return "Timer"
	case IntSerial:
		return "Serial"
	case IntJoypad:
		return "Joypad"
	}
	return fmt.Sprintf("Interrupt(%02X)", uint8(i))
}

// Vector returns the address of the source's service routine.
func (i Interrupt) Vector() uint16 {
	switch i {
	case IntVBlank:
		return 0x0040
	case IntLCDStat:
		return 0x0048
	case IntTimer:
		return 0x0050
	case IntSerial:
		return 0x0058
	case IntJoypad:
		return 0x0060
	}
	panic(fmt.Sprintf("no vector for %s", i))
}

// InterruptController holds the interrupt enable register (IE, 0xFFFF), the
// request flags (IF, 0xFF0F) and the master enable flag (IME). None of its
// operations block.
type InterruptController struct {
	enable  uint8
	request uint8
	master  bool
}

// Reset to the power on state.
func (ic *InterruptController) Reset() {
	ic.enable = 0
	ic.request = 0
	ic.master = false
}

// Request sets the request bit of src.
func (ic *InterruptController) Request(src Interrupt) {
	ic.request |= uint8(src) & interruptMask
}

// Acknowledge clears the request bit of src and no other.
func (ic *InterruptController) Acknowledge(src Interrupt) {
	ic.request &^= uint8(src)
}

// Requested is true if the request bit of src is set, regardless of IE.
func (ic *InterruptController) Requested(src Interrupt) bool {
	return ic.request&uint8(src) != 0
}

// Pending is true if any source is both requested and enabled. IME is not
// considered.
func (ic *InterruptController) Pending() bool {
	return ic.enable&ic.request&interruptMask != 0
}

// HighestPending returns the highest priority source that is both requested
// and enabled, without clearing it. IME is not considered.
func (ic *InterruptController) HighestPending() (Interrupt, bool) {
	p := ic.enable & ic.request & interruptMask
	if p == 0 {
		return 0, false
	}
	return Interrupt(p & -p), true
}

// SetMasterEnable sets IME.
func (ic *InterruptController) SetMasterEnable(v bool) {
	ic.master = v
}

// MasterEnabled returns IME.
func (ic *InterruptController) MasterEnabled() bool {
	return ic.master
}

// IE register. All eight bits are stored.
func (ic *InterruptController) IE() uint8 {
	return ic.enable
}

func (ic *InterruptController) SetIE(v uint8) {
	ic.enable = v
}

// IF register. The three unused bits read as one.
func (ic *InterruptController) IF() uint8 {
	return ic.request | ^uint8(interruptMask)
}

func (ic *InterruptController) SetIF(v uint8) {
	ic.request = v & interruptMask
}
