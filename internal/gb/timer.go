package gb

import "fmt"

const (
	addrDIV  = 0xff04
	addrTIMA = 0xff05
	addrTMA  = 0xff06
	addrTAC  = 0xff07
)

const tacEnable = 0x04

// bit of the internal divider whose falling edge clocks TIMA, for each TAC
// clock select value. TIMA advances every 1024, 16, 64 or 256 cycles.
var timerBits = [4]uint16{1 << 9, 1 << 3, 1 << 5, 1 << 7}

type interruptRequester interface {
	Request(src Interrupt)
}

// Timer is the DIV/TIMA/TMA/TAC block. DIV is the upper byte of a free running
// 16-bit counter that advances every cycle. TIMA advances on each falling edge
// of the counter bit selected by TAC, ANDed with the TAC enable bit; when it
// overflows it is reloaded from TMA and a timer interrupt is requested.
type Timer struct {
	irq interruptRequester

	div  uint16
	tima uint8
	tma  uint8
	tac  uint8
}

func NewTimer(irq interruptRequester) *Timer {
	return &Timer{irq: irq}
}

func (t *Timer) String() string {
	return fmt.Sprintf("DIV=%02X TIMA=%02X TMA=%02X TAC=%02X", t.DIV(), t.tima, t.tma, t.TAC())
}

// Reset to the power on state.
func (t *Timer) Reset() {
	t.div = 0
	t.tima = 0
	t.tma = 0
	t.tac = 0
}

// Tick advances the timer by a number of cycles. Every TIMA overflow that
// falls inside the advance is processed, so a single call may request the
// timer interrupt more than once.
func (t *Timer) Tick(cycles int) {
	if t.tac&tacEnable == 0 {
		t.div += uint16(cycles)
		return
	}
	for i := 0; i < cycles; i++ {
		before := t.signal()
		t.div++
		if before && !t.signal() {
			t.increment()
		}
	}
}

// signal is the input of the TIMA edge detector.
func (t *Timer) signal() bool {
	return t.tac&tacEnable != 0 && t.div&timerBits[t.tac&0x3] != 0
}

func (t *Timer) increment() {
	t.tima++
	if t.tima == 0 {
		t.tima = t.tma
		t.irq.Request(IntTimer)
	}
}

func (t *Timer) DIV() uint8 {
	return uint8(t.div >> 8)
}

func (t *Timer) TIMA() uint8 {
	return t.tima
}

func (t *Timer) TMA() uint8 {
	return t.tma
}

// TAC register. The five unused bits read as one.
func (t *Timer) TAC() uint8 {
	return t.tac | 0xf8
}

func (t *Timer) Read8(addr uint16) uint8 {
	switch addr {
	case addrDIV:
		return t.DIV()
	case addrTIMA:
		return t.tima
	case addrTMA:
		return t.tma
	case addrTAC:
		return t.TAC()
	}
	return unmapped
}

// Write8 writes a timer register. Any write to DIV clears the whole 16-bit
// divider, whatever the value written. Clearing the divider or changing TAC
// can drop the edge detector input from high to low, which counts as a TIMA
// increment just like a divider tick does.
func (t *Timer) Write8(addr uint16, data uint8) {
	before := t.signal()
	switch addr {
	case addrDIV:
		t.div = 0
	case addrTIMA:
		t.tima = data
		return
	case addrTMA:
		t.tma = data
		return
	case addrTAC:
		t.tac = data & 0x07
	default:
		return
	}
	if before && !t.signal() {
		t.increment()
	}
}

// setDivider loads the internal 16-bit counter, used to start in the state the
// boot ROM leaves behind.
func (t *Timer) setDivider(v uint16) {
	t.div = v
}

func (t *Timer) clone(irq interruptRequester) *Timer {
	n := *t
	n.irq = irq
	return &n
}
