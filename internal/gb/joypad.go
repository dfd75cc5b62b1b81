package gb

import "strings"

const addrP1 = 0xff00

// Button is a joypad button. The lower nibble holds the direction keys and
// the upper nibble the action buttons, each in the bit order of the P1
// register.
type Button uint8

const (
	ButtonRight Button = 1 << iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

var buttonNames = map[string]Button{
	"right":  ButtonRight,
	"left":   ButtonLeft,
	"up":     ButtonUp,
	"down":   ButtonDown,
	"a":      ButtonA,
	"b":      ButtonB,
	"select": ButtonSelect,
	"start":  ButtonStart,
}

// ButtonFromString returns the button with the given (case insensitive) name.
func ButtonFromString(s string) (Button, bool) {
	b, ok := buttonNames[strings.ToLower(s)]
	return b, ok
}

// Joypad is the P1 register. The buttons themselves are set by whatever polls
// the host's input devices.
type Joypad struct {
	irq interruptRequester

	sel     uint8 // bits 4 and 5 of P1, active low
	pressed Button
}

func NewJoypad(irq interruptRequester) *Joypad {
	return &Joypad{irq: irq, sel: 0x30}
}

func (j *Joypad) Reset() {
	j.sel = 0x30
	j.pressed = 0
}

// Press a button. The joypad interrupt is requested when one of the P1 input
// lines goes from high to low, so only presses in a selected group raise it.
func (j *Joypad) Press(b Button) {
	before := j.Read8()
	j.pressed |= b
	j.requestOnFall(before)
}

// Release a button.
func (j *Joypad) Release(b Button) {
	j.pressed &^= b
}

func (j *Joypad) requestOnFall(before uint8) {
	if before&^j.Read8()&0x0f != 0 {
		j.irq.Request(IntJoypad)
	}
}

func (j *Joypad) Read8() uint8 {
	v := uint8(0xcf) | j.sel
	if j.sel&0x10 == 0 {
		v &^= uint8(j.pressed) & 0x0f
	}
	if j.sel&0x20 == 0 {
		v &^= uint8(j.pressed>>4) & 0x0f
	}
	return v
}

// Write8 sets the select lines. Selecting a group with a button already held
// pulls its line low as well.
func (j *Joypad) Write8(data uint8) {
	before := j.Read8()
	j.sel = data & 0x30
	j.requestOnFall(before)
}

// Pressed returns the buttons currently held down.
func (j *Joypad) Pressed() Button {
	return j.pressed
}

func (j *Joypad) clone(irq interruptRequester) *Joypad {
	n := *j
	n.irq = irq
	return &n
}
