package gb

import (
	"fmt"

	"github.com/nevisdale/gbcore/internal/logger"
)

const (
	flagZ = uint8(1 << 7) // Zero flag
	flagN = uint8(1 << 6) // Subtract flag
	flagH = uint8(1 << 5) // Half carry flag
	flagC = uint8(1 << 4) // Carry flag
)

// cycles taken by a step that only waits (HALT or STOP)
const idleCycles = 4

// cycles taken to push PC and jump to an interrupt vector
const interruptCycles = 20

// Registers is a copy of the CPU register file.
type Registers struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP   uint16
	PC   uint16
}

func (r Registers) String() string {
	return fmt.Sprintf("AF=%02X%02X BC=%02X%02X DE=%02X%02X HL=%02X%02X SP=%04X PC=%04X",
		r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L, r.SP, r.PC)
}

type CPU struct {
	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8
	sp   uint16 // stack pointer
	pc   uint16 // program counter

	mem   ReadWriter           // everything the CPU reads and writes goes through here
	ints  *InterruptController // IE, IF and IME
	clock *Clock               // advanced by the cost of every step

	halted   bool  // HALT executed, waiting for a pending interrupt
	stopped  bool  // STOP executed, waiting for a joypad request
	haltBug  bool  // the next opcode fetch does not advance PC
	imeDelay uint8 // instructions left until EI takes effect. zero when no EI is in flight
	fault    error // set by an undefined opcode. sticks until Reset

	trace bool
}

func NewCPU(mem ReadWriter, ints *InterruptController, clock *Clock) *CPU {
	c := &CPU{
		mem:   mem,
		ints:  ints,
		clock: clock,
	}
	c.Reset(false)
	return c
}

// Reset the CPU. With boot set, all registers are cleared and execution
// starts at 0x0000 where the boot ROM is mapped. Otherwise the registers get
// the values the DMG boot ROM leaves behind and execution starts at the
// cartridge entry point.
func (c *CPU) Reset(boot bool) {
	if boot {
		c.SetRegisters(Registers{})
	} else {
		c.SetRegisters(Registers{
			A: 0x01, F: 0xb0,
			B: 0x00, C: 0x13,
			D: 0x00, E: 0xd8,
			H: 0x01, L: 0x4d,
			SP: 0xfffe,
			PC: 0x0100,
		})
	}
	c.halted = false
	c.stopped = false
	c.haltBug = false
	c.imeDelay = 0
	c.fault = nil
}

// SetTrace turns per-instruction logging on or off.
func (c *CPU) SetTrace(v bool) {
	c.trace = v
}

func (c *CPU) Registers() Registers {
	return Registers{
		A: c.a, F: c.f,
		B: c.b, C: c.c,
		D: c.d, E: c.e,
		H: c.h, L: c.l,
		SP: c.sp,
		PC: c.pc,
	}
}

// SetRegisters loads the register file. The low nibble of F is always zero.
func (c *CPU) SetRegisters(r Registers) {
	c.a, c.f = r.A, r.F&0xf0
	c.b, c.c = r.B, r.C
	c.d, c.e = r.D, r.E
	c.h, c.l = r.H, r.L
	c.sp = r.SP
	c.pc = r.PC
}

func (c *CPU) Halted() bool {
	return c.halted
}

func (c *CPU) Stopped() bool {
	return c.stopped
}

// Fault returns the error that stopped the CPU, if any.
func (c *CPU) Fault() error {
	return c.fault
}

// Step executes one instruction, services one interrupt or idles while
// halted. It returns the number of cycles taken and advances the clock by
// that amount. On an undefined opcode nothing is changed and the same error
// is returned by every later call until Reset.
func (c *CPU) Step() (int, error) {
	cycles, err := c.step()
	if err != nil {
		return 0, err
	}
	c.clock.Advance(cycles)
	return cycles, nil
}

func (c *CPU) step() (int, error) {
	if c.fault != nil {
		return 0, c.fault
	}

	if c.stopped {
		if !c.ints.Requested(IntJoypad) {
			return idleCycles, nil
		}
		c.stopped = false
	}

	if c.halted {
		if !c.ints.Pending() {
			return idleCycles, nil
		}
		c.halted = false
	}

	if c.ints.MasterEnabled() {
		if src, ok := c.ints.HighestPending(); ok {
			c.service(src)
			return interruptCycles, nil
		}
	}

	opcode := c.mem.Read8(c.pc)
	in := instrs[opcode]
	if !in.defined() {
		c.fault = &UnimplementedOpcodeError{Opcode: opcode, PC: c.pc}
		return 0, c.fault
	}

	if c.trace {
		text, _ := disassemble(c.mem, c.pc)
		logger.Logf("cpu", "%04X  %-16s %s", c.pc, text, c.Registers())
	}

	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}

	cycles := int(in.cycles)
	if opcode == 0xcb {
		cb := c.fetch8()
		c.executeCB(cb)
		cycles = int(cbInstrs[cb].cycles)
	} else if c.execute(opcode) {
		cycles = int(in.taken)
	}

	// EI takes effect after the instruction that follows it
	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.ints.SetMasterEnable(true)
		}
	}

	return cycles, nil
}

// service pushes PC and jumps to the vector of src.
func (c *CPU) service(src Interrupt) {
	c.ints.Acknowledge(src)
	c.ints.SetMasterEnable(false)
	c.imeDelay = 0
	if c.haltBug {
		// HALT is executed again on return
		c.haltBug = false
		c.pc--
	}
	c.push16(c.pc)
	c.pc = src.Vector()
}

func (c *CPU) flag(mask uint8) bool {
	return c.f&mask != 0
}

func (c *CPU) setFlag(mask uint8, v bool) {
	if v {
		c.f |= mask
		return
	}
	c.f &^= mask
}

func (c *CPU) setFlags(z, n, h, cy bool) {
	c.f = 0
	c.setFlag(flagZ, z)
	c.setFlag(flagN, n)
	c.setFlag(flagH, h)
	c.setFlag(flagC, cy)
}

func (c *CPU) fetch8() uint8 {
	v := c.mem.Read8(c.pc)
	c.pc++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) read16(addr uint16) uint16 {
	return uint16(c.mem.Read8(addr)) | uint16(c.mem.Read8(addr+1))<<8
}

func (c *CPU) write16(addr uint16, data uint16) {
	c.mem.Write8(addr, uint8(data))
	c.mem.Write8(addr+1, uint8(data>>8))
}

func (c *CPU) push16(data uint16) {
	c.sp--
	c.mem.Write8(c.sp, uint8(data>>8))
	c.sp--
	c.mem.Write8(c.sp, uint8(data))
}

func (c *CPU) pop16() uint16 {
	lo := uint16(c.mem.Read8(c.sp))
	c.sp++
	hi := uint16(c.mem.Read8(c.sp))
	c.sp++
	return lo | hi<<8
}

func (c *CPU) bc() uint16 { return uint16(c.b)<<8 | uint16(c.c) }
func (c *CPU) de() uint16 { return uint16(c.d)<<8 | uint16(c.e) }
func (c *CPU) hl() uint16 { return uint16(c.h)<<8 | uint16(c.l) }
func (c *CPU) af() uint16 { return uint16(c.a)<<8 | uint16(c.f) }

func (c *CPU) setBC(v uint16) { c.b, c.c = uint8(v>>8), uint8(v) }
func (c *CPU) setDE(v uint16) { c.d, c.e = uint8(v>>8), uint8(v) }
func (c *CPU) setHL(v uint16) { c.h, c.l = uint8(v>>8), uint8(v) }
func (c *CPU) setAF(v uint16) { c.a, c.f = uint8(v>>8), uint8(v)&0xf0 }

// getR reads an 8-bit operand by its encoding in the opcode:
// B C D E H L (HL) A
func (c *CPU) getR(i uint8) uint8 {
	switch i {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case 6:
		return c.mem.Read8(c.hl())
	default:
		return c.a
	}
}

func (c *CPU) setR(i uint8, v uint8) {
	switch i {
	case 0:
		c.b = v
	case 1:
		c.c = v
	case 2:
		c.d = v
	case 3:
		c.e = v
	case 4:
		c.h = v
	case 5:
		c.l = v
	case 6:
		c.mem.Write8(c.hl(), v)
	default:
		c.a = v
	}
}

// getRP reads a register pair by its encoding: BC DE HL SP
func (c *CPU) getRP(i uint8) uint16 {
	switch i {
	case 0:
		return c.bc()
	case 1:
		return c.de()
	case 2:
		return c.hl()
	default:
		return c.sp
	}
}

func (c *CPU) setRP(i uint8, v uint16) {
	switch i {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.sp = v
	}
}

// cond evaluates a branch condition by its encoding: NZ Z NC C
func (c *CPU) cond(i uint8) bool {
	switch i {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	default:
		return c.flag(flagC)
	}
}

func (c *CPU) clone(mem ReadWriter, ints *InterruptController, clock *Clock) *CPU {
	n := *c
	n.mem = mem
	n.ints = ints
	n.clock = clock
	return &n
}
