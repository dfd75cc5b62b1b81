package gb

import "fmt"

// execute runs a decoded base opcode whose PC has already been advanced past
// the opcode byte. It reports whether a conditional branch was taken.
func (c *CPU) execute(op uint8) bool {
	switch op >> 6 {
	case 1:
		if op == 0x76 {
			c.halt()
			return false
		}
		// LD r,r'
		c.setR(op>>3&7, c.getR(op&7))
		return false
	case 2:
		// ALU A,r
		c.alu(op>>3&7, c.getR(op&7))
		return false
	}

	switch op {
	case 0x00: // NOP

	case 0x01, 0x11, 0x21, 0x31: // LD rr,d16
		c.setRP(op>>4, c.fetch16())

	case 0x02: // LD (BC),A
		c.mem.Write8(c.bc(), c.a)
	case 0x12: // LD (DE),A
		c.mem.Write8(c.de(), c.a)
	case 0x22: // LD (HL+),A
		hl := c.hl()
		c.mem.Write8(hl, c.a)
		c.setHL(hl + 1)
	case 0x32: // LD (HL-),A
		hl := c.hl()
		c.mem.Write8(hl, c.a)
		c.setHL(hl - 1)

	case 0x0a: // LD A,(BC)
		c.a = c.mem.Read8(c.bc())
	case 0x1a: // LD A,(DE)
		c.a = c.mem.Read8(c.de())
	case 0x2a: // LD A,(HL+)
		hl := c.hl()
		c.a = c.mem.Read8(hl)
		c.setHL(hl + 1)
	case 0x3a: // LD A,(HL-)
		hl := c.hl()
		c.a = c.mem.Read8(hl)
		c.setHL(hl - 1)

	case 0x03, 0x13, 0x23, 0x33: // INC rr
		rp := op >> 4
		c.setRP(rp, c.getRP(rp)+1)
	case 0x0b, 0x1b, 0x2b, 0x3b: // DEC rr
		rp := op >> 4
		c.setRP(rp, c.getRP(rp)-1)

	case 0x04, 0x0c, 0x14, 0x1c, 0x24, 0x2c, 0x34, 0x3c: // INC r
		r := op >> 3 & 7
		c.setR(r, c.inc8(c.getR(r)))
	case 0x05, 0x0d, 0x15, 0x1d, 0x25, 0x2d, 0x35, 0x3d: // DEC r
		r := op >> 3 & 7
		c.setR(r, c.dec8(c.getR(r)))

	case 0x06, 0x0e, 0x16, 0x1e, 0x26, 0x2e, 0x36, 0x3e: // LD r,d8
		c.setR(op>>3&7, c.fetch8())

	case 0x07: // RLCA
		c.a = c.rotate(0, c.a)
		c.setFlag(flagZ, false)
	case 0x0f: // RRCA
		c.a = c.rotate(1, c.a)
		c.setFlag(flagZ, false)
	case 0x17: // RLA
		c.a = c.rotate(2, c.a)
		c.setFlag(flagZ, false)
	case 0x1f: // RRA
		c.a = c.rotate(3, c.a)
		c.setFlag(flagZ, false)

	case 0x08: // LD (a16),SP
		c.write16(c.fetch16(), c.sp)

	case 0x09, 0x19, 0x29, 0x39: // ADD HL,rr
		c.addHL(c.getRP(op >> 4))

	case 0x10: // STOP
		c.fetch8()
		c.stop()

	case 0x18: // JR r8
		e := c.fetch8()
		c.pc += uint16(int8(e))
	case 0x20, 0x28, 0x30, 0x38: // JR cc,r8
		e := c.fetch8()
		if !c.cond(op >> 3 & 3) {
			return false
		}
		c.pc += uint16(int8(e))
		return true

	case 0x27: // DAA
		c.daa()
	case 0x2f: // CPL
		c.a = ^c.a
		c.setFlag(flagN, true)
		c.setFlag(flagH, true)
	case 0x37: // SCF
		c.setFlag(flagN, false)
		c.setFlag(flagH, false)
		c.setFlag(flagC, true)
	case 0x3f: // CCF
		c.setFlag(flagN, false)
		c.setFlag(flagH, false)
		c.setFlag(flagC, !c.flag(flagC))

	case 0xc0, 0xc8, 0xd0, 0xd8: // RET cc
		if !c.cond(op >> 3 & 3) {
			return false
		}
		c.pc = c.pop16()
		return true
	case 0xc9: // RET
		c.pc = c.pop16()
	case 0xd9: // RETI
		c.pc = c.pop16()
		c.ints.SetMasterEnable(true)
		c.imeDelay = 0

	case 0xc1, 0xd1, 0xe1: // POP rr
		c.setRP(op>>4&3, c.pop16())
	case 0xf1: // POP AF
		c.setAF(c.pop16())
	case 0xc5, 0xd5, 0xe5: // PUSH rr
		c.push16(c.getRP(op >> 4 & 3))
	case 0xf5: // PUSH AF
		c.push16(c.af())

	case 0xc2, 0xca, 0xd2, 0xda: // JP cc,a16
		addr := c.fetch16()
		if !c.cond(op >> 3 & 3) {
			return false
		}
		c.pc = addr
		return true
	case 0xc3: // JP a16
		c.pc = c.fetch16()
	case 0xe9: // JP (HL)
		c.pc = c.hl()

	case 0xc4, 0xcc, 0xd4, 0xdc: // CALL cc,a16
		addr := c.fetch16()
		if !c.cond(op >> 3 & 3) {
			return false
		}
		c.push16(c.pc)
		c.pc = addr
		return true
	case 0xcd: // CALL a16
		addr := c.fetch16()
		c.push16(c.pc)
		c.pc = addr

	case 0xc7, 0xcf, 0xd7, 0xdf, 0xe7, 0xef, 0xf7, 0xff: // RST n
		c.push16(c.pc)
		c.pc = uint16(op & 0x38)

	case 0xc6, 0xce, 0xd6, 0xde, 0xe6, 0xee, 0xf6, 0xfe: // ALU A,d8
		c.alu(op>>3&7, c.fetch8())

	case 0xe0: // LDH (a8),A
		c.mem.Write8(0xff00|uint16(c.fetch8()), c.a)
	case 0xf0: // LDH A,(a8)
		c.a = c.mem.Read8(0xff00 | uint16(c.fetch8()))
	case 0xe2: // LD (C),A
		c.mem.Write8(0xff00|uint16(c.c), c.a)
	case 0xf2: // LD A,(C)
		c.a = c.mem.Read8(0xff00 | uint16(c.c))
	case 0xea: // LD (a16),A
		c.mem.Write8(c.fetch16(), c.a)
	case 0xfa: // LD A,(a16)
		c.a = c.mem.Read8(c.fetch16())

	case 0xe8: // ADD SP,r8
		c.sp = c.addSP(c.fetch8())
	case 0xf8: // LD HL,SP+r8
		c.setHL(c.addSP(c.fetch8()))
	case 0xf9: // LD SP,HL
		c.sp = c.hl()

	case 0xf3: // DI
		c.ints.SetMasterEnable(false)
		c.imeDelay = 0
	case 0xfb: // EI
		if !c.ints.MasterEnabled() && c.imeDelay == 0 {
			c.imeDelay = 2
		}

	default:
		// undefined opcodes and CB are filtered out by step
		panic(fmt.Sprintf("unreachable. opcode %02X has no operation", op))
	}
	return false
}

// executeCB runs the second byte of a CB prefixed instruction.
func (c *CPU) executeCB(op uint8) {
	r := op & 7
	n := op >> 3 & 7
	switch op >> 6 {
	case 0:
		c.setR(r, c.rotate(n, c.getR(r)))
	case 1:
		c.bit(n, c.getR(r))
	case 2:
		c.setR(r, c.getR(r)&^(1<<n))
	default:
		c.setR(r, c.getR(r)|1<<n)
	}
}

func (c *CPU) halt() {
	if !c.ints.MasterEnabled() && c.ints.Pending() {
		// HALT does not halt and the byte after it is read twice
		c.haltBug = true
		return
	}
	c.halted = true
}

func (c *CPU) stop() {
	c.stopped = true
	c.mem.Write8(addrDIV, 0)
}
