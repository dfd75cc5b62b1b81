package gb

// alu applies one of the eight accumulator operations by its encoding:
// ADD ADC SUB SBC AND XOR OR CP
func (c *CPU) alu(op uint8, v uint8) {
	switch op {
	case 0:
		c.add8(v, false)
	case 1:
		c.add8(v, c.flag(flagC))
	case 2:
		c.a = c.sub8(v, false)
	case 3:
		c.a = c.sub8(v, c.flag(flagC))
	case 4:
		c.a &= v
		c.setFlags(c.a == 0, false, true, false)
	case 5:
		c.a ^= v
		c.setFlags(c.a == 0, false, false, false)
	case 6:
		c.a |= v
		c.setFlags(c.a == 0, false, false, false)
	default:
		// CP is SUB without keeping the result
		c.sub8(v, false)
	}
}

// A = A + v + carry
//
// Flags: Z 0 H C
func (c *CPU) add8(v uint8, carry bool) {
	var cy uint8
	if carry {
		cy = 1
	}
	r := uint16(c.a) + uint16(v) + uint16(cy)
	h := c.a&0x0f+v&0x0f+cy > 0x0f
	c.a = uint8(r)
	c.setFlags(c.a == 0, false, h, r > 0xff)
}

// A - v - carry. The caller decides whether to keep the result.
//
// Flags: Z 1 H C
func (c *CPU) sub8(v uint8, carry bool) uint8 {
	var cy int
	if carry {
		cy = 1
	}
	r := int(c.a) - int(v) - cy
	h := int(c.a&0x0f)-int(v&0x0f)-cy < 0
	res := uint8(r)
	c.setFlags(res == 0, true, h, r < 0)
	return res
}

// Flags: Z 0 H -
func (c *CPU) inc8(v uint8) uint8 {
	r := v + 1
	c.setFlag(flagZ, r == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, v&0x0f == 0x0f)
	return r
}

// Flags: Z 1 H -
func (c *CPU) dec8(v uint8) uint8 {
	r := v - 1
	c.setFlag(flagZ, r == 0)
	c.setFlag(flagN, true)
	c.setFlag(flagH, v&0x0f == 0)
	return r
}

// HL = HL + v
//
// Flags: - 0 H C (half carry out of bit 11)
func (c *CPU) addHL(v uint16) {
	hl := c.hl()
	r := uint32(hl) + uint32(v)
	c.setFlag(flagN, false)
	c.setFlag(flagH, hl&0x0fff+v&0x0fff > 0x0fff)
	c.setFlag(flagC, r > 0xffff)
	c.setHL(uint16(r))
}

// SP + signed e, used by ADD SP,e and LD HL,SP+e. H and C come from the
// unsigned addition of the low bytes.
//
// Flags: 0 0 H C
func (c *CPU) addSP(e uint8) uint16 {
	v := uint16(int8(e))
	h := c.sp&0x0f+v&0x0f > 0x0f
	cy := c.sp&0xff+v&0xff > 0xff
	c.setFlags(false, false, h, cy)
	return c.sp + v
}

// Decimal adjust A after a BCD addition or subtraction.
//
// Flags: Z - 0 C
func (c *CPU) daa() {
	var adj uint8
	cy := c.flag(flagC)
	sub := c.flag(flagN)
	if c.flag(flagH) || (!sub && c.a&0x0f > 0x09) {
		adj |= 0x06
	}
	if cy || (!sub && c.a > 0x99) {
		adj |= 0x60
		cy = true
	}
	if sub {
		c.a -= adj
	} else {
		c.a += adj
	}
	c.setFlag(flagZ, c.a == 0)
	c.setFlag(flagH, false)
	c.setFlag(flagC, cy)
}

// rotate applies one of the CB shift and rotate operations by its encoding:
// RLC RRC RL RR SLA SRA SWAP SRL
//
// Flags: Z 0 0 C (SWAP clears C)
func (c *CPU) rotate(op uint8, v uint8) uint8 {
	var r uint8
	var cy bool
	switch op {
	case 0:
		cy = v&0x80 != 0
		r = v<<1 | v>>7
	case 1:
		cy = v&0x01 != 0
		r = v>>1 | v<<7
	case 2:
		cy = v&0x80 != 0
		r = v << 1
		if c.flag(flagC) {
			r |= 0x01
		}
	case 3:
		cy = v&0x01 != 0
		r = v >> 1
		if c.flag(flagC) {
			r |= 0x80
		}
	case 4:
		cy = v&0x80 != 0
		r = v << 1
	case 5:
		cy = v&0x01 != 0
		r = v>>1 | v&0x80
	case 6:
		r = v<<4 | v>>4
	default:
		cy = v&0x01 != 0
		r = v >> 1
	}
	c.setFlags(r == 0, false, false, cy)
	return r
}

// Flags: Z 0 1 -
func (c *CPU) bit(n uint8, v uint8) {
	c.setFlag(flagZ, v&(1<<n) == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, true)
}
