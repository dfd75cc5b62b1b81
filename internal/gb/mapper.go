package gb

// Bank switching. Every mapper kind is handled by an explicit switch so the
// full set of rules for a kind can be read in one place.
//
// $0000-$3FFF: ROM bank 0 (MBC1 in mode 1: bank BANK2<<5)
// $4000-$7FFF: switchable ROM bank
// $A000-$BFFF: external RAM, when present and enabled
//
// Writes to $0000-$7FFF go to the mapper's control registers.

// Read8 reads from 0x0000-0x7FFF or 0xA000-0xBFFF.
func (c *Cart) Read8(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return c.rom[c.romOffset(c.lowBank(), addr)]
	case addr < 0x8000:
		return c.rom[c.romOffset(c.highBank(), addr)]
	case addr >= 0xa000 && addr < 0xc000:
		return c.readRAM(addr)
	}
	return unmapped
}

// Write8 writes to the mapper's control registers (0x0000-0x7FFF) or to
// external RAM (0xA000-0xBFFF). ROM is never written.
func (c *Cart) Write8(addr uint16, data uint8) {
	switch {
	case addr < 0x8000:
		c.writeControl(addr, data)
	case addr >= 0xa000 && addr < 0xc000:
		c.writeRAM(addr, data)
	}
}

func (c *Cart) romOffset(bank int, addr uint16) int {
	return (bank%c.romBanks)*romBankSizeBytes + int(addr&0x3fff)
}

func (c *Cart) lowBank() int {
	if c.header.Mapper == MapperMBC1 && c.mode == 1 {
		return c.ramBank << 5
	}
	return 0
}

func (c *Cart) highBank() int {
	switch c.header.Mapper {
	case MapperNone:
		return 1
	case MapperMBC1:
		return c.ramBank<<5 | c.romBank
	case MapperMBC2, MapperMBC3, MapperMBC5:
		return c.romBank
	}
	return 1
}

func (c *Cart) currentRAMBank() int {
	switch c.header.Mapper {
	case MapperMBC1:
		if c.mode == 1 {
			return c.ramBank
		}
	case MapperMBC3, MapperMBC5:
		return c.ramBank
	}
	return 0
}

func (c *Cart) ramAccessible() bool {
	if c.header.Mapper == MapperNone {
		return len(c.ram) > 0
	}
	return c.ramEnabled && len(c.ram) > 0
}

// ramOffset returns the index into c.ram for a $A000-$BFFF address, or -1 if
// the address does not reach RAM with the current bank selection.
func (c *Cart) ramOffset(addr uint16) int {
	switch c.header.Mapper {
	case MapperMBC2:
		// 512 half-bytes, repeated across the whole window
		return int(addr & 0x1ff)
	case MapperMBC3:
		// banks 0x08-0x0C select the real time clock registers, which are
		// not emulated
		if c.ramBank > 0x03 {
			return -1
		}
	}
	off := (c.currentRAMBank()%c.ramBanks)*ramBankSizeBytes + int(addr&0x1fff)
	return off % len(c.ram)
}

func (c *Cart) readRAM(addr uint16) uint8 {
	if !c.ramAccessible() {
		return unmapped
	}
	off := c.ramOffset(addr)
	if off < 0 {
		return unmapped
	}
	if c.header.Mapper == MapperMBC2 {
		return c.ram[off] | 0xf0
	}
	return c.ram[off]
}

func (c *Cart) writeRAM(addr uint16, data uint8) {
	if !c.ramAccessible() {
		return
	}
	off := c.ramOffset(addr)
	if off < 0 {
		return
	}
	if c.header.Mapper == MapperMBC2 {
		data &= 0x0f
	}
	c.ram[off] = data
}

func (c *Cart) writeControl(addr uint16, data uint8) {
	switch c.header.Mapper {
	case MapperNone:
		// no registers. writes to ROM are ignored

	case MapperMBC1:
		switch {
		case addr < 0x2000:
			c.ramEnabled = data&0x0f == 0x0a
		case addr < 0x4000:
			// BANK1: 5 bits, zero is treated as one before the bank count
			// is applied
			c.romBank = int(data & 0x1f)
			if c.romBank == 0 {
				c.romBank = 1
			}
		case addr < 0x6000:
			// BANK2: upper ROM bank bits or RAM bank
			c.ramBank = int(data & 0x03)
		default:
			c.mode = data & 0x01
		}

	case MapperMBC2:
		if addr >= 0x4000 {
			return
		}
		// bit 8 of the address selects between the two registers
		if addr&0x0100 == 0 {
			c.ramEnabled = data&0x0f == 0x0a
		} else {
			c.romBank = int(data & 0x0f)
			if c.romBank == 0 {
				c.romBank = 1
			}
		}

	case MapperMBC3:
		switch {
		case addr < 0x2000:
			c.ramEnabled = data&0x0f == 0x0a
		case addr < 0x4000:
			c.romBank = int(data & 0x7f)
			if c.romBank == 0 {
				c.romBank = 1
			}
		case addr < 0x6000:
			c.ramBank = int(data & 0x0f)
		default:
			// real time clock latch. not emulated
		}

	case MapperMBC5:
		switch {
		case addr < 0x2000:
			c.ramEnabled = data == 0x0a
		case addr < 0x3000:
			c.romBank = c.romBank&0x100 | int(data)
		case addr < 0x4000:
			c.romBank = c.romBank&0xff | int(data&0x01)<<8
		case addr < 0x6000:
			// bit 3 drives the rumble motor on rumble carts
			if c.header.Rumble {
				c.ramBank = int(data & 0x07)
			} else {
				c.ramBank = int(data & 0x0f)
			}
		}
	}
}
