package gb

// unmapped is the value read from any address nothing answers to
const unmapped = 0xff

const (
	addrIF          = 0xff0f
	addrBootDisable = 0xff50
	addrIE          = 0xffff
)

// Memory routes the 16-bit address space. Every address has exactly one
// owner:
//
// $0000-$3FFF: cartridge ROM bank 0 ($0000-$00FF: boot ROM while enabled)
// $4000-$7FFF: cartridge switchable ROM bank
// $8000-$9FFF: video RAM (video unit)
// $A000-$BFFF: cartridge RAM
// $C000-$DFFF: work RAM
// $E000-$FDFF: echo of $C000-$DDFF
// $FE00-$FE9F: object attribute memory (video unit)
// $FEA0-$FEFF: unusable
// $FF00:       joypad
// $FF01-$FF02: serial
// $FF04-$FF07: timer
// $FF0F:       interrupt request flags
// $FF10-$FF3F: audio unit
// $FF40-$FF4B: video unit registers ($FF46 OAM DMA is handled here)
// $FF50:       boot ROM disable
// $FF80-$FFFE: high RAM
// $FFFF:       interrupt enable
//
// Any other address in $FF00-$FF7F is unmapped.
type Memory struct {
	cart   *Cart
	wram   *RAM
	hram   *RAM
	video  ReadWriter
	audio  ReadWriter
	timer  *Timer
	ints   *InterruptController
	joypad *Joypad
	serial *Serial

	boot        []uint8
	bootEnabled bool
	dma         uint8
}

func (m *Memory) Reset() {
	m.wram.Reset()
	m.hram.Reset()
	m.bootEnabled = len(m.boot) == bootROMSize
	m.dma = 0xff
}

func (m *Memory) Read8(addr uint16) uint8 {
	switch {
	// read from boot rom
	case addr < bootROMSize && m.bootEnabled:
		return m.boot[addr]
	// read from cartridge rom
	case addr < 0x8000:
		if m.cart == nil {
			return unmapped
		}
		return m.cart.Read8(addr)
	// read from video ram
	case addr < 0xa000:
		return m.video.Read8(addr)
	// read from cartridge ram
	case addr < 0xc000:
		if m.cart == nil {
			return unmapped
		}
		return m.cart.Read8(addr)
	// read from work ram
	case addr < 0xe000:
		return m.wram.Read8(addr - 0xc000)
	// read from echo ram
	case addr < 0xfe00:
		return m.wram.Read8(addr - 0xe000)
	// read from oam
	case addr < 0xfea0:
		return m.video.Read8(addr)
	// unusable
	case addr < 0xff00:
		return unmapped
	// read from io registers
	case addr < 0xff80:
		return m.readIO(addr)
	// read from high ram
	case addr < addrIE:
		return m.hram.Read8(addr - 0xff80)
	}
	return m.ints.IE()
}

func (m *Memory) Write8(addr uint16, data uint8) {
	switch {
	// write to cartridge mapper registers
	case addr < 0x8000:
		if m.cart != nil {
			m.cart.Write8(addr, data)
		}
	// write to video ram
	case addr < 0xa000:
		m.video.Write8(addr, data)
	// write to cartridge ram
	case addr < 0xc000:
		if m.cart != nil {
			m.cart.Write8(addr, data)
		}
	// write to work ram
	case addr < 0xe000:
		m.wram.Write8(addr-0xc000, data)
	// write to echo ram
	case addr < 0xfe00:
		m.wram.Write8(addr-0xe000, data)
	// write to oam
	case addr < 0xfea0:
		m.video.Write8(addr, data)
	// unusable
	case addr < 0xff00:
	// write to io registers
	case addr < 0xff80:
		m.writeIO(addr, data)
	// write to high ram
	case addr < addrIE:
		m.hram.Write8(addr-0xff80, data)
	default:
		m.ints.SetIE(data)
	}
}

func (m *Memory) readIO(addr uint16) uint8 {
	switch {
	case addr == addrP1:
		return m.joypad.Read8()
	case addr == addrSB || addr == addrSC:
		return m.serial.Read8(addr)
	case addr >= addrDIV && addr <= addrTAC:
		return m.timer.Read8(addr)
	case addr == addrIF:
		return m.ints.IF()
	case addr >= 0xff10 && addr < 0xff40:
		return m.audio.Read8(addr)
	case addr == addrDMA:
		return m.dma
	case addr >= 0xff40 && addr < 0xff4c:
		return m.video.Read8(addr)
	case addr == addrBootDisable:
		if m.bootEnabled {
			return 0xfe
		}
		return unmapped
	}
	return unmapped
}

func (m *Memory) writeIO(addr uint16, data uint8) {
	switch {
	case addr == addrP1:
		m.joypad.Write8(data)
	case addr == addrSB || addr == addrSC:
		m.serial.Write8(addr, data)
	case addr >= addrDIV && addr <= addrTAC:
		m.timer.Write8(addr, data)
	case addr == addrIF:
		m.ints.SetIF(data)
	case addr >= 0xff10 && addr < 0xff40:
		m.audio.Write8(addr, data)
	case addr == addrDMA:
		m.oamDMA(data)
	case addr >= 0xff40 && addr < 0xff4c:
		m.video.Write8(addr, data)
	case addr == addrBootDisable:
		// the boot rom cannot be mapped back in
		if data != 0 {
			m.bootEnabled = false
		}
	}
}

// oamDMA copies 160 bytes from page src into OAM. The transfer is completed
// at once rather than over 160 machine cycles.
func (m *Memory) oamDMA(src uint8) {
	m.dma = src
	base := uint16(src) << 8
	for i := uint16(0); i < oamSizeBytes; i++ {
		m.video.Write8(0xfe00+i, m.Read8(base+i))
	}
}
