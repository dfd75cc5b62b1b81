package gb

// ReadWriter is implemented by the collaborators that own part of the address
// space without being part of the core: the video unit (VRAM, OAM and the LCD
// registers) and the audio unit (sound registers and wave RAM). Addresses are
// passed through unchanged.
type ReadWriter interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, data uint8)
}

// Cloner is implemented by collaborators whose state should be copied when
// the machine is snapshotted. Collaborators that do not implement it are
// shared between the machine and its snapshot.
type Cloner interface {
	Clone() ReadWriter
}

const (
	addrLY  = 0xff44
	addrDMA = 0xff46

	vramSizeBytes = 0x2000
	oamSizeBytes  = 0xa0
)

// videoStub stands in for the video unit. It stores VRAM, OAM and the LCD
// registers as plain bytes. With nothing drawing lines LY is held at 144, the
// first line of vertical blank, so that programs waiting for it carry on.
type videoStub struct {
	vram [vramSizeBytes]uint8
	oam  [oamSizeBytes]uint8
	regs [0x0c]uint8
}

func newVideoStub() *videoStub {
	v := &videoStub{}
	v.regs[0x0] = 0x91 // LCDC
	v.regs[0x1] = 0x85 // STAT
	v.regs[0x7] = 0xfc // BGP
	return v
}

func (v *videoStub) Read8(addr uint16) uint8 {
	switch {
	case addr >= 0x8000 && addr < 0xa000:
		return v.vram[addr-0x8000]
	case addr >= 0xfe00 && addr < 0xfea0:
		return v.oam[addr-0xfe00]
	case addr == addrLY:
		return 0x90
	case addr >= 0xff40 && addr < 0xff4c:
		return v.regs[addr-0xff40]
	}
	return unmapped
}

func (v *videoStub) Write8(addr uint16, data uint8) {
	switch {
	case addr >= 0x8000 && addr < 0xa000:
		v.vram[addr-0x8000] = data
	case addr >= 0xfe00 && addr < 0xfea0:
		v.oam[addr-0xfe00] = data
	case addr == addrLY:
	case addr >= 0xff40 && addr < 0xff4c:
		v.regs[addr-0xff40] = data
	}
}

func (v *videoStub) Clone() ReadWriter {
	c := *v
	return &c
}

// audioStub stands in for the audio unit: 0xFF10-0xFF3F as plain bytes.
type audioStub struct {
	regs [0x30]uint8
}

func (a *audioStub) Read8(addr uint16) uint8 {
	if addr >= 0xff10 && addr < 0xff40 {
		return a.regs[addr-0xff10]
	}
	return unmapped
}

func (a *audioStub) Write8(addr uint16, data uint8) {
	if addr >= 0xff10 && addr < 0xff40 {
		a.regs[addr-0xff10] = data
	}
}

func (a *audioStub) Clone() ReadWriter {
	c := *a
	return &c
}
