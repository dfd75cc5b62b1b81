package gb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	headerStart = 0x0134
	headerEnd   = 0x0150

	romBankSizeBytes = 0x4000
	ramBankSizeBytes = 0x2000
	mbc2RAMSizeBytes = 0x200
)

// MapperKind selects the bank switching rules of a cartridge.
type MapperKind uint8

const (
	MapperNone MapperKind = iota
	MapperMBC1
	MapperMBC2
	MapperMBC3
	MapperMBC5
)

func (k MapperKind) String() string {
	switch k {
	case MapperNone:
		return "ROM"
	case MapperMBC1:
		return "MBC1"
	case MapperMBC2:
		return "MBC2"
	case MapperMBC3:
		return "MBC3"
	case MapperMBC5:
		return "MBC5"
	}
	return "???"
}

type cartType struct {
	name    string
	mapper  MapperKind
	battery bool
	rumble  bool
}

// cartridge type byte (0x0147) -> mapper. types not listed are not emulated
var cartTypes = map[uint8]cartType{
	0x00: {name: "ROM ONLY", mapper: MapperNone},
	0x01: {name: "MBC1", mapper: MapperMBC1},
	0x02: {name: "MBC1+RAM", mapper: MapperMBC1},
	0x03: {name: "MBC1+RAM+BATTERY", mapper: MapperMBC1, battery: true},
	0x05: {name: "MBC2", mapper: MapperMBC2},
	0x06: {name: "MBC2+BATTERY", mapper: MapperMBC2, battery: true},
	0x08: {name: "ROM+RAM", mapper: MapperNone},
	0x09: {name: "ROM+RAM+BATTERY", mapper: MapperNone, battery: true},
	0x0f: {name: "MBC3+TIMER+BATTERY", mapper: MapperMBC3, battery: true},
	0x10: {name: "MBC3+TIMER+RAM+BATTERY", mapper: MapperMBC3, battery: true},
	0x11: {name: "MBC3", mapper: MapperMBC3},
	0x12: {name: "MBC3+RAM", mapper: MapperMBC3},
	0x13: {name: "MBC3+RAM+BATTERY", mapper: MapperMBC3, battery: true},
	0x19: {name: "MBC5", mapper: MapperMBC5},
	0x1a: {name: "MBC5+RAM", mapper: MapperMBC5},
	0x1b: {name: "MBC5+RAM+BATTERY", mapper: MapperMBC5, battery: true},
	0x1c: {name: "MBC5+RUMBLE", mapper: MapperMBC5, rumble: true},
	0x1d: {name: "MBC5+RUMBLE+RAM", mapper: MapperMBC5, rumble: true},
	0x1e: {name: "MBC5+RUMBLE+RAM+BATTERY", mapper: MapperMBC5, rumble: true, battery: true},
}

// Header holds the fields of the cartridge header that the core needs, plus
// a few that are only informative.
type Header struct {
	Title    string
	Type     uint8 // raw cartridge type byte
	TypeName string
	Mapper   MapperKind
	Battery  bool
	Rumble   bool

	// number of 16KiB ROM banks
	ROMBanks int

	// number of 8KiB RAM banks and the total RAM size in bytes. RAMSize can be
	// smaller than a whole bank (2KiB carts) and for MBC2 is the 512 bytes
	// built into the mapper. If RAMSize is zero NewCart derives it from
	// RAMBanks.
	RAMBanks int
	RAMSize  int

	Checksum   uint8
	ChecksumOK bool
}

// ParseHeader reads the cartridge header of a ROM image.
func ParseHeader(rom []uint8) (Header, error) {
	if len(rom) < headerEnd {
		return Header{}, fmt.Errorf("%w: image is %d bytes", ErrInvalidHeader, len(rom))
	}

	var raw struct {
		Title          [16]uint8
		NewLicensee    [2]uint8
		SGB            uint8
		Type           uint8
		ROMSize        uint8
		RAMSize        uint8
		Destination    uint8
		OldLicensee    uint8
		Version        uint8
		HeaderChecksum uint8
		GlobalChecksum uint16
	}
	if err := binary.Read(bytes.NewReader(rom[headerStart:headerEnd]), binary.BigEndian, &raw); err != nil {
		return Header{}, fmt.Errorf("couldn't read the header: %w", err)
	}

	h := Header{
		Type:     raw.Type,
		Checksum: raw.HeaderChecksum,
	}

	// the last title byte is the CGB flag on later cartridges
	title := raw.Title[:]
	if title[15]&0x80 != 0 {
		title = title[:15]
	}
	if i := bytes.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}
	h.Title = strings.TrimSpace(string(title))

	ct, ok := cartTypes[raw.Type]
	if !ok {
		return Header{}, fmt.Errorf("%w: cartridge type %02X", ErrUnsupportedMapper, raw.Type)
	}
	h.TypeName = ct.name
	h.Mapper = ct.mapper
	h.Battery = ct.battery
	h.Rumble = ct.rumble

	switch {
	case raw.ROMSize <= 0x08:
		h.ROMBanks = 2 << raw.ROMSize
	case raw.ROMSize == 0x52:
		h.ROMBanks = 72
	case raw.ROMSize == 0x53:
		h.ROMBanks = 80
	case raw.ROMSize == 0x54:
		h.ROMBanks = 96
	default:
		return Header{}, fmt.Errorf("%w: ROM size code %02X", ErrInvalidHeader, raw.ROMSize)
	}

	switch raw.RAMSize {
	case 0x00:
	case 0x01:
		h.RAMBanks, h.RAMSize = 1, 0x800
	case 0x02:
		h.RAMBanks = 1
	case 0x03:
		h.RAMBanks = 4
	case 0x04:
		h.RAMBanks = 16
	case 0x05:
		h.RAMBanks = 8
	default:
		return Header{}, fmt.Errorf("%w: RAM size code %02X", ErrInvalidHeader, raw.RAMSize)
	}
	if h.RAMSize == 0 {
		h.RAMSize = h.RAMBanks * ramBankSizeBytes
	}
	if h.Mapper == MapperMBC2 {
		h.RAMBanks, h.RAMSize = 1, mbc2RAMSizeBytes
	}

	var sum uint8
	for _, b := range rom[headerStart:0x014d] {
		sum = sum - b - 1
	}
	h.ChecksumOK = sum == raw.HeaderChecksum

	return h, nil
}

func (h Header) String() string {
	return fmt.Sprintf("%q %s ROM %dKiB RAM %dB", h.Title, h.TypeName, h.ROMBanks*romBankSizeBytes/1024, h.RAMSize)
}
