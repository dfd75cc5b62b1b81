package gb

import (
	"fmt"
	"os"

	"github.com/nevisdale/gbcore/internal/logger"
)

// Cart is a cartridge: ROM, optional external RAM and the bank switching
// state of its mapper.
type Cart struct {
	header Header

	rom      []uint8 // never written after NewCart
	ram      []uint8
	romBanks int
	ramBanks int

	ramEnabled bool
	romBank    int
	ramBank    int
	mode       uint8 // MBC1 banking mode
}

// NewCart builds a cartridge from a ROM image and header fields. The image
// size must equal the number of ROM banks the header declares. The image is
// copied.
func NewCart(rom []uint8, h Header) (*Cart, error) {
	switch h.Mapper {
	case MapperNone, MapperMBC1, MapperMBC2, MapperMBC3, MapperMBC5:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMapper, h.Mapper)
	}

	if h.ROMBanks <= 0 || len(rom) != h.ROMBanks*romBankSizeBytes {
		return nil, fmt.Errorf("%w: header declares %d ROM banks (%d bytes), image is %d bytes",
			ErrCartridgeLoadMismatch, h.ROMBanks, h.ROMBanks*romBankSizeBytes, len(rom))
	}

	if h.Mapper == MapperMBC2 {
		h.RAMBanks, h.RAMSize = 1, mbc2RAMSizeBytes
	}
	if h.RAMSize == 0 {
		h.RAMSize = h.RAMBanks * ramBankSizeBytes
	}
	if h.RAMSize > 0 && h.RAMBanks == 0 {
		h.RAMBanks = (h.RAMSize + ramBankSizeBytes - 1) / ramBankSizeBytes
	}

	c := &Cart{
		header:   h,
		rom:      make([]uint8, len(rom)),
		ram:      make([]uint8, h.RAMSize),
		romBanks: h.ROMBanks,
		ramBanks: h.RAMBanks,
	}
	copy(c.rom, rom)
	c.Reset()
	return c, nil
}

// LoadCart parses the header of a ROM image and builds the cartridge it
// describes.
func LoadCart(rom []uint8) (*Cart, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	if !h.ChecksumOK {
		logger.Logf("cart", "header checksum mismatch (header says %02X)", h.Checksum)
	}
	c, err := NewCart(rom, h)
	if err != nil {
		return nil, err
	}
	logger.Logf("cart", "loaded %s", h)
	return c, nil
}

// LoadCartFromFile reads a ROM image from a file.
func LoadCartFromFile(path string) (*Cart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the cartridge: %w", err)
	}
	c, err := LoadCart(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Header returns the header the cartridge was built from.
func (c *Cart) Header() Header {
	return c.header
}

// Battery is true if the external RAM is battery backed and worth saving.
func (c *Cart) Battery() bool {
	return c.header.Battery && len(c.ram) > 0
}

// Reset the bank switching state. RAM contents are kept.
func (c *Cart) Reset() {
	c.ramEnabled = false
	c.romBank = 1
	c.ramBank = 0
	c.mode = 0
}

// RAM returns a copy of the external RAM.
func (c *Cart) RAM() []uint8 {
	r := make([]uint8, len(c.ram))
	copy(r, c.ram)
	return r
}

// RestoreRAM replaces the external RAM with data. The bank switching state
// is left as it is.
func (c *Cart) RestoreRAM(data []uint8) error {
	if len(data) != len(c.ram) {
		return fmt.Errorf("cartridge RAM is %d bytes, restore data is %d bytes", len(c.ram), len(data))
	}
	copy(c.ram, data)
	return nil
}

// ROMBank returns the bank currently mapped at 0x4000-0x7FFF.
func (c *Cart) ROMBank() int {
	return c.highBank() % c.romBanks
}

// RAMBank returns the bank currently mapped at 0xA000-0xBFFF.
func (c *Cart) RAMBank() int {
	if c.ramBanks == 0 {
		return 0
	}
	return c.currentRAMBank() % c.ramBanks
}

// RAMEnabled returns the state of the RAM enable latch.
func (c *Cart) RAMEnabled() bool {
	return c.ramAccessible()
}

func (c *Cart) clone() *Cart {
	n := *c
	n.ram = make([]uint8, len(c.ram))
	copy(n.ram, c.ram)
	return &n
}
