package gb

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeROM builds an image with a valid header. Every bank holds its own
// number at offsets 0x0000 and 0x3FFF of the bank (outside the header).
func makeROM(cartType, romSizeCode, ramSizeCode uint8) []uint8 {
	banks := 2 << romSizeCode
	rom := make([]uint8, banks*romBankSizeBytes)
	for b := 0; b < banks; b++ {
		rom[b*romBankSizeBytes] = uint8(b)
		rom[b*romBankSizeBytes+0x3fff] = uint8(b)
	}
	copy(rom[0x134:], "TESTCART")
	rom[0x147] = cartType
	rom[0x148] = romSizeCode
	rom[0x149] = ramSizeCode

	var sum uint8
	for _, b := range rom[0x134:0x14d] {
		sum = sum - b - 1
	}
	rom[0x14d] = sum
	return rom
}

func mustLoadCart(t *testing.T, rom []uint8) *Cart {
	t.Helper()
	c, err := LoadCart(rom)
	require.NoError(t, err)
	return c
}

func TestParseHeader(t *testing.T) {
	rom := makeROM(0x03, 0x02, 0x03)
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, "TESTCART", h.Title)
	assert.Equal(t, MapperMBC1, h.Mapper)
	assert.Equal(t, "MBC1+RAM+BATTERY", h.TypeName)
	assert.True(t, h.Battery)
	assert.Equal(t, 8, h.ROMBanks)
	assert.Equal(t, 4, h.RAMBanks)
	assert.Equal(t, 4*ramBankSizeBytes, h.RAMSize)
	assert.True(t, h.ChecksumOK)

	rom[0x14d]++
	h, err = ParseHeader(rom)
	require.NoError(t, err)
	assert.False(t, h.ChecksumOK)
}

func TestParseHeader_Errors(t *testing.T) {
	_, err := ParseHeader(make([]uint8, 0x100))
	assert.ErrorIs(t, err, ErrInvalidHeader)

	_, err = ParseHeader(makeROM(0x20, 0x00, 0x00))
	assert.ErrorIs(t, err, ErrUnsupportedMapper)

	rom := makeROM(0x00, 0x00, 0x00)
	rom[0x149] = 0x09
	_, err = ParseHeader(rom)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestNewCart_SizeMismatch(t *testing.T) {
	rom := makeROM(0x01, 0x02, 0x00)
	_, err := LoadCart(rom[:len(rom)-romBankSizeBytes])
	assert.ErrorIs(t, err, ErrCartridgeLoadMismatch)

	_, err = NewCart(make([]uint8, 3*romBankSizeBytes), Header{Mapper: MapperMBC1, ROMBanks: 4})
	assert.ErrorIs(t, err, ErrCartridgeLoadMismatch)
}

func TestLoadCartFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gb")
	require.NoError(t, os.WriteFile(path, makeROM(0x00, 0x00, 0x00), 0o644))
	c, err := LoadCartFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, MapperNone, c.Header().Mapper)

	_, err = LoadCartFromFile(filepath.Join(t.TempDir(), "missing.gb"))
	assert.Error(t, err)
}

func TestCart_ROMOnly(t *testing.T) {
	c := mustLoadCart(t, makeROM(0x00, 0x00, 0x00))
	assert.Equal(t, uint8(0), c.Read8(0x0000))
	assert.Equal(t, uint8(1), c.Read8(0x4000))

	// writes to ROM are ignored
	c.Write8(0x2000, 0x05)
	c.Write8(0x4000, 0x99)
	assert.Equal(t, uint8(1), c.Read8(0x4000))

	// no RAM
	c.Write8(0xa000, 0x12)
	assert.Equal(t, uint8(0xff), c.Read8(0xa000))
}

func TestCart_MBC1BankSelect(t *testing.T) {
	// 8 banks
	c := mustLoadCart(t, makeROM(0x01, 0x02, 0x00))

	for n := 0; n < 0x20; n++ {
		c.Write8(0x2000, uint8(n))
		want := n
		if want == 0 {
			want = 1
		}
		want %= 8
		assert.Equal(t, uint8(want), c.Read8(0x4000), "BANK1=%02X", n)
		assert.Equal(t, uint8(want), c.Read8(0x7fff), "BANK1=%02X", n)
		assert.Equal(t, want, c.ROMBank())
	}

	// only the low 5 bits are kept
	c.Write8(0x3fff, 0xe3)
	assert.Equal(t, uint8(3), c.Read8(0x4000))
}

func TestCart_MBC1Mode1(t *testing.T) {
	// 64 banks, 4 RAM banks
	c := mustLoadCart(t, makeROM(0x03, 0x05, 0x03))

	c.Write8(0x4000, 0x01) // BANK2
	c.Write8(0x2000, 0x02) // BANK1
	assert.Equal(t, uint8(0x22), c.Read8(0x4000))
	assert.Equal(t, uint8(0x00), c.Read8(0x0000), "mode 0 keeps bank 0 low")

	c.Write8(0x6000, 0x01)
	assert.Equal(t, uint8(0x20), c.Read8(0x0000), "mode 1 maps BANK2<<5 low")

	// mode 1 also banks RAM
	c.Write8(0x0000, 0x0a)
	c.Write8(0xa000, 0x11)
	c.Write8(0x4000, 0x00)
	assert.Equal(t, uint8(0x00), c.Read8(0xa000))
	c.Write8(0x4000, 0x01)
	assert.Equal(t, uint8(0x11), c.Read8(0xa000))

	c.Write8(0x6000, 0x00)
	assert.Equal(t, 0, c.RAMBank())
}

func TestCart_RAMEnable(t *testing.T) {
	c := mustLoadCart(t, makeROM(0x03, 0x00, 0x02))

	// disabled at power on
	c.Write8(0xa000, 0x42)
	assert.Equal(t, uint8(0xff), c.Read8(0xa000))
	assert.Equal(t, uint8(0x00), c.RAM()[0])

	// any value with 0xA in the low nibble enables MBC1 RAM
	c.Write8(0x0000, 0x3a)
	assert.True(t, c.RAMEnabled())
	c.Write8(0xa000, 0x42)
	assert.Equal(t, uint8(0x42), c.Read8(0xa000))

	c.Write8(0x1fff, 0x00)
	assert.False(t, c.RAMEnabled())
	assert.Equal(t, uint8(0xff), c.Read8(0xa000))
	assert.Equal(t, uint8(0x42), c.RAM()[0], "disabling keeps the contents")
}

func TestCart_MBC2(t *testing.T) {
	c := mustLoadCart(t, makeROM(0x06, 0x03, 0x00))
	assert.Len(t, c.RAM(), mbc2RAMSizeBytes)

	// address bit 8 set: ROM bank
	c.Write8(0x2100, 0x05)
	assert.Equal(t, uint8(5), c.Read8(0x4000))
	c.Write8(0x2100, 0x00)
	assert.Equal(t, uint8(1), c.Read8(0x4000))

	// address bit 8 clear: RAM enable
	c.Write8(0x0000, 0x0a)
	c.Write8(0xa000, 0xab)
	assert.Equal(t, uint8(0xfb), c.Read8(0xa000), "upper nibble reads as ones")
	assert.Equal(t, uint8(0xfb), c.Read8(0xa200), "512 bytes repeat across the window")
}

func TestCart_MBC3(t *testing.T) {
	// 128 banks, 4 RAM banks
	c := mustLoadCart(t, makeROM(0x13, 0x06, 0x03))

	c.Write8(0x2000, 0x7f)
	assert.Equal(t, uint8(0x7f), c.Read8(0x4000))
	c.Write8(0x2000, 0x00)
	assert.Equal(t, uint8(0x01), c.Read8(0x4000))

	c.Write8(0x0000, 0x0a)
	for bank := uint8(0); bank < 4; bank++ {
		c.Write8(0x4000, bank)
		c.Write8(0xa010, 0x10+bank)
	}
	for bank := uint8(0); bank < 4; bank++ {
		c.Write8(0x4000, bank)
		assert.Equal(t, 0x10+bank, c.Read8(0xa010))
	}

	// real time clock registers are not emulated
	c.Write8(0x4000, 0x08)
	assert.Equal(t, uint8(0xff), c.Read8(0xa010))
	c.Write8(0xa010, 0x00)
	c.Write8(0x4000, 0x03)
	assert.Equal(t, uint8(0x13), c.Read8(0xa010))
}

func TestCart_MBC5(t *testing.T) {
	// 512 banks
	c := mustLoadCart(t, makeROM(0x1b, 0x08, 0x04))

	// bank 0 is a valid selection
	c.Write8(0x2000, 0x00)
	assert.Equal(t, 0, c.ROMBank())
	assert.Equal(t, uint8(0), c.Read8(0x4000))

	c.Write8(0x2000, 0x34)
	c.Write8(0x3000, 0x01)
	assert.Equal(t, 0x134, c.ROMBank())
	assert.Equal(t, uint8(0x34), c.Read8(0x4000))

	// only exactly 0x0A enables RAM
	c.Write8(0x0000, 0x1a)
	assert.False(t, c.RAMEnabled())
	c.Write8(0x0000, 0x0a)
	assert.True(t, c.RAMEnabled())

	c.Write8(0x4000, 0x0f)
	assert.Equal(t, 15, c.RAMBank())
}

func TestCart_MBC5Rumble(t *testing.T) {
	c := mustLoadCart(t, makeROM(0x1e, 0x01, 0x03))
	c.Write8(0x4000, 0x0b)
	assert.Equal(t, 3, c.RAMBank(), "bit 3 drives the motor")
}

func TestCart_BankWrap(t *testing.T) {
	tests := []struct {
		cartType uint8
		romCode  uint8
		bank     uint8
	}{
		{0x01, 0x00, 0x1f},
		{0x01, 0x01, 0x06},
		{0x11, 0x02, 0x7f},
		{0x19, 0x03, 0xff},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("type %02X bank %02X", tt.cartType, tt.bank), func(t *testing.T) {
			c := mustLoadCart(t, makeROM(tt.cartType, tt.romCode, 0x00))
			banks := 2 << tt.romCode
			c.Write8(0x2000, tt.bank)
			assert.Equal(t, uint8(int(tt.bank)%banks), c.Read8(0x4000))
		})
	}
}

func TestCart_RestoreRAM(t *testing.T) {
	c := mustLoadCart(t, makeROM(0x03, 0x00, 0x02))
	save := make([]uint8, ramBankSizeBytes)
	save[0x10] = 0x99
	require.NoError(t, c.RestoreRAM(save))

	c.Write8(0x0000, 0x0a)
	assert.Equal(t, uint8(0x99), c.Read8(0xa010))
	assert.Equal(t, save, c.RAM())
	assert.True(t, c.Battery())

	assert.Error(t, c.RestoreRAM(make([]uint8, 10)))
}
