package script_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevisdale/gbcore/internal/gb"
	"github.com/nevisdale/gbcore/internal/script"
)

func newBus(t *testing.T, program ...uint8) *gb.Bus {
	t.Helper()
	rom := make([]uint8, 0x8000)
	copy(rom[0x100:], program)
	cart, err := gb.LoadCart(rom)
	require.NoError(t, err)

	b, err := gb.NewBus(gb.Config{})
	require.NoError(t, err)
	b.LoadCart(cart)
	return b
}

func TestScript_Memory(t *testing.T) {
	out := &bytes.Buffer{}
	s := script.New(newBus(t), out)
	defer s.Close()

	err := s.DoString(`
		gb.write(0xc000, 0x42)
		print(gb.read(0xc000), gb.reg("pc"), gb.reg("af"))
	`)
	require.NoError(t, err)
	assert.Equal(t, "66\t256\t432\n", out.String())
}

func TestScript_Run(t *testing.T) {
	out := &bytes.Buffer{}
	// INC A; JR -3
	s := script.New(newBus(t, 0x3c, 0x18, 0xfd), out)
	defer s.Close()

	err := s.DoString(`
		print(gb.step())
		gb.run(160)
		print(gb.cycles() >= 164)
		gb.frame()
		print(gb.cycles() >= 70224)
	`)
	require.NoError(t, err)
	assert.Equal(t, "4\ntrue\ntrue\n", out.String())
}

func TestScript_Buttons(t *testing.T) {
	s := script.New(newBus(t), &bytes.Buffer{})
	defer s.Close()

	require.NoError(t, s.DoString(`
		gb.write(0xff00, 0x10)
		gb.press("start")
		assert_value = gb.read(0xff00)
	`))
	require.NoError(t, s.DoString(`if assert_value ~= 0xd7 then error("got " .. assert_value) end`))

	assert.Error(t, s.DoString(`gb.press("turbo")`))
}

func TestScript_Errors(t *testing.T) {
	s := script.New(newBus(t, 0xd3), &bytes.Buffer{})
	defer s.Close()

	err := s.DoString(`gb.step()`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unimplemented opcode")

	assert.Error(t, s.DoString(`gb.reg("x")`))
	assert.Error(t, s.DoString(`gb.read(0x10000)`))
	assert.Error(t, s.DoString(`gb.run(-1)`))
}

func TestScript_Disasm(t *testing.T) {
	out := &bytes.Buffer{}
	s := script.New(newBus(t, 0x00, 0xc3, 0x50, 0x01), out)
	defer s.Close()

	require.NoError(t, s.DoString(`print(gb.disasm(0x100, 2))`))
	assert.Equal(t, "0100  00        NOP\n0101  C3 50 01  JP $0150\n\n", out.String())
}

func TestScript_Cancel(t *testing.T) {
	s := script.New(newBus(t, 0x18, 0xfe), &bytes.Buffer{})
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s.SetContext(ctx)
	cancel()
	assert.Error(t, s.DoString(`while true do gb.step() end`))
}

func TestScript_MaxCycles(t *testing.T) {
	bus := newBus(t, 0x18, 0xfe) // JR -2
	s := script.New(bus, &bytes.Buffer{})
	defer s.Close()
	s.MaxCycles = 1000

	err := s.DoString(`gb.run(5000)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), script.ErrCycleLimit.Error())
	assert.GreaterOrEqual(t, bus.Cycles(), uint64(1000))
	assert.Less(t, bus.Cycles(), uint64(1000+12))

	// nothing runs past the limit afterwards
	err = s.DoString(`gb.step()`)
	require.Error(t, err)
	err = s.DoString(`gb.frame()`)
	require.Error(t, err)
	assert.Less(t, bus.Cycles(), uint64(1000+12))
}
