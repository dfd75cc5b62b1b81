package gb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterruptController_HighestPending(t *testing.T) {
	ic := &InterruptController{}
	_, ok := ic.HighestPending()
	assert.False(t, ok)

	ic.SetIE(interruptMask)
	for i := len(InterruptSources) - 1; i >= 0; i-- {
		ic.Request(InterruptSources[i])
		src, ok := ic.HighestPending()
		assert.True(t, ok)
		assert.Equal(t, InterruptSources[i], src, "lower bit wins")
	}

	// a disabled source is never pending
	ic.SetIE(uint8(IntSerial | IntJoypad))
	src, ok := ic.HighestPending()
	assert.True(t, ok)
	assert.Equal(t, IntSerial, src)
}

func TestInterruptController_Acknowledge(t *testing.T) {
	ic := &InterruptController{}
	ic.Request(IntVBlank)
	ic.Request(IntTimer)
	ic.Acknowledge(IntVBlank)
	assert.False(t, ic.Requested(IntVBlank))
	assert.True(t, ic.Requested(IntTimer))
	assert.False(t, ic.Pending(), "nothing enabled")

	ic.SetIE(uint8(IntTimer))
	assert.True(t, ic.Pending())
}

func TestInterruptController_Registers(t *testing.T) {
	ic := &InterruptController{}
	assert.Equal(t, uint8(0xe0), ic.IF())

	ic.SetIF(0xff)
	assert.Equal(t, uint8(0xff), ic.IF())
	for _, src := range InterruptSources {
		assert.True(t, ic.Requested(src))
	}

	ic.SetIE(0xff)
	assert.Equal(t, uint8(0xff), ic.IE())

	ic.SetMasterEnable(true)
	ic.Reset()
	assert.False(t, ic.MasterEnabled())
	assert.Equal(t, uint8(0), ic.IE())
	assert.Equal(t, uint8(0xe0), ic.IF())
}

func TestInterrupt_Vector(t *testing.T) {
	want := []uint16{0x40, 0x48, 0x50, 0x58, 0x60}
	for i, src := range InterruptSources {
		assert.Equal(t, want[i], src.Vector(), src.String())
	}
	assert.Equal(t, "Timer", IntTimer.String())
	assert.Panics(t, func() { Interrupt(0x80).Vector() })
}
