package gb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoopBus(t *testing.T) *Bus {
	return newTestBus(t, romWithProgram(0x00, 0x00, map[uint16][]uint8{
		0x100: {0x18, 0xfe}, // JR -2
	}))
}

func TestRunner_MaxCycles(t *testing.T) {
	b := newLoopBus(t)
	r := NewRunner(b)
	r.MaxCycles = 100000
	require.NoError(t, r.Run(context.Background()))
	assert.GreaterOrEqual(t, b.Cycles(), uint64(100000))
	assert.Less(t, b.Cycles(), uint64(100000+24))

	// the runner has stopped
	err := r.Do(context.Background(), func(*Bus) {})
	assert.ErrorIs(t, err, ErrRunnerStopped)
}

func TestRunner_Cancel(t *testing.T) {
	r := NewRunner(newLoopBus(t))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- r.Run(ctx)
	}()

	require.NoError(t, r.Do(ctx, func(*Bus) {}))
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunner_PauseResume(t *testing.T) {
	r := NewRunner(newLoopBus(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()

	require.NoError(t, r.Pause(ctx))
	paused, err := r.Paused(ctx)
	require.NoError(t, err)
	assert.True(t, paused)

	var before, after uint64
	require.NoError(t, r.Do(ctx, func(b *Bus) { before = b.Cycles() }))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, r.Do(ctx, func(b *Bus) { after = b.Cycles() }))
	assert.Equal(t, before, after, "paused machine does not advance")

	// functions still run while paused
	require.NoError(t, r.Do(ctx, func(b *Bus) { b.Write8(0xc000, 0x12) }))

	require.NoError(t, r.Resume(ctx))
	require.Eventually(t, func() bool {
		var now uint64
		if err := r.Do(ctx, func(b *Bus) { now = b.Cycles() }); err != nil {
			return false
		}
		return now > after
	}, 5*time.Second, time.Millisecond)

	var v uint8
	require.NoError(t, r.Do(ctx, func(b *Bus) { v = b.Read8(0xc000) }))
	assert.Equal(t, uint8(0x12), v)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRunner_Fault(t *testing.T) {
	b := newTestBus(t, romWithProgram(0x00, 0x00, map[uint16][]uint8{
		0x100: {0x00, 0x00, 0xfd},
	}))
	r := NewRunner(b)
	err := r.Run(context.Background())
	assert.ErrorIs(t, err, ErrUnimplementedOpcode)
	assert.Equal(t, uint16(0x0102), b.Registers().PC)
}
