package gb

const (
	// ClockRate is the number of cycles per second.
	ClockRate = 4194304

	// CyclesPerFrame is the number of cycles in one video frame (154 lines of
	// 456 cycles).
	CyclesPerFrame = 70224
)

// Clock counts the cycles elapsed since power on. It is the only time source
// of the machine and is never wound back.
type Clock struct {
	cycles uint64
}

// Advance the clock by n cycles.
func (c *Clock) Advance(n int) {
	c.cycles += uint64(n)
}

// Cycles returns the number of cycles elapsed since power on.
func (c *Clock) Cycles() uint64 {
	return c.cycles
}

// Frames returns the number of whole frames elapsed since power on.
func (c *Clock) Frames() uint64 {
	return c.cycles / CyclesPerFrame
}
