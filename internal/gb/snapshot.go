package gb

// Snapshot returns a deep copy of the machine. The copy shares nothing with
// b except the cartridge ROM, the boot ROM, the serial writer and any
// attached unit that does not implement Cloner.
func (b *Bus) Snapshot() *Bus {
	n := &Bus{
		cfg:   b.cfg,
		clock: &Clock{cycles: b.clock.cycles},
	}
	ints := *b.ints
	n.ints = &ints
	n.timer = b.timer.clone(n.ints)
	n.joypad = b.joypad.clone(n.ints)
	n.serial = b.serial.clone(n.ints)
	if b.cart != nil {
		n.cart = b.cart.clone()
	}

	mem := *b.mem
	mem.cart = n.cart
	mem.wram = b.mem.wram.clone()
	mem.hram = b.mem.hram.clone()
	mem.video = cloneUnit(b.mem.video)
	mem.audio = cloneUnit(b.mem.audio)
	mem.timer = n.timer
	mem.ints = n.ints
	mem.joypad = n.joypad
	mem.serial = n.serial
	n.mem = &mem

	n.cpu = b.cpu.clone(n.mem, n.ints, n.clock)
	return n
}

// Restore the machine to the state held by a snapshot. The snapshot is left
// untouched and can be restored again.
func (b *Bus) Restore(s *Bus) {
	*b = *s.Snapshot()
}

func cloneUnit(rw ReadWriter) ReadWriter {
	if c, ok := rw.(Cloner); ok {
		return c.Clone()
	}
	return rw
}
