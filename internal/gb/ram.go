package gb

const (
	wramSizeBytes = 0x2000
	hramSizeBytes = 0x7f
)

type RAM struct {
	ram []uint8
}

func NewRAM(size int) *RAM {
	return &RAM{ram: make([]uint8, size)}
}

func (r *RAM) Read8(addr uint16) uint8 {
	return r.ram[addr]
}

func (r *RAM) Write8(addr uint16, data uint8) {
	r.ram[addr] = data
}

func (r *RAM) Reset() {
	clear(r.ram)
}

func (r *RAM) clone() *RAM {
	c := &RAM{ram: make([]uint8, len(r.ram))}
	copy(c.ram, r.ram)
	return c
}
