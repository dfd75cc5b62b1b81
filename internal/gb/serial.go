package gb

import "io"

const (
	addrSB = 0xff01
	addrSC = 0xff02
)

const serialHistory = 0x10000

// Serial is the link port. There is never a partner on the other end of the
// cable: a transfer on the internal clock completes at once, the outgoing
// byte goes to the configured writer and SB reads back 0xFF as it would with
// no cable attached.
type Serial struct {
	irq interruptRequester
	out io.Writer

	sb uint8
	sc uint8

	sent []byte
}

func NewSerial(irq interruptRequester, out io.Writer) *Serial {
	return &Serial{irq: irq, out: out}
}

func (s *Serial) Reset() {
	s.sb = 0
	s.sc = 0
}

func (s *Serial) Read8(addr uint16) uint8 {
	switch addr {
	case addrSB:
		return s.sb
	case addrSC:
		return s.sc | 0x7e
	}
	return unmapped
}

func (s *Serial) Write8(addr uint16, data uint8) {
	switch addr {
	case addrSB:
		s.sb = data
	case addrSC:
		s.sc = data & 0x81
		if s.sc == 0x81 {
			s.transfer()
		}
	}
}

func (s *Serial) transfer() {
	if s.out != nil {
		_, _ = s.out.Write([]byte{s.sb})
	}
	s.sent = append(s.sent, s.sb)
	if len(s.sent) > serialHistory {
		s.sent = s.sent[len(s.sent)-serialHistory:]
	}
	s.sb = 0xff
	s.sc &^= 0x80
	s.irq.Request(IntSerial)
}

// Output returns a copy of the bytes sent so far (up to the most recent 64KiB).
func (s *Serial) Output() []byte {
	c := make([]byte, len(s.sent))
	copy(c, s.sent)
	return c
}

func (s *Serial) clone(irq interruptRequester) *Serial {
	n := *s
	n.irq = irq
	n.sent = make([]byte, len(s.sent))
	copy(n.sent, s.sent)
	return &n
}
