package gb

import (
	"fmt"
	"strings"
)

// Instruction is a disassembled instruction.
type Instruction struct {
	Addr  uint16
	Bytes []uint8
	Text  string
}

func (i Instruction) String() string {
	var raw strings.Builder
	for _, b := range i.Bytes {
		fmt.Fprintf(&raw, "%02X ", b)
	}
	return fmt.Sprintf("%04X  %-9s %s", i.Addr, raw.String(), i.Text)
}

// Disassemble decodes count instructions starting at addr.
func (c *CPU) Disassemble(addr uint16, count int) []Instruction {
	out := make([]Instruction, 0, count)
	for j := 0; j < count; j++ {
		text, n := disassemble(c.mem, addr)
		ins := Instruction{Addr: addr, Text: text}
		for i := 0; i < n; i++ {
			ins.Bytes = append(ins.Bytes, c.mem.Read8(addr+uint16(i)))
		}
		out = append(out, ins)
		addr += uint16(n)
	}
	return out
}

// disassemble returns the text of the instruction at addr and its length in
// bytes. Reading memory has no side effects so this is safe at any time.
func disassemble(mem ReadWriter, addr uint16) (string, int) {
	op := mem.Read8(addr)
	in := instrs[op]
	if !in.defined() {
		return fmt.Sprintf("DB $%02X", op), 1
	}
	if op == 0xcb {
		return cbInstrs[mem.Read8(addr+1)].name, 2
	}

	text := in.name
	switch in.length {
	case 2:
		v := mem.Read8(addr + 1)
		switch {
		case strings.Contains(text, "d8"):
			text = strings.Replace(text, "d8", fmt.Sprintf("$%02X", v), 1)
		case strings.Contains(text, "a8"):
			text = strings.Replace(text, "(a8)", fmt.Sprintf("($FF%02X)", v), 1)
		case strings.HasPrefix(text, "JR"):
			target := addr + 2 + uint16(int8(v))
			text = strings.Replace(text, "r8", fmt.Sprintf("$%04X", target), 1)
		case strings.Contains(text, "+r8"):
			text = strings.Replace(text, "+r8", fmt.Sprintf("%+d", int8(v)), 1)
		case strings.Contains(text, "r8"):
			text = strings.Replace(text, "r8", fmt.Sprintf("%d", int8(v)), 1)
		}
	case 3:
		v := uint16(mem.Read8(addr+1)) | uint16(mem.Read8(addr+2))<<8
		text = strings.Replace(text, "d16", fmt.Sprintf("$%04X", v), 1)
		text = strings.Replace(text, "a16", fmt.Sprintf("$%04X", v), 1)
	}
	return text, int(in.length)
}
