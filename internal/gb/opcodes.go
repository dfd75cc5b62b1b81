package gb

import "fmt"

// instr describes an opcode for timing and disassembly. Execution is done by
// the switch in execute(); this table only says how long it takes.
type instr struct {
	name   string
	length uint8
	cycles uint8 // base cost, or the cost when a condition does not hold
	taken  uint8 // cost when a condition holds. zero for unconditional opcodes
}

func (in instr) defined() bool {
	return in.name != ""
}

var (
	regNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
	cbNames  = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}
)

// opcode -> instruction. opcodes with an empty name do not exist on the SM83
// (D3 DB DD E3 E4 EB EC ED F4 FC FD)
var instrs = buildInstrs()

// CB prefixed opcode -> instruction. the cycle counts include the prefix
var cbInstrs = buildCBInstrs()

func buildInstrs() [0x100]instr {
	t := [0x100]instr{
		0x00: {"NOP", 1, 4, 0},
		0x01: {"LD BC,d16", 3, 12, 0},
		0x02: {"LD (BC),A", 1, 8, 0},
		0x03: {"INC BC", 1, 8, 0},
		0x04: {"INC B", 1, 4, 0},
		0x05: {"DEC B", 1, 4, 0},
		0x06: {"LD B,d8", 2, 8, 0},
		0x07: {"RLCA", 1, 4, 0},
		0x08: {"LD (a16),SP", 3, 20, 0},
		0x09: {"ADD HL,BC", 1, 8, 0},
		0x0a: {"LD A,(BC)", 1, 8, 0},
		0x0b: {"DEC BC", 1, 8, 0},
		0x0c: {"INC C", 1, 4, 0},
		0x0d: {"DEC C", 1, 4, 0},
		0x0e: {"LD C,d8", 2, 8, 0},
		0x0f: {"RRCA", 1, 4, 0},

		0x10: {"STOP", 2, 4, 0},
		0x11: {"LD DE,d16", 3, 12, 0},
		0x12: {"LD (DE),A", 1, 8, 0},
		0x13: {"INC DE", 1, 8, 0},
		0x14: {"INC D", 1, 4, 0},
		0x15: {"DEC D", 1, 4, 0},
		0x16: {"LD D,d8", 2, 8, 0},
		0x17: {"RLA", 1, 4, 0},
		0x18: {"JR r8", 2, 12, 0},
		0x19: {"ADD HL,DE", 1, 8, 0},
		0x1a: {"LD A,(DE)", 1, 8, 0},
		0x1b: {"DEC DE", 1, 8, 0},
		0x1c: {"INC E", 1, 4, 0},
		0x1d: {"DEC E", 1, 4, 0},
		0x1e: {"LD E,d8", 2, 8, 0},
		0x1f: {"RRA", 1, 4, 0},

		0x20: {"JR NZ,r8", 2, 8, 12},
		0x21: {"LD HL,d16", 3, 12, 0},
		0x22: {"LD (HL+),A", 1, 8, 0},
		0x23: {"INC HL", 1, 8, 0},
		0x24: {"INC H", 1, 4, 0},
		0x25: {"DEC H", 1, 4, 0},
		0x26: {"LD H,d8", 2, 8, 0},
		0x27: {"DAA", 1, 4, 0},
		0x28: {"JR Z,r8", 2, 8, 12},
		0x29: {"ADD HL,HL", 1, 8, 0},
		0x2a: {"LD A,(HL+)", 1, 8, 0},
		0x2b: {"DEC HL", 1, 8, 0},
		0x2c: {"INC L", 1, 4, 0},
		0x2d: {"DEC L", 1, 4, 0},
		0x2e: {"LD L,d8", 2, 8, 0},
		0x2f: {"CPL", 1, 4, 0},

		0x30: {"JR NC,r8", 2, 8, 12},
		0x31: {"LD SP,d16", 3, 12, 0},
		0x32: {"LD (HL-),A", 1, 8, 0},
		0x33: {"INC SP", 1, 8, 0},
		0x34: {"INC (HL)", 1, 12, 0},
		0x35: {"DEC (HL)", 1, 12, 0},
		0x36: {"LD (HL),d8", 2, 12, 0},
		0x37: {"SCF", 1, 4, 0},
		0x38: {"JR C,r8", 2, 8, 12},
		0x39: {"ADD HL,SP", 1, 8, 0},
		0x3a: {"LD A,(HL-)", 1, 8, 0},
		0x3b: {"DEC SP", 1, 8, 0},
		0x3c: {"INC A", 1, 4, 0},
		0x3d: {"DEC A", 1, 4, 0},
		0x3e: {"LD A,d8", 2, 8, 0},
		0x3f: {"CCF", 1, 4, 0},

		0xc0: {"RET NZ", 1, 8, 20},
		0xc1: {"POP BC", 1, 12, 0},
		0xc2: {"JP NZ,a16", 3, 12, 16},
		0xc3: {"JP a16", 3, 16, 0},
		0xc4: {"CALL NZ,a16", 3, 12, 24},
		0xc5: {"PUSH BC", 1, 16, 0},
		0xc6: {"ADD A,d8", 2, 8, 0},
		0xc7: {"RST 00H", 1, 16, 0},
		0xc8: {"RET Z", 1, 8, 20},
		0xc9: {"RET", 1, 16, 0},
		0xca: {"JP Z,a16", 3, 12, 16},
		0xcb: {"PREFIX CB", 2, 8, 0},
		0xcc: {"CALL Z,a16", 3, 12, 24},
		0xcd: {"CALL a16", 3, 24, 0},
		0xce: {"ADC A,d8", 2, 8, 0},
		0xcf: {"RST 08H", 1, 16, 0},

		0xd0: {"RET NC", 1, 8, 20},
		0xd1: {"POP DE", 1, 12, 0},
		0xd2: {"JP NC,a16", 3, 12, 16},
		0xd4: {"CALL NC,a16", 3, 12, 24},
		0xd5: {"PUSH DE", 1, 16, 0},
		0xd6: {"SUB d8", 2, 8, 0},
		0xd7: {"RST 10H", 1, 16, 0},
		0xd8: {"RET C", 1, 8, 20},
		0xd9: {"RETI", 1, 16, 0},
		0xda: {"JP C,a16", 3, 12, 16},
		0xdc: {"CALL C,a16", 3, 12, 24},
		0xde: {"SBC A,d8", 2, 8, 0},
		0xdf: {"RST 18H", 1, 16, 0},

		0xe0: {"LDH (a8),A", 2, 12, 0},
		0xe1: {"POP HL", 1, 12, 0},
		0xe2: {"LD (C),A", 1, 8, 0},
		0xe5: {"PUSH HL", 1, 16, 0},
		0xe6: {"AND d8", 2, 8, 0},
		0xe7: {"RST 20H", 1, 16, 0},
		0xe8: {"ADD SP,r8", 2, 16, 0},
		0xe9: {"JP (HL)", 1, 4, 0},
		0xea: {"LD (a16),A", 3, 16, 0},
		0xee: {"XOR d8", 2, 8, 0},
		0xef: {"RST 28H", 1, 16, 0},

		0xf0: {"LDH A,(a8)", 2, 12, 0},
		0xf1: {"POP AF", 1, 12, 0},
		0xf2: {"LD A,(C)", 1, 8, 0},
		0xf3: {"DI", 1, 4, 0},
		0xf5: {"PUSH AF", 1, 16, 0},
		0xf6: {"OR d8", 2, 8, 0},
		0xf7: {"RST 30H", 1, 16, 0},
		0xf8: {"LD HL,SP+r8", 2, 12, 0},
		0xf9: {"LD SP,HL", 1, 8, 0},
		0xfa: {"LD A,(a16)", 3, 16, 0},
		0xfb: {"EI", 1, 4, 0},
		0xfe: {"CP d8", 2, 8, 0},
		0xff: {"RST 38H", 1, 16, 0},
	}

	// 0x40-0x7F: LD r,r'
	for op := 0x40; op < 0x80; op++ {
		dst, src := (op>>3)&7, op&7
		cycles := uint8(4)
		if dst == 6 || src == 6 {
			cycles = 8
		}
		t[op] = instr{fmt.Sprintf("LD %s,%s", regNames[dst], regNames[src]), 1, cycles, 0}
	}
	t[0x76] = instr{"HALT", 1, 4, 0}

	// 0x80-0xBF: 8-bit arithmetic and logic on A
	for op := 0x80; op < 0xc0; op++ {
		src := op & 7
		cycles := uint8(4)
		if src == 6 {
			cycles = 8
		}
		t[op] = instr{aluNames[(op>>3)&7] + regNames[src], 1, cycles, 0}
	}

	return t
}

func buildCBInstrs() [0x100]instr {
	var t [0x100]instr
	for op := 0; op < 0x100; op++ {
		r := op & 7
		bit := (op >> 3) & 7

		cycles := uint8(8)
		if r == 6 {
			cycles = 16
		}

		var name string
		switch op >> 6 {
		case 0:
			name = fmt.Sprintf("%s %s", cbNames[bit], regNames[r])
		case 1:
			name = fmt.Sprintf("BIT %d,%s", bit, regNames[r])
			if r == 6 {
				cycles = 12
			}
		case 2:
			name = fmt.Sprintf("RES %d,%s", bit, regNames[r])
		case 3:
			name = fmt.Sprintf("SET %d,%s", bit, regNames[r])
		}
		t[op] = instr{name, 2, cycles, 0}
	}
	return t
}
