package gb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/exp/maps"
)

// Test_CPU_SingleStepTest runs the SM83 single step tests
// (https://github.com/SingleStepTests/sm83). Each file holds thousands of
// runs of one opcode with the state before and after.
func Test_CPU_SingleStepTest(t *testing.T) {
	t.Parallel()

	type cpuState struct {
		PC  uint16 `json:"pc"`
		SP  uint16 `json:"sp"`
		A   uint8  `json:"a"`
		B   uint8  `json:"b"`
		C   uint8  `json:"c"`
		D   uint8  `json:"d"`
		E   uint8  `json:"e"`
		F   uint8  `json:"f"`
		H   uint8  `json:"h"`
		L   uint8  `json:"l"`
		IME uint8  `json:"ime"`
		IE  uint8  `json:"ie"`

		// slice of elements where
		// element[0] is address
		// element[1] is value
		RAM [][]uint16 `json:"ram"`
	}

	type testInstance struct {
		Name    string   `json:"name"`
		Initial cpuState `json:"initial"`
		Final   cpuState `json:"final"`

		// one element per machine cycle
		Cycles []any `json:"cycles"`
	}

	dir := os.Getenv("SM83_TEST_DIR")
	if dir == "" {
		t.Skip("skipping test because SM83_TEST_DIR is not set")
		return
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	mem := &flatMem{}
	doTest := func(t *testing.T, test testInstance) {
		*mem = flatMem{}
		for _, addrVal := range test.Initial.RAM {
			mem.Write8(addrVal[0], uint8(addrVal[1]))
		}

		ints := &InterruptController{}
		ints.SetIE(test.Initial.IE)
		ints.SetMasterEnable(test.Initial.IME != 0)
		cpu := NewCPU(mem, ints, &Clock{})
		cpu.SetRegisters(Registers{
			A: test.Initial.A, F: test.Initial.F,
			B: test.Initial.B, C: test.Initial.C,
			D: test.Initial.D, E: test.Initial.E,
			H: test.Initial.H, L: test.Initial.L,
			SP: test.Initial.SP,
			PC: test.Initial.PC,
		})

		cycles, err := cpu.Step()
		if err != nil {
			t.Fatalf("%s: %v", test.Name, err)
		}

		want := Registers{
			A: test.Final.A, F: test.Final.F,
			B: test.Final.B, C: test.Final.C,
			D: test.Final.D, E: test.Final.E,
			H: test.Final.H, L: test.Final.L,
			SP: test.Final.SP,
			PC: test.Final.PC,
		}
		if got := cpu.Registers(); got != want {
			t.Fatalf("%s: expected %s, got %s", test.Name, want, got)
		}
		if cycles != len(test.Cycles)*4 {
			t.Fatalf("%s: expected %d cycles, got %d", test.Name, len(test.Cycles)*4, cycles)
		}
		for _, addrVal := range test.Final.RAM {
			addr := addrVal[0]
			data := uint8(addrVal[1])
			if mem[addr] != data {
				t.Fatalf("%s: expected %02X at address %04X, got %02X", test.Name, data, addr, mem[addr])
			}
		}
	}

	// STOP writes DIV through memory, which the test data does not expect
	skip := map[string]bool{"10": true}

	failed := make(map[string]int)
	var tests []testInstance
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file.Name()), ".json")
		opcodeStr := strings.TrimPrefix(name, "cb ")
		if _, err := strconv.ParseUint(opcodeStr, 16, 8); err != nil {
			t.Fatalf("failed to parse opcode from file name %s: %v", file.Name(), err)
		}

		fileData, err := os.ReadFile(filepath.Join(dir, file.Name()))
		if err != nil {
			t.Fatalf("failed to read file %s: %v", file.Name(), err)
		}

		tests = tests[:0]
		err = json.Unmarshal(fileData, &tests)
		if err != nil {
			t.Fatalf("failed to unmarshal file %s: %v", file.Name(), err)
		}

		ok := t.Run(name, func(t *testing.T) {
			if skip[name] {
				t.Skipf("skipping test for opcode %s", name)
				return
			}
			for _, test := range tests {
				doTest(t, test)
			}
		})
		if !ok {
			failed[name]++
		}
	}

	if len(failed) > 0 {
		names := maps.Keys(failed)
		slices.Sort(names)
		t.Logf("failing opcodes: %s", strings.Join(names, ", "))
	}
}
