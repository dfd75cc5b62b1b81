// Package script drives the machine from Lua. A script sees a single global
// table, gb, with functions to step and run the machine, peek and poke
// memory, read registers and press buttons:
//
//	gb.step()            execute one step, returns the cycles taken
//	gb.run(n)            run for at least n cycles
//	gb.frame()           run to the end of the current frame
//	gb.read(addr)        read a byte
//	gb.write(addr, v)    write a byte
//	gb.reg(name)         read a register ("a", "f", ..., "af", "hl", "sp", "pc")
//	gb.cycles()          cycles since power on
//	gb.press(button)     press a button ("a", "b", "start", "up", ...)
//	gb.release(button)   release a button
//	gb.serial()          everything sent through the serial port so far
//	gb.disasm(addr, n)   disassemble n instructions, returns a string
//	gb.log(msg)          add a line to the central log
//
// print writes to the output given to New. When MaxCycles is set, a script
// that tries to run the machine past it stops with ErrCycleLimit.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nevisdale/gbcore/internal/gb"
	"github.com/nevisdale/gbcore/internal/logger"
)

// ErrCycleLimit stops a script that runs the machine to MaxCycles.
var ErrCycleLimit = errors.New("cycle limit reached")

// Script is a Lua interpreter bound to a machine. It must only be used from
// the goroutine that owns the machine.
type Script struct {
	bus   *gb.Bus
	out   io.Writer
	state *lua.LState

	// MaxCycles bounds the clock of the machine. Zero is no bound.
	MaxCycles uint64
}

func New(bus *gb.Bus, out io.Writer) *Script {
	s := &Script{
		bus:   bus,
		out:   out,
		state: lua.NewState(),
	}

	tbl := s.state.NewTable()
	s.state.SetFuncs(tbl, map[string]lua.LGFunction{
		"step":    s.step,
		"run":     s.run,
		"frame":   s.frame,
		"read":    s.read,
		"write":   s.write,
		"reg":     s.reg,
		"cycles":  s.cycles,
		"press":   s.press,
		"release": s.release,
		"serial":  s.serial,
		"disasm":  s.disasm,
		"log":     s.log,
	})
	s.state.SetGlobal("gb", tbl)
	s.state.SetGlobal("print", s.state.NewFunction(s.print))
	return s
}

// SetContext makes a running script stop with an error when ctx is done.
func (s *Script) SetContext(ctx context.Context) {
	s.state.SetContext(ctx)
}

func (s *Script) DoString(src string) error {
	return s.state.DoString(src)
}

func (s *Script) DoFile(path string) error {
	return s.state.DoFile(path)
}

func (s *Script) Close() {
	s.state.Close()
}

// runUntil runs the machine to target, or to MaxCycles if that comes first.
func (s *Script) runUntil(L *lua.LState, target uint64) {
	limited := s.MaxCycles > 0 && target >= s.MaxCycles
	if limited {
		target = s.MaxCycles
	}
	if err := s.bus.RunUntil(target); err != nil {
		L.RaiseError("%v", err)
		return
	}
	if limited {
		L.RaiseError("%v at cycle %d", ErrCycleLimit, s.bus.Cycles())
	}
}

func (s *Script) step(L *lua.LState) int {
	if s.MaxCycles > 0 && s.bus.Cycles() >= s.MaxCycles {
		L.RaiseError("%v at cycle %d", ErrCycleLimit, s.bus.Cycles())
		return 0
	}
	cycles, err := s.bus.Step()
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LNumber(cycles))
	return 1
}

func (s *Script) run(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 {
		L.ArgError(1, "cycles must not be negative")
		return 0
	}
	s.runUntil(L, s.bus.Cycles()+uint64(n))
	return 0
}

func (s *Script) frame(L *lua.LState) int {
	s.runUntil(L, (s.bus.Frames()+1)*gb.CyclesPerFrame)
	return 0
}

func checkAddr(L *lua.LState, n int) uint16 {
	addr := L.CheckInt(n)
	if addr < 0 || addr > 0xffff {
		L.ArgError(n, "address out of range")
	}
	return uint16(addr)
}

func (s *Script) read(L *lua.LState) int {
	L.Push(lua.LNumber(s.bus.Read8(checkAddr(L, 1))))
	return 1
}

func (s *Script) write(L *lua.LState) int {
	addr := checkAddr(L, 1)
	v := L.CheckInt(2)
	s.bus.Write8(addr, uint8(v))
	return 0
}

func (s *Script) reg(L *lua.LState) int {
	r := s.bus.Registers()
	var v int
	switch strings.ToLower(L.CheckString(1)) {
	case "a":
		v = int(r.A)
	case "f":
		v = int(r.F)
	case "b":
		v = int(r.B)
	case "c":
		v = int(r.C)
	case "d":
		v = int(r.D)
	case "e":
		v = int(r.E)
	case "h":
		v = int(r.H)
	case "l":
		v = int(r.L)
	case "af":
		v = int(r.A)<<8 | int(r.F)
	case "bc":
		v = int(r.B)<<8 | int(r.C)
	case "de":
		v = int(r.D)<<8 | int(r.E)
	case "hl":
		v = int(r.H)<<8 | int(r.L)
	case "sp":
		v = int(r.SP)
	case "pc":
		v = int(r.PC)
	default:
		L.ArgError(1, "unknown register")
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *Script) cycles(L *lua.LState) int {
	L.Push(lua.LNumber(s.bus.Cycles()))
	return 1
}

func checkButton(L *lua.LState, n int) gb.Button {
	b, ok := gb.ButtonFromString(L.CheckString(n))
	if !ok {
		L.ArgError(n, "unknown button")
	}
	return b
}

func (s *Script) press(L *lua.LState) int {
	s.bus.Press(checkButton(L, 1))
	return 0
}

func (s *Script) release(L *lua.LState) int {
	s.bus.Release(checkButton(L, 1))
	return 0
}

func (s *Script) serial(L *lua.LState) int {
	L.Push(lua.LString(s.bus.SerialOutput()))
	return 1
}

func (s *Script) disasm(L *lua.LState) int {
	addr := checkAddr(L, 1)
	n := L.OptInt(2, 1)
	if n < 0 {
		L.ArgError(2, "count must not be negative")
		return 0
	}
	var out strings.Builder
	for _, ins := range s.bus.Disassemble(addr, n) {
		out.WriteString(ins.String())
		out.WriteString("\n")
	}
	L.Push(lua.LString(out.String()))
	return 1
}

func (s *Script) log(L *lua.LState) int {
	logger.Log("script", L.CheckString(1))
	return 0
}

func (s *Script) print(L *lua.LState) int {
	args := make([]string, L.GetTop())
	for i := range args {
		args[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	fmt.Fprintln(s.out, strings.Join(args, "\t"))
	return 0
}
