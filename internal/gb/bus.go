package gb

import (
	"errors"
	"fmt"
)

// ErrNoCart is returned by operations that need a cartridge when none is
// loaded.
var ErrNoCart = errors.New("no cartridge loaded")

// Bus is the whole machine: CPU, memory map, cartridge, interrupt
// controller, timer, joypad and serial port, all driven by one clock.
// A Bus must only be used from one goroutine at a time. Runner takes care of
// that when the machine runs in the background.
type Bus struct {
	cfg Config

	clock  *Clock
	ints   *InterruptController
	timer  *Timer
	joypad *Joypad
	serial *Serial
	mem    *Memory
	cpu    *CPU
	cart   *Cart
}

func NewBus(cfg Config) (*Bus, error) {
	if cfg.BootROM != nil && len(cfg.BootROM) != bootROMSize {
		return nil, fmt.Errorf("boot ROM must be %d bytes, got %d", bootROMSize, len(cfg.BootROM))
	}

	b := &Bus{
		cfg:   cfg,
		clock: &Clock{},
		ints:  &InterruptController{},
	}
	b.timer = NewTimer(b.ints)
	b.joypad = NewJoypad(b.ints)
	b.serial = NewSerial(b.ints, cfg.Serial)
	b.mem = &Memory{
		wram:   NewRAM(wramSizeBytes),
		hram:   NewRAM(hramSizeBytes),
		video:  newVideoStub(),
		audio:  &audioStub{},
		timer:  b.timer,
		ints:   b.ints,
		joypad: b.joypad,
		serial: b.serial,
	}
	if cfg.BootROM != nil {
		b.mem.boot = make([]uint8, bootROMSize)
		copy(b.mem.boot, cfg.BootROM)
	}
	b.cpu = NewCPU(b.mem, b.ints, b.clock)
	b.cpu.SetTrace(cfg.Trace)
	b.Reset()
	return b, nil
}

// LoadCart inserts a cartridge and resets the machine.
func (b *Bus) LoadCart(cart *Cart) {
	b.cart = cart
	b.mem.cart = cart
	b.Reset()
}

func (b *Bus) Cart() *Cart {
	return b.cart
}

// AttachVideo replaces the unit answering VRAM, OAM and the LCD registers.
func (b *Bus) AttachVideo(rw ReadWriter) {
	b.mem.video = rw
}

// AttachAudio replaces the unit answering the sound registers.
func (b *Bus) AttachAudio(rw ReadWriter) {
	b.mem.audio = rw
}

// Reset every component to its power on state. Cartridge RAM keeps its
// contents and the clock keeps counting.
func (b *Bus) Reset() {
	boot := b.mem.boot != nil

	b.ints.Reset()
	b.timer.Reset()
	b.joypad.Reset()
	b.serial.Reset()
	b.mem.Reset()
	if b.cart != nil {
		b.cart.Reset()
	}
	b.cpu.Reset(boot)

	if !boot {
		b.timer.setDivider(0xabcc)
		b.ints.SetIF(uint8(IntVBlank))
	}
}

// Step executes one CPU step and advances the timer by the cycles it took.
func (b *Bus) Step() (int, error) {
	cycles, err := b.cpu.Step()
	if err != nil {
		return 0, err
	}
	b.timer.Tick(cycles)
	return cycles, nil
}

// RunUntil steps the machine until the clock reaches cycle. The last step may
// overshoot it.
func (b *Bus) RunUntil(cycle uint64) error {
	for b.clock.Cycles() < cycle {
		if _, err := b.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RunFrame runs to the end of the current frame.
func (b *Bus) RunFrame() error {
	return b.RunUntil((b.clock.Frames() + 1) * CyclesPerFrame)
}

func (b *Bus) Cycles() uint64 {
	return b.clock.Cycles()
}

func (b *Bus) Frames() uint64 {
	return b.clock.Frames()
}

// Read8 reads the address space as the CPU sees it.
func (b *Bus) Read8(addr uint16) uint8 {
	return b.mem.Read8(addr)
}

// Write8 writes the address space as the CPU would.
func (b *Bus) Write8(addr uint16, data uint8) {
	b.mem.Write8(addr, data)
}

func (b *Bus) Registers() Registers {
	return b.cpu.Registers()
}

func (b *Bus) SetRegisters(r Registers) {
	b.cpu.SetRegisters(r)
}

// RequestInterrupt raises a request flag on behalf of a unit outside the
// core, such as the video unit at the start of vertical blank.
func (b *Bus) RequestInterrupt(src Interrupt) {
	b.ints.Request(src)
}

func (b *Bus) Press(btn Button) {
	b.joypad.Press(btn)
}

func (b *Bus) Release(btn Button) {
	b.joypad.Release(btn)
}

// ExternalRAM returns a copy of the cartridge RAM, for battery saves.
func (b *Bus) ExternalRAM() []uint8 {
	if b.cart == nil {
		return nil
	}
	return b.cart.RAM()
}

// RestoreExternalRAM loads the cartridge RAM from a battery save.
func (b *Bus) RestoreExternalRAM(data []uint8) error {
	if b.cart == nil {
		return ErrNoCart
	}
	return b.cart.RestoreRAM(data)
}

// SerialOutput returns the bytes sent through the serial port.
func (b *Bus) SerialOutput() []byte {
	return b.serial.Output()
}

// Disassemble count instructions starting at addr.
func (b *Bus) Disassemble(addr uint16, count int) []Instruction {
	return b.cpu.Disassemble(addr, count)
}
