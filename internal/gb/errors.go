package gb

import (
	"errors"
	"fmt"
)

var (
	// ErrUnimplementedOpcode is matched by the error returned from a step that
	// decoded an opcode with no defined operation.
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")

	// ErrCartridgeLoadMismatch means the ROM image size does not agree with the
	// bank count declared in the header.
	ErrCartridgeLoadMismatch = errors.New("cartridge size does not match header")

	// ErrUnsupportedMapper means the cartridge type byte names a mapper that is
	// not emulated.
	ErrUnsupportedMapper = errors.New("unsupported mapper")

	// ErrInvalidHeader means the image is too small to hold a header or the
	// header holds a size code that does not exist.
	ErrInvalidHeader = errors.New("invalid cartridge header")
)

// UnimplementedOpcodeError describes the opcode that stopped the CPU.
type UnimplementedOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("%s %02X at PC %04X", ErrUnimplementedOpcode, e.Opcode, e.PC)
}

func (e *UnimplementedOpcodeError) Is(target error) bool {
	return target == ErrUnimplementedOpcode
}
