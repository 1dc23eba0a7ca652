package nes

import (
	"fmt"

	"github.com/pkg/errors"
)

// CartridgeError reports a malformed or unsupported cartridge image,
// fatal at load time.
type CartridgeError struct {
	Reason string
}

func (e *CartridgeError) Error() string {
	return fmt.Sprintf("bad cartridge: %s", e.Reason)
}

// NewCartridgeError wraps a loader-time failure with the offending reason.
func NewCartridgeError(reason string) error {
	return errors.WithStack(&CartridgeError{Reason: reason})
}

// UnsupportedMapperError reports an iNES mapper number this module does
// not implement.
type UnsupportedMapperError struct {
	Mapper uint16
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper %d", e.Mapper)
}

// NewUnsupportedMapperError builds an UnsupportedMapperError for the
// given iNES mapper number.
func NewUnsupportedMapperError(mapper uint16) error {
	return errors.WithStack(&UnsupportedMapperError{Mapper: mapper})
}

// IllegalOpcodeError reports that the CPU fetched an opcode byte with no
// defined instruction. The CPU halts; this is distinct from a contract
// violation because it originates from program data, not caller misuse.
type IllegalOpcodeError struct {
	Opcode byte
	PC     uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode %s at %s", hex8(e.Opcode), hex16(e.PC))
}

// NewIllegalOpcodeError builds an IllegalOpcodeError for the given
// opcode byte and the address it was fetched from.
func NewIllegalOpcodeError(opcode byte, pc uint16) error {
	return errors.WithStack(&IllegalOpcodeError{Opcode: opcode, PC: pc})
}

// ContractViolationError reports that a caller broke the Tick contract:
// supplying data when none was requested, or omitting it when a Read was
// outstanding. This is a programmer error, not a runtime condition.
type ContractViolationError struct {
	Reason string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("contract violation: %s", e.Reason)
}

// NewContractViolationError builds a ContractViolationError with the
// given description of the broken contract.
func NewContractViolationError(reason string) error {
	return errors.WithStack(&ContractViolationError{Reason: reason})
}
