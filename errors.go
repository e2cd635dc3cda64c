package c8vm

import (
	"errors"
	"fmt"
)

var (
	ErrRomTooLarge    = errors.New("the program does not fit into memory")
	ErrRomUnreadable  = errors.New("the program could not be read")
	ErrStackUnderflow = errors.New("stack underflow: try to pop an empty stack")
	ErrStackOverflow  = errors.New("stack overflow: try to push to a full stack")
	ErrCpuIsNotBooted = errors.New("the CPU has not been booted properly")
	ErrCpuHalted      = errors.New("the CPU is halted")
)

// MemoryFault is returned when an address derived from I or PC falls outside of memory
type MemoryFault struct {
	Addr int
}

func (err MemoryFault) Error() string {
	return fmt.Sprintf("memory fault: address 0x%03X is outside of the %d bytes of memory", err.Addr, MemorySize)
}

// ErrOpCodeUnknown reports an instruction word that does not decode to any opcode.
// It is not fatal, the CPU skips the word and keeps running.
type ErrOpCodeUnknown struct {
	OpCode uint16
	Pc     uint16
}

func (err ErrOpCodeUnknown) Error() string {
	return fmt.Sprintf("unknown opcode=%04X at PC=0x%03X", err.OpCode, err.Pc)
}
