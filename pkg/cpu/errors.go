package cpu

import (
	"errors"
	"fmt"
)

// FaultKind classifies a runtime fault raised by Tick.
type FaultKind uint8

const (
	FaultInvalidInstruction FaultKind = iota + 1
	FaultMemory
	FaultPopEmptyStack
	FaultStackOverflow
	FaultInvalidSprite
	// FaultNotImplemented is reserved; no instruction raises it.
	FaultNotImplemented
)

var (
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrMemory             = errors.New("memory access out of range")
	ErrPopEmptyStack      = errors.New("return with empty call stack")
	ErrStackOverflow      = errors.New("call stack overflow")
	ErrInvalidSprite      = errors.New("invalid font glyph")
	ErrNotImplemented     = errors.New("not implemented")
)

var faultErrors = map[FaultKind]error{
	FaultInvalidInstruction: ErrInvalidInstruction,
	FaultMemory:             ErrMemory,
	FaultPopEmptyStack:      ErrPopEmptyStack,
	FaultStackOverflow:      ErrStackOverflow,
	FaultInvalidSprite:      ErrInvalidSprite,
	FaultNotImplemented:     ErrNotImplemented,
}

var faultNames = map[FaultKind]string{
	FaultInvalidInstruction: "InvalidInstruction",
	FaultMemory:             "MemoryError",
	FaultPopEmptyStack:      "PopEmptyStack",
	FaultStackOverflow:      "StackOverflow",
	FaultInvalidSprite:      "InvalidSprite",
	FaultNotImplemented:     "NotImplemented",
}

func (k FaultKind) String() string {
	if name, ok := faultNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FaultKind(%d)", uint8(k))
}

// Err returns the sentinel error matching the kind.
func (k FaultKind) Err() error {
	if err, ok := faultErrors[k]; ok {
		return err
	}
	return ErrNotImplemented
}

func kindOf(err error) FaultKind {
	for kind, sentinel := range faultErrors {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return FaultNotImplemented
}

// Fault is returned by Tick when execution cannot continue. PC is the
// address of the faulting instruction and is left unchanged in the CPU.
type Fault struct {
	Kind   FaultKind
	PC     uint16
	Opcode uint16
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s at pc=0x%03X (opcode 0x%04X)", f.Kind.Err(), f.PC, f.Opcode)
}

func (f *Fault) Unwrap() error {
	return f.Kind.Err()
}
