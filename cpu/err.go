package cpu

import (
	"errors"

	"github.com/ezrec/unicycle/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOpcodeArgs      = errors.New(f("wrong argument count"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrTargetInvalid   = errors.New(f("branch target invalid"))
	ErrImmediateRange  = errors.New(f("immediate out of range"))
)

// ErrInstruction is an unsupported-instruction reject from the control unit.
type ErrInstruction uint32

func (ei ErrInstruction) Error() string {
	return f("unsupported instruction %#08x", uint32(ei))
}

func (ei ErrInstruction) Is(err error) (ok bool) {
	_, ok = err.(ErrInstruction)
	return
}

// ErrAddress is a rejected data memory access: the 4-byte span starting at
// the address falls outside the memory.
type ErrAddress int32

func (ea ErrAddress) Error() string {
	return f("invalid memory address %d", int32(ea))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
