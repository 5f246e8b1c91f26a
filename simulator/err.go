package simulator

import (
	"errors"

	"github.com/ezrec/unicycle/translate"
)

var f = translate.From

var (
	ErrRunLimit = errors.New(f("cycle limit reached"))
)

// ErrCycle indicates the program counter of a rejected cycle.
type ErrCycle struct {
	Pc  uint32
	Err error
}

func (err *ErrCycle) Error() string {
	return f("pc %#x %v", err.Pc, err.Err)
}

func (err *ErrCycle) Unwrap() error {
	return err.Err
}
