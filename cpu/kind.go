package cpu

// Kind is the instruction classification produced by the control unit.
// Every supported instruction maps to exactly one Kind; anything else is an
// unsupported-instruction reject.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_ADD  = Kind(0) // add
	KIND_SUB  = Kind(1) // sub
	KIND_AND  = Kind(2) // and
	KIND_OR   = Kind(3) // or
	KIND_ADDI = Kind(4) // addi
	KIND_LW   = Kind(5) // lw
	KIND_SW   = Kind(6) // sw
	KIND_BEQ  = Kind(7) // beq
	KIND_BNE  = Kind(8) // bne
)
