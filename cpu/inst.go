package cpu

import (
	"fmt"
)

// Instruction encoding constants for the supported RV32I formats.
const (
	OPCODE_RTYPE  = uint32(0x33) // add, sub, and, or
	OPCODE_ITYPE  = uint32(0x13) // addi
	OPCODE_LOAD   = uint32(0x03) // lw
	OPCODE_STORE  = uint32(0x23) // sw
	OPCODE_BRANCH = uint32(0x63) // beq, bne

	FUNCT3_ADDSUB = uint32(0) // add/sub (R-type), addi (I-type)
	FUNCT3_OR     = uint32(6)
	FUNCT3_AND    = uint32(7)
	FUNCT3_WORD   = uint32(2) // lw, sw
	FUNCT3_BEQ    = uint32(0)
	FUNCT3_BNE    = uint32(1)

	FUNCT7_BASE = uint32(0x00)
	FUNCT7_ALT  = uint32(0x20) // sub
)

// Inst is a decoded instruction word: the six RV32I fields plus the three
// sign-extended immediates. Decoding never fails; validity is judged by the
// control unit.
type Inst struct {
	Raw uint32 // Raw 32-bit instruction word.

	Opcode uint32 // bits 0-6
	Rd     uint32 // bits 7-11
	Funct3 uint32 // bits 12-14
	Rs1    uint32 // bits 15-19
	Rs2    uint32 // bits 20-24
	Funct7 uint32 // bits 25-31

	ImmI int32 // I-type immediate, sign-extended from bit 11.
	ImmS int32 // S-type immediate, sign-extended from bit 11.
	ImmB int32 // B-type immediate, sign-extended from bit 12; bit 0 is always 0.
}

// Decode extracts the instruction fields and immediates from a raw word.
// Pure; the same word always decodes to the same Inst.
func Decode(raw uint32) (inst Inst) {
	inst.Raw = raw

	inst.Opcode = raw & 0x7f
	inst.Rd = (raw >> 7) & 0x1f
	inst.Funct3 = (raw >> 12) & 0x7
	inst.Rs1 = (raw >> 15) & 0x1f
	inst.Rs2 = (raw >> 20) & 0x1f
	inst.Funct7 = (raw >> 25) & 0x7f

	// Arithmetic shift on int32 sign-extends imm[11:0] from bit 11.
	inst.ImmI = int32(raw) >> 20

	inst.ImmS = ((int32(raw) >> 25) << 5) | int32((raw>>7)&0x1f)

	immB := ((raw >> 31) & 1) << 12
	immB |= ((raw >> 7) & 1) << 11
	immB |= ((raw >> 25) & 0x3f) << 5
	immB |= ((raw >> 8) & 0xf) << 1
	// imm[0] = 0: branch targets are always even.
	if (immB & 0x1000) != 0 {
		immB |= 0xffff_e000
	}
	inst.ImmB = int32(immB)

	return
}

// rFunct maps an R-type Kind to its (funct3, funct7) selector pair.
var rFunct = map[Kind][2]uint32{
	KIND_ADD: {FUNCT3_ADDSUB, FUNCT7_BASE},
	KIND_SUB: {FUNCT3_ADDSUB, FUNCT7_ALT},
	KIND_AND: {FUNCT3_AND, FUNCT7_BASE},
	KIND_OR:  {FUNCT3_OR, FUNCT7_BASE},
}

// MakeCodeR encodes a register-register ALU instruction (add, sub, and, or).
func MakeCodeR(kind Kind, rd, rs1, rs2 uint32) uint32 {
	funct := rFunct[kind]
	return (funct[1] << 25) | ((rs2 & 0x1f) << 20) | ((rs1 & 0x1f) << 15) |
		(funct[0] << 12) | ((rd & 0x1f) << 7) | OPCODE_RTYPE
}

// MakeCodeI encodes an I-type instruction (KIND_ADDI or KIND_LW) with a
// 12-bit signed immediate.
func MakeCodeI(kind Kind, rd, rs1 uint32, imm int32) uint32 {
	opcode := OPCODE_ITYPE
	funct3 := FUNCT3_ADDSUB
	if kind == KIND_LW {
		opcode = OPCODE_LOAD
		funct3 = FUNCT3_WORD
	}
	return ((uint32(imm) & 0xfff) << 20) | ((rs1 & 0x1f) << 15) |
		(funct3 << 12) | ((rd & 0x1f) << 7) | opcode
}

// MakeCodeS encodes a store word instruction with a 12-bit signed immediate.
func MakeCodeS(rs2, rs1 uint32, imm int32) uint32 {
	u := uint32(imm)
	return (((u >> 5) & 0x7f) << 25) | ((rs2 & 0x1f) << 20) | ((rs1 & 0x1f) << 15) |
		(FUNCT3_WORD << 12) | ((u & 0x1f) << 7) | OPCODE_STORE
}

// MakeCodeB encodes a branch instruction (KIND_BEQ or KIND_BNE) with a
// 13-bit signed even byte offset.
func MakeCodeB(kind Kind, rs1, rs2 uint32, offset int32) uint32 {
	funct3 := FUNCT3_BEQ
	if kind == KIND_BNE {
		funct3 = FUNCT3_BNE
	}
	u := uint32(offset)
	return (((u >> 12) & 1) << 31) | (((u >> 5) & 0x3f) << 25) |
		((rs2 & 0x1f) << 20) | ((rs1 & 0x1f) << 15) | (funct3 << 12) |
		(((u >> 1) & 0xf) << 8) | (((u >> 11) & 1) << 7) | OPCODE_BRANCH
}

// Binary returns the 32-character binary text of the instruction word, the
// same format the program loader consumes.
func (inst Inst) Binary() string {
	return fmt.Sprintf("%032b", inst.Raw)
}

// String returns the assembly language representation of this instruction,
// or a raw word directive when the instruction is unsupported.
func (inst Inst) String() (out string) {
	kind, _, err := Classify(inst)
	if err != nil {
		return fmt.Sprintf(".word %#08x", inst.Raw)
	}

	switch kind {
	case KIND_ADD, KIND_SUB, KIND_AND, KIND_OR:
		out = fmt.Sprintf("%v x%d, x%d, x%d", kind, inst.Rd, inst.Rs1, inst.Rs2)
	case KIND_ADDI:
		out = fmt.Sprintf("%v x%d, x%d, %d", kind, inst.Rd, inst.Rs1, inst.ImmI)
	case KIND_LW:
		out = fmt.Sprintf("%v x%d, %d(x%d)", kind, inst.Rd, inst.ImmI, inst.Rs1)
	case KIND_SW:
		out = fmt.Sprintf("%v x%d, %d(x%d)", kind, inst.Rs2, inst.ImmS, inst.Rs1)
	case KIND_BEQ, KIND_BNE:
		out = fmt.Sprintf("%v x%d, x%d, %d", kind, inst.Rs1, inst.Rs2, inst.ImmB)
	}

	return
}
