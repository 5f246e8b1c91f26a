package cpu

import (
	"fmt"
)

// Signals is the snapshot of the nine control flags a single-cycle datapath
// derives from the current instruction. Recomputed every cycle; the engine
// latches the most recent snapshot for display.
type Signals struct {
	RegDst   bool
	RegWrite bool
	Branch   bool
	MemToReg bool
	MemRead  bool
	MemWrite bool
	ALUSrc   bool
	ALUOp1   bool
	ALUOp0   bool
}

func bit(flag bool) (value int) {
	if flag {
		value = 1
	}
	return
}

// String returns the signals as "name:value" pairs in datapath order.
func (sig Signals) String() string {
	return fmt.Sprintf(
		"RegDst:%d RegWrite:%d Branch:%d MemToReg:%d MemRead:%d MemWrite:%d ALUSrc:%d ALUOp1:%d ALUOp0:%d",
		bit(sig.RegDst), bit(sig.RegWrite), bit(sig.Branch),
		bit(sig.MemToReg), bit(sig.MemRead), bit(sig.MemWrite),
		bit(sig.ALUSrc), bit(sig.ALUOp1), bit(sig.ALUOp0))
}

// Classify is the control unit: it maps the decoded (opcode, funct3, funct7)
// fields to an instruction Kind and its control signals. Any combination
// outside the supported nine is rejected with ErrInstruction, producing no
// signals.
func Classify(inst Inst) (kind Kind, sig Signals, err error) {
	switch inst.Opcode {
	case OPCODE_RTYPE:
		switch {
		case inst.Funct3 == FUNCT3_ADDSUB && inst.Funct7 == FUNCT7_BASE:
			kind = KIND_ADD
		case inst.Funct3 == FUNCT3_ADDSUB && inst.Funct7 == FUNCT7_ALT:
			kind = KIND_SUB
		case inst.Funct3 == FUNCT3_AND && inst.Funct7 == FUNCT7_BASE:
			kind = KIND_AND
		case inst.Funct3 == FUNCT3_OR && inst.Funct7 == FUNCT7_BASE:
			kind = KIND_OR
		default:
			err = ErrInstruction(inst.Raw)
			return
		}
		sig = Signals{RegDst: true, RegWrite: true, ALUOp1: true}
	case OPCODE_ITYPE:
		if inst.Funct3 != FUNCT3_ADDSUB {
			err = ErrInstruction(inst.Raw)
			return
		}
		kind = KIND_ADDI
		sig = Signals{RegDst: true, RegWrite: true, ALUSrc: true}
	case OPCODE_LOAD:
		if inst.Funct3 != FUNCT3_WORD {
			err = ErrInstruction(inst.Raw)
			return
		}
		kind = KIND_LW
		sig = Signals{RegDst: true, RegWrite: true, MemToReg: true, MemRead: true, ALUSrc: true}
	case OPCODE_STORE:
		if inst.Funct3 != FUNCT3_WORD {
			err = ErrInstruction(inst.Raw)
			return
		}
		kind = KIND_SW
		sig = Signals{MemWrite: true, ALUSrc: true}
	case OPCODE_BRANCH:
		switch inst.Funct3 {
		case FUNCT3_BEQ:
			kind = KIND_BEQ
		case FUNCT3_BNE:
			kind = KIND_BNE
		default:
			err = ErrInstruction(inst.Raw)
			return
		}
		sig = Signals{Branch: true, ALUOp0: true}
	default:
		err = ErrInstruction(inst.Raw)
	}

	return
}
