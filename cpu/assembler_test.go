package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssemblerProgram(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; add two numbers and store the result",
		".equ BASE 8",
		"",
		"start:",
		"	addi x1, x0, 5",
		"	addi x2, x0, 7",
		"	add x3, x1, x2",
		"	sw x3, $(BASE + 4)(x0)",
		"	bne x3, x2, start",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal([]uint32{
		MakeCodeI(KIND_ADDI, 1, 0, 5),
		MakeCodeI(KIND_ADDI, 2, 0, 7),
		MakeCodeR(KIND_ADD, 3, 1, 2),
		MakeCodeS(3, 0, 12),
		MakeCodeB(KIND_BNE, 3, 2, -16),
	}, prog.Words)

	assert.Equal(map[string]int{"start": 0}, asm.Label)
}

func TestAssemblerForwardLabel(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"	beq x1, x2, done",
		"	addi x1, x0, 1",
		"done:",
		"	addi x2, x0, 2",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal(MakeCodeB(KIND_BEQ, 1, 2, 8), prog.Words[0])
}

func TestAssemblerFarLabel(t *testing.T) {
	assert := assert.New(t)

	// branch, pad instructions, then the label. The offset from word 0 to
	// the label is 4*pad bytes.
	branchTo := func(pad int) []string {
		program := []string{"	beq x1, x2, far"}
		for range pad - 1 {
			program = append(program, "	addi x1, x1, 1")
		}
		return append(program, "far:", "	addi x2, x0, 0")
	}

	// Offset 4092 is the largest encodable forward branch.
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(branchTo(1023), "\n")))
	assert.NoError(err)
	assert.Equal(MakeCodeB(KIND_BEQ, 1, 2, 4092), prog.Words[0])

	// Offset 4096 does not fit; it must fail, not wrap to a backward branch.
	asm = &Assembler{}
	_, err = asm.Parse(strings.NewReader(strings.Join(branchTo(1024), "\n")))
	assert.ErrorIs(err, ErrTargetInvalid)
}

func TestAssemblerListingRoundTrip(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"loop:	addi x1, x1, -1",
		"	bne x1, x0, loop",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	// The listing is the loader's input format.
	for _, line := range prog.Lines {
		assert.Len(line, 32)
	}
	again, err := LoadProgram(strings.NewReader(strings.Join(prog.Lines, "\n")))
	assert.NoError(err)
	assert.Equal(prog.Words, again.Words)
}

func TestAssemblerEqu(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ COUNT 3",
		".equ TMP x5",
		"	addi TMP, x0, COUNT",
		"	addi x6, x0, $(COUNT * 2 + 1)",
		"	addi x7, x0, $(LINENO)",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal([]uint32{
		MakeCodeI(KIND_ADDI, 5, 0, 3),
		MakeCodeI(KIND_ADDI, 6, 0, 7),
		MakeCodeI(KIND_ADDI, 7, 0, 5),
	}, prog.Words)
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("MEM_SIZE", "4096")

	prog, err := asm.Parse(strings.NewReader("addi x1, x0, $(MEM_SIZE - 4000)\n"))
	assert.NoError(err)
	assert.Equal([]uint32{MakeCodeI(KIND_ADDI, 1, 0, 96)}, prog.Words)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		text string
		want error
	}){
		{"opcode", "addx x1, x2, x3", ErrOpcodeInvalid},
		{"args", "add x1, x2", ErrOpcodeArgs},
		{"register", "add x1, x2, x32", ErrRegisterInvalid},
		{"not_reg", "add x1, x2, 7", ErrRegisterInvalid},
		{"imm_high", "addi x1, x0, 2048", ErrImmediateRange},
		{"imm_low", "addi x1, x0, -2049", ErrImmediateRange},
		{"mem_operand", "lw x1, 8", ErrOpcodeArgs},
		{"label", "beq x1, x2, nowhere", ErrLabelMissing("nowhere")},
		{"target_odd", "beq x1, x2, 3", ErrTargetInvalid},
		{"target_far", "beq x1, x2, 8192", ErrTargetInvalid},
		{"equ_syntax", ".equ ONLY", ErrEquateSyntax},
		{"equ_dup", ".equ LINENO 5", ErrEquateDuplicate},
		{"label_dup", "a:\na:\n", ErrLabelDuplicate},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(entry.text))
		assert.ErrorIs(err, entry.want, entry.name)

		var syn ErrSyntax
		assert.ErrorAs(err, &syn, entry.name)
		assert.NotZero(syn.LineNo, entry.name)
	}
}
