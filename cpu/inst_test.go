package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFields(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		raw  uint32
		want Inst
	}){
		{"add", 0x002081b3, Inst{
			Raw: 0x002081b3, Opcode: OPCODE_RTYPE, Rd: 3, Rs1: 1, Rs2: 2,
		}},
		{"sub", MakeCodeR(KIND_SUB, 31, 30, 29), Inst{
			Raw: MakeCodeR(KIND_SUB, 31, 30, 29), Opcode: OPCODE_RTYPE,
			Rd: 31, Rs1: 30, Rs2: 29, Funct7: FUNCT7_ALT,
		}},
		{"and", MakeCodeR(KIND_AND, 1, 2, 3), Inst{
			Raw: MakeCodeR(KIND_AND, 1, 2, 3), Opcode: OPCODE_RTYPE,
			Rd: 1, Rs1: 2, Rs2: 3, Funct3: FUNCT3_AND,
		}},
		{"addi", MakeCodeI(KIND_ADDI, 1, 0, 5), Inst{
			Raw: MakeCodeI(KIND_ADDI, 1, 0, 5), Opcode: OPCODE_ITYPE,
			Rd: 1, Rs2: 5, // imm[4:0] aliases the rs2 field
		}},
	}

	for _, entry := range table {
		inst := Decode(entry.raw)
		assert.Equal(entry.want.Opcode, inst.Opcode, entry.name)
		assert.Equal(entry.want.Rd, inst.Rd, entry.name)
		assert.Equal(entry.want.Funct3, inst.Funct3, entry.name)
		assert.Equal(entry.want.Rs1, inst.Rs1, entry.name)
		assert.Equal(entry.want.Rs2, inst.Rs2, entry.name)
		assert.Equal(entry.want.Funct7, inst.Funct7, entry.name)
	}
}

func TestDecodeDeterministic(t *testing.T) {
	assert := assert.New(t)

	for _, raw := range []uint32{0, 0x002081b3, 0xffffffff, 0xfe000ee3} {
		assert.Equal(Decode(raw), Decode(raw))
	}
}

func TestImmISignExtend(t *testing.T) {
	assert := assert.New(t)

	// Bit 11 clear: the immediate equals the unsigned 12-bit field.
	// Bit 11 set: the immediate equals unsigned12 - 4096.
	for _, imm12 := range []uint32{0, 1, 5, 0x7ff, 0x800, 0xabc, 0xfff} {
		inst := Decode(imm12 << 20)
		want := int32(imm12)
		if (imm12 & 0x800) != 0 {
			want = int32(imm12) - 4096
		}
		assert.Equal(want, inst.ImmI, imm12)
	}
}

func TestImmS(t *testing.T) {
	assert := assert.New(t)

	for _, imm := range []int32{0, 1, -1, 4, 2047, -2048, -4} {
		inst := Decode(MakeCodeS(2, 1, imm))
		assert.Equal(imm, inst.ImmS, imm)
	}
}

func TestImmB(t *testing.T) {
	assert := assert.New(t)

	for _, offset := range []int32{0, 8, -4, 2, 4094, -4096, 100} {
		inst := Decode(MakeCodeB(KIND_BEQ, 1, 2, offset))
		assert.Equal(offset, inst.ImmB, offset)
		assert.Zero(inst.ImmB&1, offset)
	}

	// Known encoding: beq x0, x0, -4
	assert.Equal(uint32(0xfe000ee3), MakeCodeB(KIND_BEQ, 0, 0, -4))
	assert.Equal(int32(-4), Decode(0xfe000ee3).ImmB)
}

func TestMakeCodeRoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		raw  uint32
		kind Kind
	}){
		{"add", MakeCodeR(KIND_ADD, 3, 1, 2), KIND_ADD},
		{"sub", MakeCodeR(KIND_SUB, 3, 1, 2), KIND_SUB},
		{"and", MakeCodeR(KIND_AND, 3, 1, 2), KIND_AND},
		{"or", MakeCodeR(KIND_OR, 3, 1, 2), KIND_OR},
		{"addi", MakeCodeI(KIND_ADDI, 1, 0, -7), KIND_ADDI},
		{"lw", MakeCodeI(KIND_LW, 2, 1, 16), KIND_LW},
		{"sw", MakeCodeS(2, 1, -8), KIND_SW},
		{"beq", MakeCodeB(KIND_BEQ, 1, 2, 8), KIND_BEQ},
		{"bne", MakeCodeB(KIND_BNE, 1, 2, -16), KIND_BNE},
	}

	for _, entry := range table {
		kind, _, err := Classify(Decode(entry.raw))
		assert.NoError(err, entry.name)
		assert.Equal(entry.kind, kind, entry.name)
	}
}

func TestInstString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		raw  uint32
		want string
	}){
		{MakeCodeR(KIND_ADD, 3, 1, 2), "add x3, x1, x2"},
		{MakeCodeI(KIND_ADDI, 1, 0, -7), "addi x1, x0, -7"},
		{MakeCodeI(KIND_LW, 2, 1, 16), "lw x2, 16(x1)"},
		{MakeCodeS(2, 1, 0), "sw x2, 0(x1)"},
		{MakeCodeB(KIND_BNE, 1, 2, -16), "bne x1, x2, -16"},
		{0xffffffff, ".word 0xffffffff"},
	}

	for _, entry := range table {
		assert.Equal(entry.want, Decode(entry.raw).String())
	}
}

func TestInstBinary(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("00000000001000001000000110110011", Decode(0x002081b3).Binary())
	assert.Equal("00000000000000000000000000000000", Decode(0).Binary())
}
