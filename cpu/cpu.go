package cpu

import (
	"encoding/binary"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
)

const (
	MEM_SIZE = 4096 // Data memory capacity in bytes.
	NUM_REGS = 32   // Register file size.
)

var _cpu_defines = map[string]string{
	"MEM_SIZE": fmt.Sprintf("%v", MEM_SIZE),
	"NUM_REGS": fmt.Sprintf("%v", NUM_REGS),
}

// Cpu is the architectural state and single-cycle engine: the register file,
// data memory, instruction memory, and program counter, advanced one
// fetch/decode/execute/writeback cycle per Step call.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Reg  [NUM_REGS]int32 // Register file; Reg[0] reads as zero after every cycle.
	Mem  []byte          // Byte-addressable little-endian data memory.
	IMem []uint32        // Instruction memory, indexed by Pc/4.
	Pc   uint32          // Program counter, always a multiple of 4.

	Signals Signals // Control signals latched by the most recent cycle.
	Cycles  int     // Completed cycles since the last reset.

	fault bool // A step was rejected; the engine stays halted.
}

// NewCpu creates a CPU with a zeroed data memory of MEM_SIZE bytes and no
// program loaded.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Mem: make([]byte, MEM_SIZE),
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset clears the register file, program counter, latched signals, and
// cycle counter. Data memory is preserved unless clearMem is set, so a
// reload can model RAM that persists across programs.
func (cpu *Cpu) Reset(clearMem bool) {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Reg[:])
	cpu.Pc = 0
	cpu.Signals = Signals{}
	cpu.Cycles = 0
	cpu.fault = false

	if clearMem {
		clear(cpu.Mem)
	}
}

// SetProgram replaces the instruction memory wholesale and resets the CPU.
func (cpu *Cpu) SetProgram(words []uint32, clearMem bool) {
	cpu.IMem = slices.Clone(words)
	cpu.Reset(clearMem)
}

// Halted reports whether the engine can execute another cycle. The engine
// halts when the program counter runs past the loaded program, or when a
// step was rejected.
func (cpu *Cpu) Halted() bool {
	return cpu.fault || cpu.Pc/4 >= uint32(len(cpu.IMem))
}

// ReadWord reads a 4-byte little-endian word from data memory. Unaligned
// addresses are permitted; the only requirement is that the 4-byte span
// lies within [0, MEM_SIZE).
func (cpu *Cpu) ReadWord(addr int32) (value int32, err error) {
	if addr < 0 || int(addr)+4 > len(cpu.Mem) {
		err = ErrAddress(addr)
		return
	}

	value = int32(binary.LittleEndian.Uint32(cpu.Mem[addr:]))
	return
}

// WriteWord writes a 4-byte little-endian word to data memory. Either all
// 4 bytes are written, or none.
func (cpu *Cpu) WriteWord(addr int32, value int32) (err error) {
	if addr < 0 || int(addr)+4 > len(cpu.Mem) {
		err = ErrAddress(addr)
		return
	}

	binary.LittleEndian.PutUint32(cpu.Mem[addr:], uint32(value))
	return
}

// Step executes a single cycle: fetch at Pc/4, decode, derive control,
// execute, force x0 to zero, and commit the next program counter.
//
// A halted engine ignores the call. A rejected step, either an unsupported
// instruction or an out-of-range data address, halts the engine and returns
// the condition without mutating the architectural state.
func (cpu *Cpu) Step() (err error) {
	if cpu.Halted() {
		return
	}

	inst := Decode(cpu.IMem[cpu.Pc/4])
	kind, sig, err := Classify(inst)
	if err != nil {
		cpu.fault = true
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %04x: %v", cpu.Pc, inst)
	}

	next := cpu.Pc + 4

	switch kind {
	case KIND_ADD:
		cpu.Reg[inst.Rd] = cpu.Reg[inst.Rs1] + cpu.Reg[inst.Rs2]
	case KIND_SUB:
		cpu.Reg[inst.Rd] = cpu.Reg[inst.Rs1] - cpu.Reg[inst.Rs2]
	case KIND_AND:
		cpu.Reg[inst.Rd] = cpu.Reg[inst.Rs1] & cpu.Reg[inst.Rs2]
	case KIND_OR:
		cpu.Reg[inst.Rd] = cpu.Reg[inst.Rs1] | cpu.Reg[inst.Rs2]
	case KIND_ADDI:
		cpu.Reg[inst.Rd] = cpu.Reg[inst.Rs1] + inst.ImmI
	case KIND_LW:
		var value int32
		value, err = cpu.ReadWord(cpu.Reg[inst.Rs1] + inst.ImmI)
		if err != nil {
			cpu.fault = true
			return
		}
		cpu.Reg[inst.Rd] = value
	case KIND_SW:
		err = cpu.WriteWord(cpu.Reg[inst.Rs1]+inst.ImmS, cpu.Reg[inst.Rs2])
		if err != nil {
			cpu.fault = true
			return
		}
	case KIND_BEQ:
		if cpu.Reg[inst.Rs1]-cpu.Reg[inst.Rs2] == 0 {
			next = cpu.Pc + uint32(inst.ImmB)
		}
	case KIND_BNE:
		if cpu.Reg[inst.Rs1]-cpu.Reg[inst.Rs2] != 0 {
			next = cpu.Pc + uint32(inst.ImmB)
		}
	}

	// x0 is hardwired: a write is permitted, but never observable.
	cpu.Reg[0] = 0

	cpu.Signals = sig
	cpu.Pc = next
	cpu.Cycles++

	return
}

// String returns the current register file and program counter as a string.
func (cpu *Cpu) String() (text string) {
	for n := range NUM_REGS {
		text += fmt.Sprintf("x%-2d: %08x", n, uint32(cpu.Reg[n]))
		if n%4 == 3 {
			text += "\n"
		} else {
			text += "  "
		}
	}
	text += fmt.Sprintf(" pc: %08x\n", cpu.Pc)

	return
}
