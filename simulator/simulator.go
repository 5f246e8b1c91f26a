// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package simulator drives the single-cycle engine: program load, step/run
// control, and read-only display snapshots of the control signals, register
// file, data memory, and program counter.
package simulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/unicycle/cpu"
	"github.com/ezrec/unicycle/internal"
)

const (
	DEFAULT_RUN_LIMIT = 1 << 20 // Default cycle bound for bounded drivers.
)

var _simulator_defines = map[string]string{
	"RUN_LIMIT": fmt.Sprintf("%v", DEFAULT_RUN_LIMIT),
}

// Simulator state. CPU + loaded program.
type Simulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program.

	// ResetMemoryOnLoad clears data memory on every Load. The default
	// preserves memory across loads, matching hardware whose RAM survives
	// a program reload.
	ResetMemoryOnLoad bool
}

// NewSimulator creates a new simulator with an empty program.
func NewSimulator() (sim *Simulator) {
	sim = &Simulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (sim *Simulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_simulator_defines),
		sim.Cpu.Defines(),
	)
}

// Load installs a program: the instruction memory is replaced, the program
// counter and registers reset to zero, and data memory is cleared only when
// ResetMemoryOnLoad is set.
func (sim *Simulator) Load(prog *cpu.Program) {
	sim.Program = prog
	sim.Cpu.Verbose = sim.Verbose

	words := make([]uint32, len(prog.Words))
	for index, word := range prog.Codes() {
		words[index] = word
	}
	sim.Cpu.SetProgram(words, sim.ResetMemoryOnLoad)
}

// Step advances exactly one cycle. A failing cycle halts the machine and is
// reported as an ErrCycle carrying the faulting program counter.
func (sim *Simulator) Step() (done bool, err error) {
	sim.Cpu.Verbose = sim.Verbose

	if sim.Cpu.Halted() {
		done = true
		return
	}

	err = sim.Cpu.Step()
	if err != nil {
		err = &ErrCycle{Pc: sim.Cpu.Pc, Err: err}
	}
	done = sim.Cpu.Halted()

	return
}

// Run steps until the engine halts. A non-terminating program runs forever;
// callers needing a bound use RunLimit.
func (sim *Simulator) Run() (cycles int, err error) {
	start := sim.Cpu.Cycles
	for !sim.Cpu.Halted() {
		if _, err = sim.Step(); err != nil {
			break
		}
	}
	cycles = sim.Cpu.Cycles - start

	return
}

// RunLimit steps until the engine halts or max cycles have executed,
// returning ErrRunLimit in the latter case.
func (sim *Simulator) RunLimit(max int) (cycles int, err error) {
	start := sim.Cpu.Cycles
	for !sim.Cpu.Halted() {
		if sim.Cpu.Cycles-start >= max {
			err = ErrRunLimit
			break
		}
		if _, err = sim.Step(); err != nil {
			break
		}
	}
	cycles = sim.Cpu.Cycles - start

	return
}

// Signals returns the control signals latched by the most recent cycle.
func (sim *Simulator) Signals() cpu.Signals {
	return sim.Cpu.Signals
}

// Registers returns a copy of the register file.
func (sim *Simulator) Registers() [cpu.NUM_REGS]int32 {
	return sim.Cpu.Reg
}

// Words iterates the non-zero 4-byte-aligned data memory words with their
// byte addresses, in address order.
func (sim *Simulator) Words() iter.Seq2[uint32, int32] {
	return func(yield func(addr uint32, value int32) bool) {
		for addr := 0; addr+4 <= len(sim.Cpu.Mem); addr += 4 {
			value, err := sim.Cpu.ReadWord(int32(addr))
			if err != nil || value == 0 {
				continue
			}
			if !yield(uint32(addr), value) {
				return
			}
		}
	}
}

// NextInstruction returns the 32-character binary text of the instruction
// at the program counter; ok is false past the end of the program.
func (sim *Simulator) NextInstruction() (text string, ok bool) {
	index := int(sim.Cpu.Pc / 4)
	if index >= len(sim.Cpu.IMem) {
		return
	}

	return cpu.Decode(sim.Cpu.IMem[index]).Binary(), true
}

// Lines returns the raw program text lines as loaded.
func (sim *Simulator) Lines() []string {
	return sim.Program.Lines
}

// String returns the current signals, register file, data memory, and next
// instruction as a display dump.
func (sim *Simulator) String() (text string) {
	text = sim.Signals().String() + "\n"
	text += sim.Cpu.String()

	empty := true
	for addr, value := range sim.Words() {
		text += fmt.Sprintf("mem[%#04x]: %v\n", addr, value)
		empty = false
	}
	if empty {
		text += "mem: empty\n"
	}

	next, ok := sim.NextInstruction()
	if !ok {
		next = "end of program"
	}
	text += fmt.Sprintf("next: %v\n", next)

	return
}
