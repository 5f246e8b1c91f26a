// Package cpu implements the single-cycle datapath and assembler for a
// nine-instruction RV32I subset (add, sub, and, or, addi, lw, sw, beq, bne).
//
// The machine consists of 32 general-purpose 32-bit registers (x0 hardwired
// to zero), a 4 KiB byte-addressable little-endian data memory, a word-indexed
// instruction memory, and a word-aligned program counter. Every instruction
// completes fetch, decode, execute, memory access, and writeback in a single
// Step call, latching the control signals a hardware datapath would assert.
//
// The assembler provides a small two-pass assembly language for the subset,
// supporting labels, equates, and compile-time expression evaluation, and
// emits the 32-character binary text format the program loader consumes.
package cpu
