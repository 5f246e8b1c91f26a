// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// statement is a parsed instruction line awaiting encoding.
type statement struct {
	LineNo int      // Source line number.
	Line   string   // Source text.
	Words  []string // Parsed tokens, mnemonic first.
	Index  int      // Instruction word index; executes when Pc == Index*4.
}

// Assembler is a two-pass assembler for the nine-instruction subset.
// The first pass collects labels and equates; the second encodes each
// statement into a 32-bit word.
type Assembler struct {
	Verbose bool           // If set, verbosely logs the assembler actions.
	Label   map[string]int // Map of jump labels to instruction word indexes.
	Equate  map[string]string

	predefine map[string]string // Predefines
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// kindOf maps mnemonics to instruction kinds.
var kindOf = map[string]Kind{
	"add":  KIND_ADD,
	"sub":  KIND_SUB,
	"and":  KIND_AND,
	"or":   KIND_OR,
	"addi": KIND_ADDI,
	"lw":   KIND_LW,
	"sw":   KIND_SW,
	"beq":  KIND_BEQ,
	"bne":  KIND_BNE,
}

// expand resolves equate chains, bounded to avoid definition cycles.
func (asm *Assembler) expand(word string) string {
	for range 8 {
		value, ok := asm.Equate[word]
		if !ok {
			break
		}
		word = value
	}

	return word
}

// valueOf returns the numeric value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(asm.expand(word), 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
	}

	return
}

// regOf returns the register index of an x0-x31 register name.
func (asm *Assembler) regOf(word string) (reg uint32, err error) {
	word = asm.expand(word)
	if len(word) < 2 || word[0] != 'x' {
		err = ErrRegisterInvalid
		return
	}

	index, nerr := strconv.ParseUint(word[1:], 10, 8)
	if nerr != nil || index >= NUM_REGS {
		err = ErrRegisterInvalid
		return
	}

	reg = uint32(index)
	return
}

// immOf returns a signed immediate that must fit the given bit width.
func (asm *Assembler) immOf(word string, bits int) (imm int32, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	limit := int64(1) << (bits - 1)
	if value < -limit || value >= limit {
		err = ErrImmediateRange
		return
	}

	imm = int32(value)
	return
}

var memOperand = regexp.MustCompile(`^([^()]+)\(([^()]+)\)$`)

// memOf parses an "offset(reg)" memory operand.
func (asm *Assembler) memOf(word string) (offset int32, reg uint32, err error) {
	match := memOperand.FindStringSubmatch(word)
	if match == nil {
		err = ErrOpcodeArgs
		return
	}

	offset, err = asm.immOf(match[1], 12)
	if err != nil {
		return
	}

	reg, err = asm.regOf(match[2])
	return
}

// branchOf resolves a branch target, either a label or an even byte offset,
// relative to the branch instruction at the given word index.
func (asm *Assembler) branchOf(target string, index int) (offset int32, err error) {
	if dest, ok := asm.Label[target]; ok {
		delta := int64(dest-index) * 4
		if delta < -4096 || delta >= 4096 {
			err = ErrTargetInvalid
			return
		}
		offset = int32(delta)
		return
	}

	value, verr := asm.valueOf(target)
	if verr != nil {
		err = ErrLabelMissing(target)
		return
	}
	if (value&1) != 0 || value < -4096 || value >= 4096 {
		err = ErrTargetInvalid
		return
	}

	offset = int32(value)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value64, verr := strconv.ParseInt(str, 0, 64)
		if verr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
	}

	return
}

// parseLine strips comments, evaluates $(...) expressions, and tokenizes.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Strip ';' comments.
	if n := strings.IndexByte(line, ';'); n >= 0 {
		line = line[:n]
	}

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$)]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	line = strings.ReplaceAll(line, ",", " ")
	words = strings.Fields(line)

	return
}

// encode encodes a single statement into an instruction word.
func (asm *Assembler) encode(st statement) (word uint32, err error) {
	kind, ok := kindOf[strings.ToLower(st.Words[0])]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}
	args := st.Words[1:]

	switch kind {
	case KIND_ADD, KIND_SUB, KIND_AND, KIND_OR:
		if len(args) != 3 {
			err = ErrOpcodeArgs
			return
		}
		var rd, rs1, rs2 uint32
		if rd, err = asm.regOf(args[0]); err != nil {
			return
		}
		if rs1, err = asm.regOf(args[1]); err != nil {
			return
		}
		if rs2, err = asm.regOf(args[2]); err != nil {
			return
		}
		word = MakeCodeR(kind, rd, rs1, rs2)
	case KIND_ADDI:
		if len(args) != 3 {
			err = ErrOpcodeArgs
			return
		}
		var rd, rs1 uint32
		var imm int32
		if rd, err = asm.regOf(args[0]); err != nil {
			return
		}
		if rs1, err = asm.regOf(args[1]); err != nil {
			return
		}
		if imm, err = asm.immOf(args[2], 12); err != nil {
			return
		}
		word = MakeCodeI(kind, rd, rs1, imm)
	case KIND_LW:
		if len(args) != 2 {
			err = ErrOpcodeArgs
			return
		}
		var rd, rs1 uint32
		var offset int32
		if rd, err = asm.regOf(args[0]); err != nil {
			return
		}
		if offset, rs1, err = asm.memOf(args[1]); err != nil {
			return
		}
		word = MakeCodeI(kind, rd, rs1, offset)
	case KIND_SW:
		if len(args) != 2 {
			err = ErrOpcodeArgs
			return
		}
		var rs2, rs1 uint32
		var offset int32
		if rs2, err = asm.regOf(args[0]); err != nil {
			return
		}
		if offset, rs1, err = asm.memOf(args[1]); err != nil {
			return
		}
		word = MakeCodeS(rs2, rs1, offset)
	case KIND_BEQ, KIND_BNE:
		if len(args) != 3 {
			err = ErrOpcodeArgs
			return
		}
		var rs1, rs2 uint32
		var offset int32
		if rs1, err = asm.regOf(args[0]); err != nil {
			return
		}
		if rs2, err = asm.regOf(args[1]); err != nil {
			return
		}
		if offset, err = asm.branchOf(args[2], st.Index); err != nil {
			return
		}
		word = MakeCodeB(kind, rs1, rs2, offset)
	}

	return
}

// Parse assembles a program text. The resulting Program's Lines hold the
// 32-character binary listing, so it can be written out in the exact format
// LoadProgram consumes.
func (asm *Assembler) Parse(in io.Reader) (prog *Program, err error) {
	asm.Label = map[string]int{}
	asm.Equate = map[string]string{}
	for key, value := range sysEquate {
		asm.Equate[key] = value
	}
	for key, value := range asm.predefine {
		asm.Equate[key] = value
	}

	// Pass 1: tokenize, collect labels and equates.
	var stmts []statement
	scanner := bufio.NewScanner(in)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}

		for len(words) > 0 && strings.HasSuffix(words[0], ":") {
			label := strings.TrimSuffix(words[0], ":")
			if label == "" {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrOpcodeInvalid}
				return
			}
			if _, ok := asm.Label[label]; ok {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrLabelDuplicate}
				return
			}
			asm.Label[label] = len(stmts)
			words = words[1:]
		}

		if len(words) == 0 {
			continue
		}

		// .equ CONST VALUE
		if words[0] == ".equ" {
			if len(words) != 3 {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrEquateSyntax}
				return
			}
			if _, ok := asm.Equate[words[1]]; ok {
				err = ErrSyntax{LineNo: lineno, Line: line, Err: ErrEquateDuplicate}
				return
			}
			asm.Equate[words[1]] = words[2]
			continue
		}

		stmts = append(stmts, statement{
			LineNo: lineno,
			Line:   line,
			Words:  words,
			Index:  len(stmts),
		})
	}
	if err = scanner.Err(); err != nil {
		return
	}

	// Pass 2: encode, with all labels known.
	prog = &Program{}
	for _, st := range stmts {
		var word uint32
		word, err = asm.encode(st)
		if err != nil {
			err = ErrSyntax{LineNo: st.LineNo, Line: st.Line, Err: err}
			prog = nil
			return
		}
		prog.Words = append(prog.Words, word)
	}
	for line := range prog.Listing() {
		prog.Lines = append(prog.Lines, line)
	}

	if asm.Verbose {
		log.Printf("asm: %v labels, %v instructions", len(asm.Label), len(prog.Words))
	}

	return
}
