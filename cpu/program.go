package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Program is a loaded program: the raw text lines as read, plus the
// instruction words parsed from them.
type Program struct {
	Lines []string // Raw text lines, in order.
	Words []uint32 // Parsed instruction words, in order.
}

// isBits reports whether a line is exactly 32 '0'/'1' characters.
func isBits(line string) bool {
	if len(line) != 32 {
		return false
	}
	for _, c := range line {
		if c != '0' && c != '1' {
			return false
		}
	}
	return true
}

// LoadProgram reads the binary text program format: every trimmed line of
// exactly 32 '0'/'1' characters is appended to the instruction words; all
// lines, parsed or not, are retained for display. A malformed line is not
// an error for the load.
func LoadProgram(r io.Reader) (prog *Program, err error) {
	prog = &Program{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		prog.Lines = append(prog.Lines, line)
		if !isBits(line) {
			continue
		}
		word, _ := strconv.ParseUint(line, 2, 32) // isBits vetted the line
		prog.Words = append(prog.Words, uint32(word))
	}
	err = scanner.Err()

	return
}

// Codes iterates the (index, word) pairs of the program. The word at index
// n executes when Pc == n*4.
func (prog *Program) Codes() iter.Seq2[int, uint32] {
	return func(yield func(index int, word uint32) bool) {
		for n, word := range prog.Words {
			if !yield(n, word) {
				return
			}
		}
	}
}

// Listing iterates the 32-character binary text of every parsed word, the
// same format LoadProgram consumes.
func (prog *Program) Listing() iter.Seq[string] {
	return func(yield func(line string) bool) {
		for _, word := range prog.Words {
			if !yield(fmt.Sprintf("%032b", word)) {
				return
			}
		}
	}
}
