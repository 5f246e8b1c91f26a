// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/unicycle/cpu"
	"github.com/ezrec/unicycle/simulator"
)

// saveListing writes the binary text listing of a program.
func saveListing(prog *cpu.Program, output string) (err error) {
	ouf := os.Stdout
	if output != "-" {
		ouf, err = os.Create(output)
		if err != nil {
			return
		}
		defer ouf.Close()
	}

	w := bufio.NewWriter(ouf)
	for line := range prog.Listing() {
		fmt.Fprintln(w, line)
	}

	return w.Flush()
}

func main() {
	var compile string
	var output string
	var steps int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&output, "o", "", "write assembled binary text ('-' for stdout)")
	flag.IntVar(&steps, "steps", 0, "maximum cycles to run (0 = unbounded)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	sim := simulator.NewSimulator()
	sim.Verbose = verbose

	var prog *cpu.Program

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range sim.Defines() {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		if len(output) != 0 {
			err = saveListing(prog, output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
		}
	}

	// Load a binary text program.
	if flag.NArg() == 1 {
		name := flag.Arg(0)
		inf, err := os.Open(name)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		defer inf.Close()

		prog, err = cpu.LoadProgram(inf)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
	}

	if prog == nil {
		log.Fatalf("%v: no program to run", os.Args[0])
	}

	if len(output) != 0 && flag.NArg() == 0 {
		// Assemble-only: the listing was written, nothing to run.
		return
	}

	sim.Load(prog)

	var cycles int
	var err error
	if steps > 0 {
		cycles, err = sim.RunLimit(steps)
	} else {
		cycles, err = sim.Run()
	}
	if err != nil {
		log.Printf("%v", err)
	}

	fmt.Printf("%v cycles\n%v", cycles, sim)
}
