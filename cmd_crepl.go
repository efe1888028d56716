package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"nilan/compiler"
	"nilan/lexer"
	"nilan/vm"
)

// creplCmd is the VM-backed counterpart to replCmd: each line is
// compiled and run as a single expression rather than resolved and
// tree-walked.
type creplCmd struct {
	debug bool
}

func (*creplCmd) Name() string     { return "crepl" }
func (*creplCmd) Synopsis() string { return "start an interactive VM-backed expression session" }
func (*creplCmd) Usage() string {
	return "crepl:\n  Start an interactive session that compiles and runs one expression per line.\n"
}
func (c *creplCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.debug, "debug", false, "trace the VM's stack and disassembly before each dispatch")
}

func (c *creplCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start line editor: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	machine := vm.New(c.debug, os.Stdout)
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return subcommands.ExitSuccess
			}
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "" {
			return subcommands.ExitSuccess
		}

		tokens, err := lexer.New(line).Scan()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		chunk, err := compiler.Compile(tokens)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if _, err := machine.Run(chunk); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
