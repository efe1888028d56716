package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nilan/compiler"
	"nilan/lexer"
	"nilan/vm"
)

// crunCmd runs a script's single top-level expression through the
// bytecode compiler and VM rather than the tree-walking interpreter.
type crunCmd struct {
	debug bool
}

func (*crunCmd) Name() string     { return "crun" }
func (*crunCmd) Synopsis() string { return "compile and run a single expression through the VM" }
func (*crunCmd) Usage() string {
	return "crun <script>:\n  Compile a script's single expression to bytecode and execute it.\n"
}
func (c *crunCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.debug, "debug", false, "trace the VM's stack and disassembly before each dispatch")
}

func (c *crunCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: nilan crun <script>")
		return subcommands.ExitStatus(exitUsage)
	}

	source, code := readSourceFile(args[0])
	if code != exitSuccess {
		return subcommands.ExitStatus(code)
	}

	tokens, err := lexer.New(source).Scan()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitStatus(exitDataErr)
	}

	chunk, err := compiler.Compile(tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitStatus(exitDataErr)
	}

	if _, err := vm.New(c.debug, os.Stdout).Run(chunk); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitStatus(exitSoftware)
	}
	return subcommands.ExitSuccess
}
