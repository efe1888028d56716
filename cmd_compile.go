package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nilan/compiler"
	"nilan/lexer"
)

// compileCmd compiles a script's single top-level expression to bytecode
// and prints its disassembly; see compiler.Compiler's doc comment for why
// the bytecode backend only ever handles one expression.
type compileCmd struct{}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "compile a single expression to bytecode and disassemble it" }
func (*compileCmd) Usage() string {
	return "compile <script>:\n  Compile a script's single expression and print its disassembly.\n"
}
func (*compileCmd) SetFlags(f *flag.FlagSet) {}

func (r *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: nilan compile <script>")
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

	fmt.Print(compiler.Disassemble(chunk))
	return subcommands.ExitSuccess
}
