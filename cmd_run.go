package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// runCmd executes a script file through the tree-walking pipeline.
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "execute a Nilan script file" }
func (*runCmd) Usage() string {
	return "run <script>:\n  Execute Nilan source from a file.\n"
}
func (*runCmd) SetFlags(f *flag.FlagSet) {}

func (r *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: nilan run <script>")
		return subcommands.ExitStatus(exitUsage)
	}

	source, code := readSourceFile(args[0])
	if code != exitSuccess {
		return subcommands.ExitStatus(code)
	}

	session := NewSession(os.Stdout)
	return subcommands.ExitStatus(session.Run(source, os.Stderr))
}
