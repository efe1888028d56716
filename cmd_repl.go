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
)

// replCmd starts an interactive tree-walking session.
type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start an interactive Nilan session" }
func (*replCmd) Usage() string {
	return "repl:\n  Start an interactive tree-walking session.\n"
}
func (*replCmd) SetFlags(f *flag.FlagSet) {}

func (r *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start line editor: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	session := NewSession(os.Stdout)
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return subcommands.ExitSuccess
			}
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return subcommands.ExitSuccess
		}

		if trimmed == ":env" {
			for _, name := range session.GlobalNames() {
				fmt.Println(name)
			}
			continue
		}

		session.Run(line, os.Stderr)
	}
}
