// Package main is the entry point for the batchbench CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MasterOfBinary/batchiter/cmd/batchbench/commands"
)

func main() {
	cli := commands.New(os.Stdout)
	if err := cli.Execute(context.Background()); err != nil {
		// pkg/errors prints the stack trace with %+v
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
