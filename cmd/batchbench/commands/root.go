// Package commands implements the CLI commands for batchbench, a load
// generator for the batch iterator.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CLI represents the command line interface for batchbench.
type CLI struct {
	rootCmd *cobra.Command
	out     io.Writer
}

// New creates a new CLI instance writing reports to out.
func New(out io.Writer) *CLI {
	rootCmd := &cobra.Command{
		Use:           "batchbench",
		Short:         "Drive a batch iterator with a synthetic producer and report batch statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML iterator configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log iterator events to stderr")

	c := &CLI{
		rootCmd: rootCmd,
		out:     out,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
