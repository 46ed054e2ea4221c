// Command tscheck is the TensorScript type-checker CLI: it loads a
// JSON-encoded typed-IR source file (SPEC_FULL.md §D: the parser itself is
// out of scope, so this is the concrete contract downstream of wherever a
// real parser would hand off), runs the inference pipeline, and reports
// diagnostics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tscheck",
		Short: "TensorScript type checker",
	}
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newReplCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tscheck version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
