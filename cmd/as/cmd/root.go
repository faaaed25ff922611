// Package cmd is the command-line launcher: spec.md §6 treats it as an
// external collaborator to the core, not part of its scope, but it is
// still built the way the teacher builds its cobra-based entry points
// (cmd/dwscript/cmd/root.go), narrowed to the exact flag surface spec.md
// §6 names — a single positional filename argument and one `-i` flag,
// no subcommands.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ascript/as/pkg/as"
	"github.com/spf13/cobra"
)

// Version is the identification banner's version string.
var Version = "0.1.0-dev"

// out is where banners and print() output go; tests redirect it.
var out io.Writer = os.Stdout

var identify bool

var rootCmd = &cobra.Command{
	Use:          "as <filename>",
	Short:        "Run a script",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVarP(&identify, "identify", "i", false, "print an identification banner and exit")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func run(_ *cobra.Command, args []string) error {
	if identify {
		fmt.Fprintf(out, "as %s — a small dynamically typed scripting language\n", Version)
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("usage: as <filename>")
	}
	filename := args[0]

	fmt.Fprintf(out, "Running %s...\n\n", filename)

	prog := as.New(as.WithOutput(out))
	if _, err := prog.RunFile(filename); err != nil {
		if se, ok := err.(*as.SourceError); ok {
			return fmt.Errorf("%s", se.Format(false))
		}
		return err
	}
	return nil
}
