// Package cmd implements boxmux's command-line surface. Grounded on the
// teacher's internal/cmd/root.go: a single cobra root command, a
// PersistentPreRunE doing cross-cutting setup, and one file per
// subcommand.
package cmd

import (
	"github.com/spf13/cobra"

	"boxmux/internal/version"
)

// NewRootCmd creates the root cobra command with all subcommands wired.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "boxmux <config-path>",
		Short:   "Declarative terminal UI multiplexer",
		Long:    "boxmux renders a tree of muxboxes described by a YAML layout file, each optionally running a PTY or a scripted command.",
		Version: version.DisplayVersion(),
	}
	addRunFlags(rootCmd)

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
