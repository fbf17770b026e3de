// Command boxmux renders a declarative terminal UI layout. Entry point
// only: all behavior lives in internal/cmd, the way the teacher keeps its
// main.go a one-line call into internal/cmd.NewRootCmd.
package main

import "boxmux/internal/cmd"

func main() {
	root := cmd.NewRootCmd()
	root.Execute()
}
