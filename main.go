//go:build !(js || wasm)

package main

import (
	"os"

	"github.com/cottand/typex/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "typex [subcommand]",
	Short:        "typex\n runtime generic type expressions, Python typing style",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.EvalCmd)
	rootCmd.AddCommand(cmd.SubclassCmd)
	rootCmd.AddCommand(cmd.ReplCmd)
}
