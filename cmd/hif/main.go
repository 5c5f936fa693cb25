// Command hif is the thin driver around this module's packages, grounded on
// demo/cmd/main.go's cobra root-plus-subcommand shape and cmd/morfx/main.go's
// config-then-run split.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/esd-univr/hif-core-sub007/config"
)

func main() {
	cfg := config.Load()

	root := &cobra.Command{
		Use:   "hif",
		Short: "Hardware Intermediate Format toolkit",
		Long:  "Read, fix, and print Hardware Intermediate Format trees.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if v, err := fs.GetString("semantics"); err == nil && v != "" {
				cfg.Semantics = v
			}
			if v, err := fs.GetString("format"); err == nil && v != "" {
				cfg.OutputFormat = v
			}
			if v, err := fs.GetBool("comments"); err == nil {
				cfg.PrintComments = v
			}
			if v, err := fs.GetBool("exclude-stdlib"); err == nil {
				cfg.ExcludeStandardLibraries = v
			}
			return cfg.Validate()
		},
	}
	root.PersistentFlags().String("semantics", cfg.Semantics, "target semantics (hif, verilog)")
	root.PersistentFlags().String("format", cfg.OutputFormat, "output format: hif or xml")
	root.PersistentFlags().Bool("comments", cfg.PrintComments, "include comments in textual output")
	root.PersistentFlags().Bool("exclude-stdlib", cfg.ExcludeStandardLibraries, "omit standard library declarations from output")

	root.AddCommand(
		newFixCommand(cfg),
		newPrintCommand(cfg),
		newRunsCommand(cfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hif: %v\n", err)
		os.Exit(1)
	}
}
