package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/esd-univr/hif-core-sub007/config"
	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/serialize"
)

// newPrintCommand parses a .hif.xml file and prints it back out in either
// format, with no manipulation passes applied — the read-and-echo sanity
// check a fix run's input deserves before a caller commits to rewriting it.
func newPrintCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print <file.hif.xml>",
		Short: "Parse and print a tree without running any manipulation pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			tree := hifast.NewTree()
			root, err := serialize.ParseXMLWithOptions(tree, data, serialize.ReadOptions{
				LoadStandardLibrary: cfg.LoadStandardLibrary,
				IsStandardLibrary:   stdlibFilter.Match,
			})
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			out, err := printTree(tree, root, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	return cmd
}
