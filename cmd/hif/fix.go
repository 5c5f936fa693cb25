package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/esd-univr/hif-core-sub007/config"
	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/instancecache"
	"github.com/esd-univr/hif-core-sub007/ledger"
	"github.com/esd-univr/hif-core-sub007/manipulation"
	"github.com/esd-univr/hif-core-sub007/resolver"
	"github.com/esd-univr/hif-core-sub007/semantics"
	"github.com/esd-univr/hif-core-sub007/serialize"
)

// newFixCommand runs the standard fix-up pipeline (resolveTemplates,
// fixTemplateParameters, expandAliases, fixUnsupportedBits) over a .hif.xml
// file and prints the result, recording each pass's Result to a ledger.
func newFixCommand(cfg *config.Config) *cobra.Command {
	var ledgerPath string
	var onlyBinaryBits bool
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "fix <file.hif.xml>",
		Short: "Run the manipulation pipeline over a tree and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sem, err := semantics.Default().Get(cfg.Semantics)
			if err != nil {
				return err
			}

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

			before := serialize.PrintHIF(tree, root, serialize.PrintOptions{})

			res := resolver.New(tree, cfg.ResolverCacheSize)
			cache := instancecache.New(tree)

			l, err := ledger.Open(ledgerPath, false)
			if err != nil {
				return err
			}
			defer l.Close()

			runPass := func(name string, r *manipulation.Result) error {
				if _, err := l.RecordRun(name, r); err != nil {
					return fmt.Errorf("record %s: %w", name, err)
				}
				return nil
			}

			if err := runPass("resolveTemplates", manipulation.ResolveTemplates(tree, root, res, cache, manipulation.DefaultResolveTemplatesOptions())); err != nil {
				return err
			}
			if err := runPass("fixTemplateParameters", manipulation.FixTemplateParameters(tree, root, res, manipulation.DefaultFixTemplateOptions())); err != nil {
				return err
			}
			if err := runPass("expandAliases", manipulation.ExpandAliases(tree, root, res)); err != nil {
				return err
			}
			bitsOpt := manipulation.DefaultFixUnsupportedBitsOptions()
			bitsOpt.OnlyBinaryBits = onlyBinaryBits
			if err := runPass("fixUnsupportedBits", manipulation.FixUnsupportedBits(tree, root, sem, bitsOpt)); err != nil {
				return err
			}

			out, err := printTree(tree, root, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)

			if showDiff {
				after := serialize.PrintHIF(tree, root, serialize.PrintOptions{})
				if d := serialize.Diff(before, after); d != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), d)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ledgerPath, "ledger", "hif-ledger.sqlite", "sqlite file recording each pass run")
	cmd.Flags().BoolVar(&onlyBinaryBits, "only-binary-bits", false, "force X/Z bits down to 0/1 under two-valued semantics")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a unified diff of the tree's textual form before/after the pipeline ran")
	return cmd
}

func printTree(tree *hifast.Tree, root hifast.Handle, cfg *config.Config) (string, error) {
	if cfg.OutputFormat == "xml" {
		data, err := serialize.PrintXML(tree, root)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	opt := serialize.PrintOptions{
		PrintComments:            cfg.PrintComments,
		ExcludeStandardLibraries: cfg.ExcludeStandardLibraries,
		IsStandardLibrary:        stdlibFilter.Match,
	}
	return serialize.PrintHIF(tree, root, opt), nil
}

// stdlibFilter is the shared standard-library predicate for both the print
// side (PrintOptions.IsStandardLibrary) and the read side
// (serialize.ReadOptions.IsStandardLibrary, SPEC_FULL.md §6.3/§6.4).
var stdlibFilter = semantics.NewStandardLibraryFilter()
