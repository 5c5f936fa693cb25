package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// FlagSet builds the pflag.FlagSet cmd/hif parses, seeded with cfg's
// env-derived defaults so a flag only needs to be passed when overriding
// the environment, grounded on internal/config/cli.go's flag-set builder.
func FlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("hif", pflag.ContinueOnError)
	fs.StringVar(&cfg.Semantics, "semantics", cfg.Semantics, "target semantics (hif, verilog)")
	fs.IntVar(&cfg.ResolverCacheSize, "resolver-cache", cfg.ResolverCacheSize, "resolver LRU size")
	fs.IntVar(&cfg.TemplateCacheSize, "template-cache", cfg.TemplateCacheSize, "template instance cache size")
	fs.BoolVar(&cfg.PrintComments, "comments", cfg.PrintComments, "include comments in textual output")
	fs.BoolVar(&cfg.ExcludeStandardLibraries, "exclude-stdlib", cfg.ExcludeStandardLibraries, "omit standard library declarations from output")
	fs.BoolVar(&cfg.LoadStandardLibrary, "load-stdlib", cfg.LoadStandardLibrary, "keep standard library declarations when reading a tree")
	fs.StringVar(&cfg.OutputFormat, "format", cfg.OutputFormat, "output format: hif or xml")
	return fs
}

// Parse loads Config from the environment, then applies CLI overrides from
// args, validating the result.
func Parse(args []string) (*Config, error) {
	cfg := Load()
	fs := FlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects option combinations no caller should actually reach.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "hif", "xml":
	default:
		return fmt.Errorf("config: unknown output format %q (want hif or xml)", c.OutputFormat)
	}
	if c.ResolverCacheSize <= 0 {
		return fmt.Errorf("config: resolver cache size must be positive, got %d", c.ResolverCacheSize)
	}
	return nil
}
