package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/config"
)

func TestFixCommandRunsPipelineAndRecordsLedger(t *testing.T) {
	path := writeSampleXML(t)
	cfg := &config.Config{
		OutputFormat:      "hif",
		Semantics:         "hif",
		ResolverCacheSize: 32,
	}

	cmd := newFixCommand(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	ledgerPath := filepath.Join(t.TempDir(), "ledger.sqlite")
	cmd.SetArgs([]string{"--ledger", ledgerPath, path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "INT_VALUE")
}

func TestFixCommandRejectsUnknownSemantics(t *testing.T) {
	path := writeSampleXML(t)
	cfg := &config.Config{OutputFormat: "hif", Semantics: "vhdl"}

	cmd := newFixCommand(cfg)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	ledgerPath := filepath.Join(t.TempDir(), "ledger.sqlite")
	cmd.SetArgs([]string{"--ledger", ledgerPath, path})
	assert.Error(t, cmd.Execute())
}
