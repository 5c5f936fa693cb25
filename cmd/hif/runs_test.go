package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/config"
	"github.com/esd-univr/hif-core-sub007/ledger"
	"github.com/esd-univr/hif-core-sub007/manipulation"
)

func TestRunsCommandListsRecordedRuns(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "ledger.sqlite")

	l, err := ledger.Open(ledgerPath, false)
	require.NoError(t, err)
	_, err = l.RecordRun("expandAliases", &manipulation.Result{Status: manipulation.StatusSuccess})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	cfg := &config.Config{}
	cmd := newRunsCommand(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--ledger", ledgerPath})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "expandAliases")
}
