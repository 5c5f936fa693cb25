package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/ledger"
	"github.com/esd-univr/hif-core-sub007/manipulation"
)

func openTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Open(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestRecordRunPersistsStatsAndDiagnostics(t *testing.T) {
	l := openTestLedger(t)

	res := &manipulation.Result{
		Status:  manipulation.StatusPartial,
		IsFixed: true,
		Stats: manipulation.Stats{
			NodesVisited: 12,
			NodesFixed:   3,
			Duration:     5 * time.Millisecond,
		},
		Diagnostics: []manipulation.Diagnostic{
			{Severity: "warning", Message: "truncated constant", NodeDesc: "IntValue(255)"},
		},
	}

	id, err := l.RecordRun("transformConstant", res)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	runs, err := l.Runs("transformConstant")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "partial", runs[0].Status)
	assert.True(t, runs[0].IsFixed)
	assert.Equal(t, 12, runs[0].NodesSeen)
	assert.Equal(t, 3, runs[0].NodesFixed)
	require.Len(t, runs[0].Diagnostics, 1)
	assert.Equal(t, "truncated constant", runs[0].Diagnostics[0].Message)
}

func TestRunsFiltersByPassName(t *testing.T) {
	l := openTestLedger(t)

	ok := &manipulation.Result{Status: manipulation.StatusSuccess}
	_, err := l.RecordRun("expandAliases", ok)
	require.NoError(t, err)
	_, err = l.RecordRun("fixUnsupportedBits", ok)
	require.NoError(t, err)

	runs, err := l.Runs("expandAliases")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "expandAliases", runs[0].Pass)

	all, err := l.Runs("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCheckpointRecordsAgainstRun(t *testing.T) {
	l := openTestLedger(t)

	id, err := l.RecordRun("resolveTemplates", &manipulation.Result{Status: manipulation.StatusSuccess})
	require.NoError(t, err)

	err = l.Checkpoint(id, "before-print", []byte(`{"note":"pre-serialize snapshot"}`))
	assert.NoError(t, err)
}
