package treeset_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/manipulation"
	"github.com/esd-univr/hif-core-sub007/treeset"
)

func incAndTrack(active, maxActive *int32) int32 {
	cur := atomic.AddInt32(active, 1)
	for {
		prev := atomic.LoadInt32(maxActive)
		if cur <= prev || atomic.CompareAndSwapInt32(maxActive, prev, cur) {
			break
		}
	}
	return cur
}

func dec(active *int32) {
	atomic.AddInt32(active, -1)
}

func buildIntTree(v int64) (*hifast.Tree, hifast.Handle) {
	t := hifast.NewTree()
	f := hifast.NewFactory(t)
	root := f.IntValue(v)
	return t, root
}

func TestRunAllPreservesOrderAcrossJobs(t *testing.T) {
	var jobs []treeset.Job
	for i := int64(0); i < 8; i++ {
		tr, root := buildIntTree(i)
		jobs = append(jobs, treeset.Job{Name: "tree", Tree: tr, Root: root})
	}

	results, err := treeset.RunAll(context.Background(), jobs, func(_ context.Context, job treeset.Job) (*manipulation.Result, error) {
		n := job.Tree.Get(job.Root)
		return &manipulation.Result{
			Status: manipulation.StatusSuccess,
			Stats:  manipulation.Stats{NodesVisited: int(n.Value.IntLit)},
		}, nil
	})
	require.NoError(t, err)
	require.Len(t, results, 8)
	for i, r := range results {
		assert.Equal(t, i, r.Result.Stats.NodesVisited)
	}
}

func TestRunAllPropagatesFirstError(t *testing.T) {
	tr1, root1 := buildIntTree(1)
	tr2, root2 := buildIntTree(2)
	jobs := []treeset.Job{
		{Name: "ok", Tree: tr1, Root: root1},
		{Name: "bad", Tree: tr2, Root: root2},
	}

	boom := errors.New("boom")
	_, err := treeset.RunAll(context.Background(), jobs, func(_ context.Context, job treeset.Job) (*manipulation.Result, error) {
		if job.Name == "bad" {
			return nil, boom
		}
		return &manipulation.Result{Status: manipulation.StatusSuccess}, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunAllRunsJobsConcurrentlyUpToLimit(t *testing.T) {
	prev := treeset.Limit
	treeset.Limit = 2
	defer func() { treeset.Limit = prev }()

	var jobs []treeset.Job
	for i := 0; i < 4; i++ {
		tr, root := buildIntTree(int64(i))
		jobs = append(jobs, treeset.Job{Name: "tree", Tree: tr, Root: root})
	}

	var active, maxActive int32
	results, err := treeset.RunAll(context.Background(), jobs, func(_ context.Context, _ treeset.Job) (*manipulation.Result, error) {
		cur := incAndTrack(&active, &maxActive)
		defer dec(&active)
		_ = cur
		return &manipulation.Result{Status: manipulation.StatusSuccess}, nil
	})
	require.NoError(t, err)
	assert.Len(t, results, 4)
	assert.LessOrEqual(t, maxActive, int32(2))
}
