// Package treeset runs independent manipulation passes over independent
// trees concurrently, one goroutine per tree, grounded on core/filewalker.go's
// worker-pool shape (bounded parallelism sized off runtime.NumCPU, a
// context-cancellable unit of work per item) but built on
// golang.org/x/sync/errgroup rather than a hand-rolled sync.WaitGroup, since
// every job here already returns a single (*manipulation.Result, error) pair
// instead of a channel of incremental results.
//
// A tree's own mutation (hifast.Tree, manipulation passes, the resolver's
// LRU) is single-threaded and cooperative; nothing in this package relaxes
// that. treeset only pays the cost of running N *independent* trees' pass
// pipelines in parallel.
package treeset

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/esd-univr/hif-core-sub007/hifast"
	"github.com/esd-univr/hif-core-sub007/manipulation"
)

// Job names one tree's root and the pipeline run will be applied to it.
type Job struct {
	Name string
	Tree *hifast.Tree
	Root hifast.Handle
}

// JobResult pairs a Job's outcome back up by name, since errgroup loses
// ordering once jobs complete out of submission order.
type JobResult struct {
	Name   string
	Result *manipulation.Result
	Err    error
}

// Run is the pipeline a single Job is handed to; it owns all mutation of
// job.Tree and must not touch any other job's tree.
type Run func(ctx context.Context, job Job) (*manipulation.Result, error)

// Limit bounds how many jobs run at once. Zero means RunAll picks
// runtime.NumCPU()*2, matching FileWalker's I/O-bound sizing rationale (HIF
// passes are mostly pointer-chasing over an in-memory arena, closer to
// I/O-bound than CPU-bound per job).
var Limit = 0

// RunAll runs every job concurrently via run, returning one JobResult per
// job in the same order as jobs regardless of completion order. The first
// job error cancels ctx for the rest (errgroup.WithContext's default
// behavior) but RunAll still returns a JobResult for every job — including
// ones cancelled mid-run, whose Err is whatever run returned once its
// context was cancelled.
func RunAll(ctx context.Context, jobs []Job, run Run) ([]JobResult, error) {
	results := make([]JobResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	limit := Limit
	if limit <= 0 {
		limit = runtime.NumCPU() * 2
	}
	g.SetLimit(limit)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := run(gctx, job)
			results[i] = JobResult{Name: job.Name, Result: res, Err: err}
			return err
		})
	}

	err := g.Wait()
	return results, err
}
