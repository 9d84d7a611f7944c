// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scatter

import (
	"context"
	"runtime"

	"github.com/gogpu/terrain/internal/parallel"
)

// Job pairs a sampler with the mesh it scatters over.
type Job struct {
	Sampler *Sampler
	Mesh    Mesh
}

// Batch runs independent passes concurrently on up to workers goroutines
// (GOMAXPROCS when workers <= 0). results[i] belongs to jobs[i]; the error
// is the first failure by job index. Jobs sharing a Sampler run one after
// another.
func Batch(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	pool := parallel.NewWorkerPool(min(workers, max(len(jobs), 1)))
	defer pool.Close()

	results := make([]Result, len(jobs))
	err := pool.Run(ctx, len(jobs), func(ctx context.Context, i int) error {
		r, err := jobs[i].Sampler.Run(ctx, jobs[i].Mesh)
		results[i] = r
		return err
	})
	return results, err
}
