// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package terrain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/terrain/displace"
	"github.com/gogpu/terrain/internal/logging"
	"github.com/gogpu/terrain/mesh"
	"github.com/gogpu/terrain/noise"
	"github.com/gogpu/terrain/scatter"
	"github.com/gogpu/terrain/uv"
)

var (
	// ErrSuperseded is returned by a regeneration that finished after a
	// newer one was requested. The mesh keeps its previous contents.
	ErrSuperseded = errors.New("terrain: regeneration superseded")

	// ErrClosed is returned by operations on a closed Surface.
	ErrClosed = errors.New("terrain: surface closed")
)

// Commit describes one applied regeneration.
type Commit struct {
	Generation uint64
	Params     noise.Params
	Path       displace.Path
	Dirty      mesh.Attribute
	Elapsed    time.Duration
}

// Surface is a displaced grid mesh with its derived attributes.
//
// All methods are safe for concurrent use. Regenerations compute into
// private buffers and swap them in under the write lock, so View and
// Scatter always observe one complete generation.
type Surface struct {
	opts options

	mu        sync.RWMutex
	grid      *mesh.Grid
	params    noise.Params
	committed uint64

	disp *displace.Pipeline
	proj *uv.Projector

	latest atomic.Uint64
	ctx    context.Context
	cancel context.CancelFunc

	schedMu       sync.Mutex
	idle          *sync.Cond
	inflight      int
	timer         *time.Timer
	pendingGen    uint64
	pendingParams noise.Params
	closed        bool
}

// New creates a resolution×resolution surface spanning width along X and
// height along Z, then generates it once with the configured parameters.
func New(resolution int, width, height float32, opts ...Option) (*Surface, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.params.Validate(); err != nil {
		return nil, err
	}

	grid, err := mesh.NewGrid(resolution, width, height)
	if err != nil {
		return nil, err
	}

	var dopts []displace.Option
	if o.device != nil {
		dopts = append(dopts, displace.WithDevice(o.device))
	}
	if o.primitive != nil {
		dopts = append(dopts, displace.WithPrimitive(o.primitive))
	}
	disp, err := displace.New(noise.New(o.seed), dopts...)
	if err != nil {
		return nil, err
	}
	proj, err := uv.New(uv.WithDevice(o.device))
	if err != nil {
		disp.Close()
		return nil, err
	}

	s := &Surface{
		opts: o,
		grid: grid,
		disp: disp,
		proj: proj,
	}
	s.idle = sync.NewCond(&s.schedMu)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if _, err := s.Regenerate(context.Background(), o.params); err != nil {
		s.Close()
		return nil, fmt.Errorf("terrain: initial generation: %w", err)
	}
	return s, nil
}

// Regenerate recomputes the whole surface from params and commits it,
// unless a newer generation was requested meanwhile, in which case it
// returns ErrSuperseded.
func (s *Surface) Regenerate(ctx context.Context, params noise.Params) (Commit, error) {
	if err := params.Validate(); err != nil {
		return Commit{}, err
	}
	s.schedMu.Lock()
	closed := s.closed
	s.schedMu.Unlock()
	if closed {
		return Commit{}, ErrClosed
	}
	return s.generate(ctx, s.latest.Add(1), params)
}

// Schedule requests a regeneration after the debounce period and returns
// its generation. A later Schedule or Regenerate supersedes it.
func (s *Surface) Schedule(params noise.Params) uint64 {
	gen := s.latest.Add(1)

	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	if s.closed {
		return gen
	}
	s.stopTimerLocked()

	s.inflight++
	s.pendingGen, s.pendingParams = gen, params
	s.timer = time.AfterFunc(s.opts.debounce, func() {
		s.schedMu.Lock()
		if s.pendingGen == gen {
			s.timer, s.pendingGen = nil, 0
		}
		s.schedMu.Unlock()
		s.runScheduled(gen, params)
	})
	return gen
}

// Flush starts any pending scheduled regeneration immediately and waits
// for every scheduled run to finish.
func (s *Surface) Flush() {
	s.schedMu.Lock()
	if s.timer != nil && s.timer.Stop() {
		gen, params := s.pendingGen, s.pendingParams
		s.timer, s.pendingGen = nil, 0
		s.schedMu.Unlock()
		s.runScheduled(gen, params)
		s.schedMu.Lock()
	}
	for s.inflight > 0 {
		s.idle.Wait()
	}
	s.schedMu.Unlock()
}

// Close cancels pending and running regenerations and releases device
// kernels. It is safe to call more than once.
func (s *Surface) Close() {
	s.schedMu.Lock()
	if s.closed {
		s.schedMu.Unlock()
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.schedMu.Unlock()

	s.cancel()
	s.Flush()
	s.disp.Close()
	s.proj.Close()
}

func (s *Surface) stopTimerLocked() {
	if s.timer != nil && s.timer.Stop() {
		s.inflight--
		if s.inflight == 0 {
			s.idle.Broadcast()
		}
	}
	s.timer, s.pendingGen = nil, 0
}

func (s *Surface) runScheduled(gen uint64, params noise.Params) {
	defer func() {
		s.schedMu.Lock()
		s.inflight--
		if s.inflight == 0 {
			s.idle.Broadcast()
		}
		s.schedMu.Unlock()
	}()

	_, err := s.generate(s.ctx, gen, params)
	switch {
	case err == nil:
	case errors.Is(err, ErrSuperseded), errors.Is(err, context.Canceled):
		logging.Logger().Debug("terrain: scheduled generation dropped", "generation", gen, "err", err)
	default:
		logging.Logger().Warn("terrain: scheduled generation failed", "generation", gen, "err", err)
	}
}

// generate computes generation gen into scratch buffers and commits it if
// gen is still the newest request.
func (s *Surface) generate(ctx context.Context, gen uint64, params noise.Params) (Commit, error) {
	start := time.Now()
	n := s.grid.VertexCount()
	indices := s.grid.Indices()

	positions := make([]float32, n*3)
	path, err := s.disp.Run(ctx, params, s.grid.Original(), positions)
	if err != nil {
		return Commit{}, fmt.Errorf("terrain: displace: %w", err)
	}
	if s.latest.Load() != gen {
		return Commit{}, ErrSuperseded
	}

	normals := make([]float32, n*3)
	mesh.ComputeNormals(positions, indices, normals)

	uvs := make([]float32, n*2)
	if err := s.proj.Project(ctx, positions, uvs); err != nil {
		return Commit{}, fmt.Errorf("terrain: project uvs: %w", err)
	}

	var creases []float32
	if s.opts.crease > 0 {
		creases = make([]float32, n)
		mesh.ComputeCreaseDistance(positions, indices, s.opts.crease, creases)
	}

	s.mu.Lock()
	if s.latest.Load() != gen || gen <= s.committed {
		s.mu.Unlock()
		return Commit{}, ErrSuperseded
	}
	// Lengths match by construction; the setters cannot fail here.
	_ = s.grid.SetPositions(positions)
	_ = s.grid.SetNormals(normals)
	_ = s.grid.SetUVs(uvs)
	dirty := mesh.AttrPosition | mesh.AttrNormal | mesh.AttrUV
	if creases != nil {
		_ = s.grid.SetCreaseDistance(creases)
		dirty |= mesh.AttrCrease
	}
	s.params = params
	s.committed = gen
	s.mu.Unlock()

	c := Commit{Generation: gen, Params: params, Path: path, Dirty: dirty, Elapsed: time.Since(start)}
	logging.Logger().Debug("terrain: committed", "generation", gen, "path", path, "elapsed", c.Elapsed)
	if s.opts.onCommit != nil {
		s.opts.onCommit(c)
	}
	return c, nil
}

// View calls fn with the grid under the read lock. fn must not retain the
// grid's slices or call other Surface methods that lock.
func (s *Surface) View(fn func(g *mesh.Grid)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.grid)
}

// Generation returns the generation of the committed mesh.
func (s *Surface) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// Params returns the parameters of the committed mesh.
func (s *Surface) Params() noise.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Transform returns the surface's world transform.
func (s *Surface) Transform() mgl64.Mat4 { return s.opts.transform }

// DevicePath reports whether displacement will try the GPU first.
func (s *Surface) DevicePath() bool { return s.disp.HasDevice() }

// TakeDirty returns and clears the attributes changed since the last call.
func (s *Surface) TakeDirty() mesh.Attribute { return s.grid.Dirty().Take() }

// Snapshot copies the committed positions into a scatter mesh placed by
// the surface transform. The index buffer is shared; it never changes.
func (s *Surface) Snapshot() scatter.StaticMesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos := make([]float32, len(s.grid.Positions()))
	copy(pos, s.grid.Positions())
	return scatter.MeshAt(pos, s.grid.Indices(), s.opts.transform)
}

// Scatter runs sampler over a snapshot of the committed mesh.
func (s *Surface) Scatter(ctx context.Context, sampler *scatter.Sampler) (scatter.Result, error) {
	return sampler.Run(ctx, s.Snapshot())
}

// ScatterBatch runs samplers concurrently over one snapshot. workers <= 0
// uses GOMAXPROCS.
func (s *Surface) ScatterBatch(ctx context.Context, samplers []*scatter.Sampler, workers int) ([]scatter.Result, error) {
	snap := s.Snapshot()
	jobs := make([]scatter.Job, len(samplers))
	for i, sm := range samplers {
		jobs[i] = scatter.Job{Sampler: sm, Mesh: snap}
	}
	return scatter.Batch(ctx, jobs, workers)
}
