// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scatter

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/terrain/internal/logging"
	"github.com/gogpu/terrain/internal/seedrand"
)

// cancelCheckInterval is how many attempts run between context checks.
const cancelCheckInterval = 1024

// preallocLimit caps the up-front transform allocation; a pass that places
// more grows the slice as it goes.
const preallocLimit = 4096

// State is the phase of a scatter pass.
type State uint32

const (
	StateIdle State = iota
	StateCollectFaces
	StateSampleLoop
	// StateDone means every requested instance was placed.
	StateDone
	// StateExhausted means the pass ended early: no face touched the
	// volume, or the attempt cap was reached.
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateCollectFaces:
		return "CollectFaces"
	case StateSampleLoop:
		return "SampleLoop"
	case StateDone:
		return "Done"
	case StateExhausted:
		return "Exhausted"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// Result is the outcome of one completed pass.
type Result struct {
	// Transforms are instance matrices in placement order.
	Transforms []mgl64.Mat4
	// Requested is the configured instance count.
	Requested int
	// Attempts is the number of face draws made.
	Attempts int
	// State is StateDone or StateExhausted for a completed pass and
	// StateIdle before the first one.
	State State
}

// Count returns the number of placed instances.
func (r Result) Count() int { return len(r.Transforms) }

// Float32 returns the transforms as consecutive column-major float32
// matrices, the layout instanced draws upload.
func (r Result) Float32() []float32 {
	out := make([]float32, 0, len(r.Transforms)*16)
	for _, m := range r.Transforms {
		for _, v := range m {
			out = append(out, float32(v))
		}
	}
	return out
}

// Sampler runs scatter passes for one volume and configuration and keeps
// the last published result. Passes on one Sampler are serialised.
type Sampler struct {
	mu     sync.Mutex
	volume Volume
	cfg    Config
	last   Result
	state  atomic.Uint32
}

// NewSampler validates volume and cfg.
func NewSampler(volume Volume, cfg Config) (*Sampler, error) {
	if err := volume.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sampler{volume: volume, cfg: cfg}, nil
}

// Config returns the sampler's configuration.
func (s *Sampler) Config() Config { return s.cfg }

// Volume returns the sampler's volume.
func (s *Sampler) Volume() Volume { return s.volume }

// InstanceCount returns the number of instances a pass requests.
func (s *Sampler) InstanceCount() int { return s.cfg.InstanceCount() }

// State returns the phase of the running pass, or the final state of the
// last one.
func (s *Sampler) State() State { return State(s.state.Load()) }

// Result returns the last published result.
func (s *Sampler) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Run performs a full pass over m and publishes its result.
//
// An unreadable mesh is logged and reported as ErrInvalidMeshReference with
// the previous result returned unchanged. Cancellation likewise publishes
// nothing and returns the previous result with ctx.Err().
func (s *Sampler) Run(ctx context.Context, m Mesh) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkMesh(m); err != nil {
		logging.Logger().Warn("scatter: provided mesh reference is not a valid mesh", "err", err)
		return s.last, err
	}

	prev := s.State()
	res, err := s.pass(ctx, m)
	if err != nil {
		s.state.Store(uint32(prev))
		return s.last, err
	}
	s.last = res
	s.state.Store(uint32(res.State))
	return res, nil
}

func (s *Sampler) pass(ctx context.Context, m Mesh) (Result, error) {
	cfg := s.cfg
	res := Result{Requested: cfg.InstanceCount()}

	s.state.Store(uint32(StateCollectFaces))
	lo, hi := s.volume.WorldBounds()
	faces := collectFaces(m, lo, hi)
	if len(faces) == 0 {
		logging.Logger().Warn("scatter: no mesh faces intersect the scatter volume", "seed", cfg.Seed)
		res.State = StateExhausted
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// cumulative[i] is the area of faces[0..i]; the first entry >= r is the
	// face a linear accumulation would stop at.
	cumulative := make([]float64, len(faces))
	total := 0.0
	for i, f := range faces {
		total += f.area
		cumulative[i] = total
	}

	rng := seedrand.New(cfg.StreamSeed())
	inverse := s.volume.Transform.Inv()
	limit := cfg.attemptCap()
	res.Transforms = make([]mgl64.Mat4, 0, min(res.Requested, preallocLimit))

	s.state.Store(uint32(StateSampleLoop))
	for len(res.Transforms) < res.Requested {
		if res.Attempts >= limit {
			logging.Logger().Warn("scatter: attempt limit reached",
				"seed", cfg.Seed, "placed", len(res.Transforms), "requested", res.Requested, "attempts", res.Attempts)
			if len(res.Transforms) == 0 {
				logging.Logger().Warn("scatter: no valid points sampled within the scatter volume", "seed", cfg.Seed)
			}
			res.State = StateExhausted
			return res, nil
		}
		if res.Attempts%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		res.Attempts++

		r := rng.Float64() * total
		fi := sort.SearchFloat64s(cumulative, r)
		if fi == len(faces) {
			fi = len(faces) - 1
		}

		u, v := rng.Float64(), rng.Float64()
		if u+v > 1 {
			u, v = 1-u, 1-v
		}
		p := faces[fi].point(u, v)

		local := transformPoint(inverse, p)
		if !s.volume.containsLocal(local) {
			continue
		}
		if cfg.DensityMap != nil {
			h := s.volume.HalfExtents
			b := cfg.DensityMap.Brightness((local[0]+h[0])/(2*h[0]), (local[2]+h[2])/(2*h[2]))
			if rng.Float64() > b {
				continue
			}
		}
		res.Transforms = append(res.Transforms, instance(rng, cfg, p))
	}
	res.State = StateDone
	return res, nil
}

// instance builds T·Rx·Ry·Rz·S for an accepted point, drawing scale before
// rotation when either is randomised.
func instance(rng *seedrand.Stream, cfg Config, p mgl64.Vec3) mgl64.Mat4 {
	scale := cfg.Scale
	if cfg.RandomScale {
		k := rng.Range(cfg.ScaleMin, cfg.ScaleMax)
		scale = mgl64.Vec3{k, k, k}
	}
	rot := cfg.Rotation
	if cfg.RandomRotation {
		for i := range rot {
			rot[i] = rng.Range(cfg.RotationMin, cfg.RotationMax)
		}
	}
	pos := p.Add(cfg.Offset)
	return mgl64.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(mgl64.HomogRotate3DX(rot[0])).
		Mul4(mgl64.HomogRotate3DY(rot[1])).
		Mul4(mgl64.HomogRotate3DZ(rot[2])).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}
