// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package noise

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("noise: invalid displacement parameters")

// MaxOctaves bounds Params.Octaves.
const MaxOctaves = 32

// FractalLimit caps sum^Exponentiation, and Validate rejects parameters whose
// shaped octave sum could exceed it. Three passes of it stay finite in float32.
const FractalLimit = 1e30

// Mode selects how fractal evaluations are combined into a height.
type Mode uint32

const (
	// ModeFeedback sums three evaluations, each sampled at a point raised by
	// the previous one.
	ModeFeedback Mode = iota
	// ModeSingle uses one evaluation. Cheaper, and visibly smoother.
	ModeSingle
)

func (m Mode) String() string {
	switch m {
	case ModeFeedback:
		return "feedback"
	case ModeSingle:
		return "single"
	default:
		return fmt.Sprintf("Mode(%d)", uint32(m))
	}
}

// Passes returns the number of fractal evaluations per vertex.
func (m Mode) Passes() uint32 {
	if m == ModeSingle {
		return 1
	}
	return 3
}

// Params controls displacement. Params is a value type: callers build a new
// one for every regeneration instead of mutating shared state.
type Params struct {
	Amplitude      float32 // first-octave weight; later octaves are scaled by 0.2 each
	Frequency      float32 // first-octave frequency
	Offset         float32 // divides frequency; larger values stretch features
	DistortHeight  float32 // multiplier applied after exponentiation
	Exponentiation float32 // power applied to the octave sum
	Lacunarity     float32 // frequency multiplier per octave
	Octaves        int
	PosX, PosY     float32 // translation of the sampling domain
	MaxHeight      float32 // upper bound on the added height
	Mode           Mode
}

// DefaultParams returns the stock mountain range.
func DefaultParams() Params {
	return Params{
		Amplitude:      1.4,
		Frequency:      0.11,
		Offset:         100,
		DistortHeight:  10,
		Exponentiation: 2.6,
		Lacunarity:     3.4,
		Octaves:        10,
		PosX:           34,
		PosY:           18,
		MaxHeight:      1000,
		Mode:           ModeFeedback,
	}
}

// Validate reports parameters that would produce NaN or unbounded work.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float32
	}{
		{"amplitude", p.Amplitude},
		{"frequency", p.Frequency},
		{"offset", p.Offset},
		{"distort height", p.DistortHeight},
		{"exponentiation", p.Exponentiation},
		{"lacunarity", p.Lacunarity},
		{"posX", p.PosX},
		{"posY", p.PosY},
		{"max height", p.MaxHeight},
	} {
		if math.IsNaN(float64(f.v)) || math.IsInf(float64(f.v), 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, f.name)
		}
	}
	switch {
	case p.Offset == 0:
		return fmt.Errorf("%w: offset must be non-zero", ErrInvalidParams)
	case p.Amplitude < 0:
		return fmt.Errorf("%w: amplitude %v is negative", ErrInvalidParams, p.Amplitude)
	case p.Exponentiation < 0:
		return fmt.Errorf("%w: exponentiation %v is negative", ErrInvalidParams, p.Exponentiation)
	case p.Octaves < 0 || p.Octaves > MaxOctaves:
		return fmt.Errorf("%w: octaves %d outside [0, %d]", ErrInvalidParams, p.Octaves, MaxOctaves)
	case p.Mode != ModeFeedback && p.Mode != ModeSingle:
		return fmt.Errorf("%w: unknown mode %v", ErrInvalidParams, p.Mode)
	}
	if g := p.peakGrowth(); g > FractalLimit || g*math.Abs(float64(p.DistortHeight)) > FractalLimit {
		return fmt.Errorf("%w: amplitude %v with exponentiation %v and distort height %v overflows",
			ErrInvalidParams, p.Amplitude, p.Exponentiation, p.DistortHeight)
	}
	return nil
}

// peakGrowth bounds sum^Exponentiation. Each octave adds at most its
// amplitude, so the sum never exceeds Amplitude·(1-0.2^Octaves)/0.8.
func (p Params) peakGrowth() float64 {
	peak := float64(p.Amplitude) * (1 - math.Pow(0.2, float64(p.Octaves))) / 0.8
	return math.Pow(math.Max(peak, 1), float64(p.Exponentiation))
}
