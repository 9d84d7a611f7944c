// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scatter

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidConfig is returned for configurations that cannot be sampled.
var ErrInvalidConfig = errors.New("scatter: invalid configuration")

// DefaultSeed is the seed used when none is configured.
const DefaultSeed = "defaultseed"

// MaxInstances bounds Config.Max.
const MaxInstances = 1 << 24

// Config controls one scatter pass.
type Config struct {
	Seed string

	// Density is a percentage in [0, 100] of the way from Min to Max.
	Density  float64
	Min, Max int

	// Offset is added to every sampled position.
	Offset mgl64.Vec3

	// Scale is used as is unless RandomScale is set, in which case each
	// instance gets a uniform scale drawn from [ScaleMin, ScaleMax).
	Scale              mgl64.Vec3
	ScaleMin, ScaleMax float64
	RandomScale        bool

	// Rotation holds XYZ Euler angles in radians. With RandomRotation each
	// axis is drawn independently from [RotationMin, RotationMax).
	Rotation                 mgl64.Vec3
	RotationMin, RotationMax float64
	RandomRotation           bool

	// DensityMap optionally biases placement; nil accepts everywhere.
	DensityMap *DensityMap

	// MaxAttempts caps face draws per pass. Zero selects
	// max(1000, 200*InstanceCount()).
	MaxAttempts int
}

// DefaultConfig returns the configuration used by the reference scene.
func DefaultConfig() Config {
	return Config{
		Seed:        DefaultSeed,
		Density:     100,
		Min:         0,
		Max:         100,
		Scale:       mgl64.Vec3{1, 1, 1},
		ScaleMin:    1,
		ScaleMax:    3,
		RotationMin: 0,
		RotationMax: 100,
	}
}

// Validate reports whether c can be sampled.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.Density) || c.Density < 0 || c.Density > 100:
		return fmt.Errorf("%w: density %v outside [0, 100]", ErrInvalidConfig, c.Density)
	case c.Min < 0 || c.Max < c.Min:
		return fmt.Errorf("%w: instance bounds [%d, %d]", ErrInvalidConfig, c.Min, c.Max)
	case c.Max > MaxInstances:
		return fmt.Errorf("%w: max %d exceeds %d", ErrInvalidConfig, c.Max, MaxInstances)
	case c.RandomScale && !(c.ScaleMin <= c.ScaleMax):
		return fmt.Errorf("%w: scale range [%v, %v)", ErrInvalidConfig, c.ScaleMin, c.ScaleMax)
	case c.RandomRotation && !(c.RotationMin <= c.RotationMax):
		return fmt.Errorf("%w: rotation range [%v, %v)", ErrInvalidConfig, c.RotationMin, c.RotationMax)
	case c.MaxAttempts < 0:
		return fmt.Errorf("%w: max attempts %d", ErrInvalidConfig, c.MaxAttempts)
	}
	return nil
}

// InstanceCount returns floor(Min + (Max-Min)*Density/100).
func (c Config) InstanceCount() int {
	return int(math.Floor(float64(c.Min) + float64(c.Max-c.Min)*(c.Density/100)))
}

// StreamSeed returns the string the pass's random stream is seeded with:
// seed, density, min and max joined by underscores.
func (c Config) StreamSeed() string {
	return c.Seed + "_" + formatNumber(c.Density) + "_" + strconv.Itoa(c.Min) + "_" + strconv.Itoa(c.Max)
}

func (c Config) attemptCap() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return max(1000, 200*c.InstanceCount())
}

// formatNumber prints v in the shortest decimal form, without exponent for
// ordinary magnitudes, so 100 prints as "100" and 12.5 as "12.5".
func formatNumber(v float64) string {
	if v != 0 && (math.Abs(v) >= 1e21 || math.Abs(v) < 1e-6) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
