// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scatter

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBatchMatchesSequential(t *testing.T) {
	m := gridMesh(t, 17, 60)
	centers := []mgl64.Vec3{{-20, 0, -20}, {0, 0, 0}, {20, 0, 20}, {20, 0, -20}}

	var jobs []Job
	var want []Result
	for i, c := range centers {
		cfg := DefaultConfig()
		cfg.Seed = "batch"
		cfg.Max = 20 + i*10
		vol := NewBox(c, mgl64.Vec3{15, 4, 15})
		r, err := mustSampler(t, vol, cfg).Run(context.Background(), m)
		if err != nil {
			t.Fatal(err)
		}
		want = append(want, r)
		jobs = append(jobs, Job{Sampler: mustSampler(t, vol, cfg), Mesh: m})
	}

	got, err := Batch(context.Background(), jobs, 3)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	for i := range want {
		if got[i].Count() != want[i].Count() {
			t.Fatalf("job %d: %d instances, want %d", i, got[i].Count(), want[i].Count())
		}
		for k := range want[i].Transforms {
			if got[i].Transforms[k] != want[i].Transforms[k] {
				t.Fatalf("job %d transform %d differs", i, k)
			}
		}
	}
}

func TestBatchReportsFirstError(t *testing.T) {
	m := gridMesh(t, 9, 10)
	vol := NewBox(mgl64.Vec3{}, mgl64.Vec3{10, 2, 10})
	jobs := []Job{
		{Sampler: mustSampler(t, vol, DefaultConfig()), Mesh: m},
		{Sampler: mustSampler(t, vol, DefaultConfig()), Mesh: nil},
	}
	res, err := Batch(context.Background(), jobs, 0)
	if !errors.Is(err, ErrInvalidMeshReference) {
		t.Fatalf("err = %v", err)
	}
	if res[0].Count() != 100 {
		t.Errorf("valid job placed %d", res[0].Count())
	}
}
