// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	// Density maps may come in any of these formats.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/terrain/mesh"
	"github.com/gogpu/terrain/scatter"
)

// loadDensityMap decodes path into a density map.
func loadDensityMap(path string) (*scatter.DensityMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	d := scatter.NewDensityMap(img)
	if d == nil {
		return nil, fmt.Errorf("%s (%s) is empty", path, format)
	}
	return d, nil
}

// heightmap renders grid heights as 16-bit grayscale, lowest black and
// highest white. Row 0 is the far (+Z) edge so the image reads like a map
// seen from above.
func heightmap(g *mesh.Grid, size int) *image.Gray16 {
	r := g.Resolution()
	pos := g.Positions()
	b, _ := mesh.ComputeBounds(pos)
	span := b.Max[1] - b.Min[1]

	img := image.NewGray16(image.Rect(0, 0, r, r))
	for y := range r {
		for x := range r {
			h := pos[(y*r+x)*3+1]
			var v float32
			if span > 0 {
				v = (h - b.Min[1]) / span
			}
			img.SetGray16(x, r-1-y, color.Gray16{Y: uint16(v * 0xffff)})
		}
	}
	if size <= 0 || size == r {
		return img
	}
	dst := image.NewGray16(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
