// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scatter

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// DensityMap is a grayscale acceptance mask laid over the volume's XZ
// plane. Only the red channel is read; 255 always accepts and 0 never does.
type DensityMap struct {
	img *image.NRGBA
}

// NewDensityMap converts img to non-premultiplied RGBA. It returns nil for
// an empty image.
func NewDensityMap(img image.Image) *DensityMap {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return &DensityMap{img: n}
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &DensityMap{img: dst}
}

// Resample returns a copy scaled to w×h with bilinear filtering, for masks
// much larger than the scatter volume needs.
func (d *DensityMap) Resample(w, h int) *DensityMap {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), d.img, d.img.Bounds(), draw.Src, nil)
	return &DensityMap{img: dst}
}

// Size returns the map's pixel dimensions.
func (d *DensityMap) Size() (w, h int) {
	return d.img.Rect.Dx(), d.img.Rect.Dy()
}

// Brightness returns the red channel, in [0, 1], of the pixel nearest to
// (u, v). Coordinates are clamped to [0, 1] and v runs bottom to top.
func (d *DensityMap) Brightness(u, v float64) float64 {
	w, h := d.Size()
	u = clamp01(u)
	v = clamp01(v)
	x := int(math.Floor(u * float64(w-1)))
	y := int(math.Floor((1 - v) * float64(h-1)))
	return float64(d.img.Pix[d.img.PixOffset(x, y)]) / 255
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
