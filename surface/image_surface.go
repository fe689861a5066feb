// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ImageSurface is a CPU surface backed by an *image.NRGBA. Pixels are
// stored straight, so reads return exactly the colour that was drawn.
type ImageSurface struct {
	img    *image.NRGBA
	closed bool
}

// NewImageSurface creates a surface of the given size. Non-positive
// dimensions are raised to 1.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{img: newNRGBA(width, height)}
}

// NewImageSurfaceFromImage creates a surface that draws directly into img.
func NewImageSurfaceFromImage(img *image.NRGBA) *ImageSurface {
	return &ImageSurface{img: img}
}

func newNRGBA(width, height int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.img.Bounds().Dx()
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.img.Bounds().Dy()
}

// Resize reallocates the backing image when the size changes.
func (s *ImageSurface) Resize(width, height int) error {
	if s.closed {
		return ErrClosed
	}
	if width == s.Width() && height == s.Height() {
		return nil
	}
	s.img = newNRGBA(width, height)
	return nil
}

// Clear fills the surface with c.
func (s *ImageSurface) Clear(c color.Color) {
	s.FillRect(image.Rect(0, 0, s.Width(), s.Height()), c)
}

// FillRect fills r with c.
func (s *ImageSurface) FillRect(r image.Rectangle, c color.Color) {
	if s.closed {
		return
	}
	r = r.Add(s.img.Bounds().Min).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.img.SetNRGBA(x, y, nc)
		}
	}
}

// SetPixel sets one pixel.
func (s *ImageSurface) SetPixel(x, y int, c color.Color) {
	if s.closed {
		return
	}
	o := s.img.Bounds().Min
	s.img.Set(o.X+x, o.Y+y, c)
}

// DrawImage copies img onto the surface at the origin.
func (s *ImageSurface) DrawImage(img image.Image) {
	if s.closed || img == nil {
		return
	}
	if src, ok := img.(*image.NRGBA); ok {
		copyRows(s.img, s.img.Bounds(), src, src.Bounds().Min)
		return
	}
	draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Src)
}

// copyRows copies straight pixels from src, starting at sp, into the r
// region of dst without a premultiplied round trip. r must lie in dst.
func copyRows(dst *image.NRGBA, r image.Rectangle, src *image.NRGBA, sp image.Point) {
	sr := image.Rectangle{Min: sp, Max: sp.Add(r.Size())}.Intersect(src.Rect)
	if sr.Empty() {
		return
	}
	dp := r.Min.Add(sr.Min.Sub(sp))
	n := sr.Dx() * 4
	for y := 0; y < sr.Dy(); y++ {
		d := dst.PixOffset(dp.X, dp.Y+y)
		o := src.PixOffset(sr.Min.X, sr.Min.Y+y)
		copy(dst.Pix[d:d+n], src.Pix[o:o+n])
	}
}

// NRGBAt reads back one pixel.
func (s *ImageSurface) NRGBAt(x, y int) color.NRGBA {
	o := s.img.Bounds().Min
	return s.img.NRGBAAt(o.X+x, o.Y+y)
}

// Snapshot returns a copy of the surface contents.
func (s *ImageSurface) Snapshot() *image.NRGBA {
	b := s.img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	copyRows(out, out.Bounds(), s.img, b.Min)
	return out
}

// Image returns the backing image. It is replaced by Resize.
func (s *ImageSurface) Image() *image.NRGBA {
	return s.img
}

// Close marks the surface closed.
func (s *ImageSurface) Close() error {
	s.closed = true
	return nil
}
