// Package plan turns an edge mask into the two point sequences that drive
// playback: a sparse outline sampled on a grid and a dense fill sweep.
//
// Both sequences are in row-major order (top to bottom, left to right).
// They are plain coordinate lists, not connected strokes.
package plan

import (
	"errors"
	"image"

	"github.com/gogpu/reveal/internal/edge"
)

// Reference planner settings.
const (
	DefaultStride = 3
	DefaultCutoff = 128
)

// ErrEmptyMask is returned by Build for a mask with no pixels.
var ErrEmptyMask = errors.New("plan: mask has no pixels")

// Options controls outline sampling.
type Options struct {
	// Stride is the grid spacing of the outline scan in both axes.
	Stride int

	// Cutoff is the binarization level: a mask value strictly above it
	// produces an outline point.
	Cutoff uint8
}

// DefaultOptions returns the reference planner settings.
func DefaultOptions() Options {
	return Options{Stride: DefaultStride, Cutoff: DefaultCutoff}
}

// PathData is the immutable result of planning one image.
type PathData struct {
	Outline []image.Point
	Fill    []image.Point
	Width   int
	Height  int
}

// Len returns the length of the outline and fill sequences.
func (p *PathData) Len() (outline, fill int) {
	return len(p.Outline), len(p.Fill)
}

// Build plans the outline and fill sequences for mask.
func Build(mask edge.Mask, opts Options) (*PathData, error) {
	w, h := mask.Width, mask.Height
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyMask
	}
	stride := max(opts.Stride, 1)

	return &PathData{
		Outline: outline(mask, stride, opts.Cutoff),
		Fill:    Sweep(w, h),
		Width:   w,
		Height:  h,
	}, nil
}

func outline(mask edge.Mask, stride int, cutoff uint8) []image.Point {
	var pts []image.Point
	for y := 0; y < mask.Height; y += stride {
		row := mask.Pix[y*mask.Width : (y+1)*mask.Width]
		for x := 0; x < mask.Width; x += stride {
			if row[x] > cutoff {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

// Sweep enumerates every pixel of a w×h image in row-major order.
func Sweep(w, h int) []image.Point {
	if w <= 0 || h <= 0 {
		return nil
	}
	pts := make([]image.Point, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pts = append(pts, image.Pt(x, y))
		}
	}
	return pts
}
