package luma

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"
)

// Filter selects the resampling kernel used when an image is downscaled.
type Filter string

// Supported filters.
const (
	Nearest        Filter = "nearest"
	ApproxBiLinear Filter = "approx-bilinear"
	BiLinear       Filter = "bilinear"
	CatmullRom     Filter = "catmull-rom"
	Lanczos        Filter = "lanczos"
)

// DefaultFilter is the filter used when none is configured.
const DefaultFilter = BiLinear

// Filters lists every supported filter name.
func Filters() []Filter {
	return []Filter{Nearest, ApproxBiLinear, BiLinear, CatmullRom, Lanczos}
}

// ParseFilter maps a filter name to a Filter, case-insensitively.
func ParseFilter(name string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Filters() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("luma: unknown resampling filter %q", name)
}

// WorkingSize returns the dimensions an image of w×h is processed at.
// When either side exceeds maxSize, both are scaled uniformly so the larger
// side equals maxSize; the other side is rounded and kept at least 1.
// A maxSize <= 0 disables the bound.
func WorkingSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, int(math.Round(float64(h)*float64(maxSize)/float64(w))))
	}
	return max(1, int(math.Round(float64(w)*float64(maxSize)/float64(h)))), maxSize
}

// Downscale returns img at its working resolution as an *image.NRGBA whose
// bounds start at the origin. Pixels are straight (non-premultiplied), so
// colour channels are independent of alpha. Images already within maxSize
// are only normalised; an *image.NRGBA at the origin is returned as is.
func Downscale(img image.Image, maxSize int, filter Filter) *image.NRGBA {
	b := img.Bounds()
	w, h := WorkingSize(b.Dx(), b.Dy(), maxSize)
	if w == b.Dx() && h == b.Dy() {
		return toNRGBA(img)
	}

	if filter == Lanczos {
		return toNRGBA(transform.Resize(img, w, h, transform.Lanczos))
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	scaler(filter).Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func scaler(f Filter) draw.Scaler {
	switch f {
	case Nearest:
		return draw.NearestNeighbor
	case ApproxBiLinear:
		return draw.ApproxBiLinear
	case CatmullRom:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok {
		if b.Min == (image.Point{}) {
			return n
		}
		out := *n
		out.Rect = b.Sub(b.Min)
		return &out
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
