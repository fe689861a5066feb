// Package edge computes binary edge masks from luminance buffers using a
// 3×3 Sobel operator.
package edge

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/reveal/internal/luma"
	"github.com/gogpu/reveal/internal/parallel"
)

// Mask values.
const (
	Background uint8 = 0
	Edge       uint8 = 255
)

// DefaultThreshold is the reference gradient magnitude above which a pixel
// is an edge.
const DefaultThreshold float32 = 50

// MaxThreshold is the largest meaningful threshold: the Sobel magnitude of
// an 8-bit image never exceeds 4·255·√2.
const MaxThreshold float32 = 1443

// minBandRows keeps parallel bands large enough to amortise scheduling.
const minBandRows = 32

// Mask is a row-major binary image with values Background or Edge.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the mask value at (x, y). Coordinates must be in range.
func (m Mask) At(x, y int) uint8 {
	return m.Pix[y*m.Width+x]
}

// Count returns the number of edge pixels.
func (m Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v == Edge {
			n++
		}
	}
	return n
}

// Detector holds edge detection settings.
type Detector struct {
	// Threshold is compared against the gradient magnitude.
	Threshold float32

	// Pool, when set, processes row bands concurrently.
	Pool *parallel.WorkerPool
}

// ClampThreshold limits t to [0, MaxThreshold].
func ClampThreshold(t float32) float32 {
	return math32.Max(0, math32.Min(t, MaxThreshold))
}

// Detect runs a Detector with the given threshold and no pool.
func Detect(buf luma.Buffer, threshold float32) Mask {
	return Detector{Threshold: threshold}.Detect(buf)
}

// Detect computes the edge mask of buf. The one-pixel border is always
// Background. The result does not depend on whether a pool is used.
func (d Detector) Detect(buf luma.Buffer) Mask {
	w, h := buf.Width, buf.Height
	m := Mask{Width: w, Height: h, Pix: make([]uint8, w*h)}
	if w < 3 || h < 3 {
		return m
	}

	parallel.ForRows(d.Pool, 1, h-1, minBandRows, func(b parallel.Band) {
		detectRows(buf, m, d.Threshold, b.Y0, b.Y1)
	})
	return m
}

// detectRows fills mask rows [y0, y1), which must be interior rows.
func detectRows(buf luma.Buffer, m Mask, threshold float32, y0, y1 int) {
	w := buf.Width
	p := buf.Pix
	for y := y0; y < y1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			nw, n, ne := int32(p[i-w-1]), int32(p[i-w]), int32(p[i-w+1])
			west, east := int32(p[i-1]), int32(p[i+1])
			sw, s, se := int32(p[i+w-1]), int32(p[i+w]), int32(p[i+w+1])

			gx := -nw + ne - 2*west + 2*east - sw + se
			gy := -nw - 2*n - ne + sw + 2*s + se

			if math32.Sqrt(float32(gx*gx+gy*gy)) > threshold {
				m.Pix[i] = Edge
			}
		}
	}
}
