package luma

import (
	"errors"
	"image"
)

// ErrEmpty is returned when an image has a zero dimension.
var ErrEmpty = errors.New("luma: image has no pixels")

// Rec. 601 luma weights, scaled by 1000 so the conversion stays in
// integer arithmetic.
const (
	weightR = 299
	weightG = 587
	weightB = 114
)

// Buffer is a single-channel, row-major luminance image.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the luminance at (x, y). Coordinates must be in range.
func (b Buffer) At(x, y int) uint8 {
	return b.Pix[y*b.Width+x]
}

// Value returns round(0.299·r + 0.587·g + 0.114·b).
func Value(r, g, b uint8) uint8 {
	return uint8((weightR*uint32(r) + weightG*uint32(g) + weightB*uint32(b) + 500) / 1000)
}

// Sample converts img to a luminance Buffer of the same dimensions.
// Alpha is ignored: the straight colour channels are weighted as is.
func Sample(img *image.NRGBA) (Buffer, error) {
	r := img.Bounds()
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return Buffer{}, ErrEmpty
	}

	out := Buffer{Width: w, Height: h, Pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := out.Pix[y*w : (y+1)*w]
		for x := range dst {
			p := row[x*4 : x*4+3 : x*4+3]
			dst[x] = Value(p[0], p[1], p[2])
		}
	}
	return out, nil
}
