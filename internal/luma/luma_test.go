package luma

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestValue(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint8
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{255, 0, 0, 76},  // 76.245
		{0, 255, 0, 150}, // 149.685
		{0, 0, 255, 29},  // 29.07
		{10, 20, 30, 18}, // 17.61
		{128, 128, 128, 128},
	}
	for _, tt := range tests {
		if got := Value(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("Value(%d, %d, %d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestSample_FlatWhite(t *testing.T) {
	buf, err := Sample(fill(4, 4, color.NRGBA{255, 255, 255, 255}))
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 4 || buf.Height != 4 || len(buf.Pix) != 16 {
		t.Fatalf("buffer = %dx%d len %d, want 4x4 len 16", buf.Width, buf.Height, len(buf.Pix))
	}
	for i, v := range buf.Pix {
		if v != 255 {
			t.Fatalf("Pix[%d] = %d, want 255", i, v)
		}
	}
}

func TestSample_IgnoresAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	copy(img.Pix, []uint8{100, 100, 100, 0, 100, 100, 100, 255})
	buf, err := Sample(img)
	if err != nil {
		t.Fatal(err)
	}
	if buf.At(0, 0) != buf.At(1, 0) {
		t.Errorf("alpha changed luminance: %d vs %d", buf.At(0, 0), buf.At(1, 0))
	}
}

func TestSample_SubImage(t *testing.T) {
	img := fill(6, 6, color.NRGBA{0, 0, 0, 255})
	img.SetNRGBA(3, 3, color.NRGBA{255, 255, 255, 255})
	sub := img.SubImage(image.Rect(2, 2, 5, 5)).(*image.NRGBA)

	buf, err := Sample(sub)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 3 || buf.Height != 3 {
		t.Fatalf("size = %dx%d, want 3x3", buf.Width, buf.Height)
	}
	if buf.At(1, 1) != 255 || buf.At(0, 0) != 0 {
		t.Errorf("sub-image offsets wrong: center=%d corner=%d", buf.At(1, 1), buf.At(0, 0))
	}
}

func TestSample_Empty(t *testing.T) {
	_, err := Sample(image.NewNRGBA(image.Rect(0, 0, 0, 5)))
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
}

func TestSample_LengthAndRange(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 13, 7))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 37)
	}
	buf, err := Sample(img)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf.Pix) != 13*7 {
		t.Errorf("len = %d, want %d", len(buf.Pix), 13*7)
	}
}
