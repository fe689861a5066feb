// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
	"image/color"
)

// ErrClosed is returned when a closed surface is resized.
var ErrClosed = errors.New("surface: closed")

// Surface is a 2D pixel target.
//
// Surfaces are NOT thread-safe. A surface is owned by a single session and
// must only be used from the goroutine driving it, or with external
// synchronization.
//
// Drawing outside the bounds is clipped. Drawing on a closed surface is a
// no-op; Resize reports ErrClosed so callers can detect an unavailable
// surface before mutating state.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Resize changes the dimensions. Contents are undefined afterwards
	// and should be cleared by the caller.
	Resize(width, height int) error

	// Clear fills the entire surface with c.
	Clear(c color.Color)

	// FillRect fills r, clipped to the surface, with c.
	FillRect(r image.Rectangle, c color.Color)

	// SetPixel sets a single pixel.
	SetPixel(x, y int, c color.Color)

	// DrawImage copies img onto the surface with its bounds' minimum
	// placed at the origin.
	DrawImage(img image.Image)

	// NRGBAt reads back a single pixel as straight (non-premultiplied)
	// colour. Out-of-range reads return the zero color.
	NRGBAt(x, y int) color.NRGBA

	// Snapshot returns a copy of the current contents.
	Snapshot() *image.NRGBA

	// Close releases the surface. Close is idempotent.
	Close() error
}

// Options configures surface creation through the registry.
type Options struct {
	Width  int
	Height int
}
