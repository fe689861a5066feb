// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the pixel-addressable drawing targets used by
// playback.
//
// A painting session owns two surfaces of identical size:
//
//   - the output surface, which playback draws onto and the host displays
//   - the colour source, which holds the working-resolution image and is
//     only read back one pixel at a time during the colouring phase
//
// Both are plain [Surface] values, so a host can substitute its own
// canvas by implementing the interface and registering a factory:
//
//	surface.Register("canvas", 50, func(opts surface.Options) (surface.Surface, error) {
//	    return newCanvasSurface(opts.Width, opts.Height), nil
//	}, nil)
//
//	s, err := surface.NewSurfaceByName("canvas", 640, 480)
//
// # ImageSurface
//
// [ImageSurface] is the CPU implementation backed by an *image.NRGBA and is
// registered as "image". It is what headless rendering and tests use:
//
//	s := surface.NewImageSurface(640, 480)
//	defer s.Close()
//
//	s.Clear(color.White)
//	s.FillRect(image.Rect(10, 10, 13, 13), color.RGBA{200, 40, 40, 255})
//	img := s.Snapshot()
package surface
