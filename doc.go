// Package reveal turns a raster image into a progressively rendered
// painting: a sketched outline followed by a pixel-by-pixel colour fill,
// played back frame by frame.
//
// # Overview
//
// Loading an image runs a short analysis pipeline:
//
//   - the image is bounded to a working resolution (Config.MaxSize)
//   - it is reduced to luminance with Rec. 601 weights
//   - a 3×3 Sobel operator marks edge pixels above Config.Threshold
//   - edge pixels on a coarse grid become outline points; every pixel
//     becomes a fill point, both in row-major order
//
// Finished analyses are kept in a small LRU keyed by the working image's
// content (Config.CacheSize), so reloading the same picture is cheap.
//
// Playback then consumes those points at Config.Speed points per frame:
// outline points as single black pixels, then fill points as small blocks
// of their source colour.
//
// # Quick Start
//
//	out := surface.NewImageSurface(1, 1)
//	clk := clock.NewManual(time.Now(), clock.Interval(60))
//
//	s, err := reveal.New(out, reveal.WithClock(clk), reveal.WithAutoStart(true))
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.LoadFrom(ctx, reveal.FileSource("photo.jpg")); err != nil {
//	    return err
//	}
//	clk.Run(0)
//	png.Encode(w, s.Frame())
//
// # Scheduling
//
// A session advances one step per frame-clock callback and requests the
// next callback only while a run is active and not paused. Reset, a new
// image and Pause revoke the pending callback first, so a late frame can
// never draw on a surface that has just been cleared or resized.
//
// # Logging
//
// The package is silent by default; see SetLogger.
package reveal

// Version is the current version of the module.
const Version = "0.3.0"
