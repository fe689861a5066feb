package playback

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/reveal/internal/plan"
	"github.com/gogpu/reveal/surface"
)

func points(n, w int) []image.Point {
	pts := make([]image.Point, n)
	for i := range pts {
		pts[i] = image.Pt(i%w, i/w)
	}
	return pts
}

func pathData(outline, w, h int) *plan.PathData {
	return &plan.PathData{
		Outline: points(outline, w),
		Fill:    plan.Sweep(w, h),
		Width:   w,
		Height:  h,
	}
}

func surfaces(w, h int) (out, src *surface.ImageSurface) {
	out = surface.NewImageSurface(w, h)
	out.Clear(color.White)
	src = surface.NewImageSurface(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src.SetPixel(x, y, color.RGBA{uint8(x * 10), uint8(y * 10), 77, 255})
		}
	}
	return out, src
}

func TestPlayer_StartRequiresPath(t *testing.T) {
	p := NewPlayer(DefaultSettings())
	if p.Start() {
		t.Fatal("Start() without path data succeeded")
	}
	if p.State().Phase != Idle {
		t.Errorf("phase = %v, want idle", p.State().Phase)
	}
}

func TestPlayer_OutlineScenario(t *testing.T) {
	out, src := surfaces(10, 10)
	p := NewPlayer(DefaultSettings())
	p.Load(pathData(25, 10, 10))
	p.SetSpeed(10)
	if !p.Start() {
		t.Fatal("Start() failed")
	}

	r := p.Step(out, src)
	if r.Cursor != 10 || r.Next != Outline {
		t.Fatalf("tick 1: %+v", r)
	}
	r = p.Step(out, src)
	if r.Cursor != 20 || r.Next != Outline || p.State().Cursor != 20 {
		t.Fatalf("tick 2: %+v", r)
	}
	r = p.Step(out, src)
	if r.Consumed != 5 || r.Cursor != 25 || r.Next != Coloring || !r.Transitioned() {
		t.Fatalf("tick 3: %+v", r)
	}
	st := p.State()
	if st.Phase != Coloring || st.Cursor != 0 || st.Progress != DefaultSplit {
		t.Errorf("after outline: %+v", st)
	}
	if got := out.NRGBAt(4, 2); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("outline point (4,2) = %v, want black", got)
	}
	if got := out.NRGBAt(5, 2); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("non-outline pixel (5,2) = %v, want white", got)
	}
}

func TestPlayer_RunToCompletion(t *testing.T) {
	const w, h = 12, 9
	out, src := surfaces(w, h)
	p := NewPlayer(DefaultSettings())
	p.Load(pathData(17, w, h))
	p.SetSpeed(MinSpeed)
	p.Start()

	lastPhase, lastProgress, lastCursor := Outline, 0, 0
	ticks := 0
	for p.Active() {
		r := p.Step(out, src)
		ticks++
		if r.Phase < lastPhase {
			t.Fatalf("phase went backwards: %v -> %v", lastPhase, r.Phase)
		}
		if r.Phase == lastPhase {
			if r.Cursor < lastCursor {
				t.Fatalf("cursor decreased in %v: %d -> %d", r.Phase, lastCursor, r.Cursor)
			}
		}
		if r.Progress < lastProgress {
			t.Fatalf("progress decreased: %d -> %d", lastProgress, r.Progress)
		}
		total := len(p.Path().Outline)
		if r.Phase == Coloring {
			total = len(p.Path().Fill)
		}
		if r.Cursor > total {
			t.Fatalf("cursor %d exceeds %d", r.Cursor, total)
		}
		lastPhase, lastProgress, lastCursor = r.Next, r.Progress, p.State().Cursor
		if ticks > 1000 {
			t.Fatal("playback did not finish")
		}
	}

	st := p.State()
	if st.Phase != Complete || st.Progress != 100 {
		t.Fatalf("final state %+v", st)
	}
	// 2 outline ticks, ceil(108/10) = 11 fill ticks.
	if ticks != 13 {
		t.Errorf("ticks = %d, want 13", ticks)
	}
	snap, want := out.Snapshot(), src.Snapshot()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if snap.NRGBAAt(x, y) != want.NRGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, snap.NRGBAAt(x, y), want.NRGBAAt(x, y))
			}
		}
	}

	if r := p.Step(out, src); r.Consumed != 0 || r.Next != Complete {
		t.Errorf("step after completion did work: %+v", r)
	}
}

func TestPlayer_ColoringPaintsBlocks(t *testing.T) {
	out, src := surfaces(6, 6)
	p := NewPlayer(DefaultSettings())
	p.Load(&plan.PathData{Fill: []image.Point{{1, 1}}, Width: 6, Height: 6})
	p.Start()
	p.Step(out, src) // empty outline

	p.Step(out, src)
	want := src.NRGBAt(1, 1)
	for y := 1; y < 4; y++ {
		for x := 1; x < 4; x++ {
			if got := out.NRGBAt(x, y); got != want {
				t.Errorf("block pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if got := out.NRGBAt(4, 4); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel outside block = %v", got)
	}
}

func TestPlayer_EmptyOutlineSkipsToColoring(t *testing.T) {
	out, src := surfaces(4, 4)
	p := NewPlayer(DefaultSettings())
	p.Load(pathData(0, 4, 4))
	p.Start()

	r := p.Step(out, src)
	if r.Consumed != 0 || r.Next != Coloring || r.Progress != DefaultSplit {
		t.Errorf("first tick with empty outline: %+v", r)
	}
}

func TestPlayer_ProgressBoundaries(t *testing.T) {
	for _, split := range []int{0, 40, 50, 100} {
		out, src := surfaces(10, 10)
		s := DefaultSettings()
		s.Split = split
		p := NewPlayer(s)
		p.Load(pathData(30, 10, 10))
		p.SetSpeed(MaxSpeed)
		p.Start()

		if r := p.Step(out, src); r.Progress != split {
			t.Errorf("split %d: progress at outline end = %d", split, r.Progress)
		}
		if r := p.Step(out, src); r.Progress != 100 || r.Next != Complete {
			t.Errorf("split %d: final %+v", split, r)
		}
	}
}

func TestPlayer_PauseFreezes(t *testing.T) {
	out, src := surfaces(10, 10)
	p := NewPlayer(DefaultSettings())
	p.Load(pathData(50, 10, 10))
	p.SetSpeed(10)
	p.Start()
	p.Step(out, src)

	p.SetPaused(true)
	if p.Active() {
		t.Error("paused player reports active")
	}
	r := p.Step(out, src)
	if r.Consumed != 0 || p.State().Cursor != 10 || p.State().Phase != Outline {
		t.Errorf("paused step changed state: %+v / %+v", r, p.State())
	}
	p.SetPaused(false)
	if p.Step(out, src); p.State().Cursor != 20 {
		t.Errorf("cursor after resume = %d, want 20", p.State().Cursor)
	}
}

func TestPlayer_ResetIdempotent(t *testing.T) {
	out, src := surfaces(5, 5)
	p := NewPlayer(DefaultSettings())
	p.Load(pathData(5, 5, 5))
	p.SetSpeed(10)
	p.Start()
	p.Step(out, src)
	p.Step(out, src)

	p.Reset(out)
	first := p.State()
	p.Reset(out)
	if p.State() != first {
		t.Errorf("second reset changed state: %+v vs %+v", p.State(), first)
	}
	if first.Phase != Idle || first.Cursor != 0 || first.Progress != 0 || first.Speed != 10 {
		t.Errorf("reset state %+v", first)
	}
	if p.Path() == nil {
		t.Error("reset dropped path data")
	}
	if got := out.NRGBAt(0, 0); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("surface not cleared: %v", got)
	}
	if !p.Start() {
		t.Error("cannot start after reset")
	}
}

func TestClampSpeed(t *testing.T) {
	tests := []struct{ in, want int }{
		{9999, MaxSpeed},
		{-1, MinSpeed},
		{0, MinSpeed},
		{10, 10},
		{250, 250},
		{500, 500},
	}
	for _, tt := range tests {
		if got := ClampSpeed(tt.in); got != tt.want {
			t.Errorf("ClampSpeed(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	p := NewPlayer(DefaultSettings())
	if got := p.SetSpeed(9999); got != 500 || p.State().Speed != 500 {
		t.Errorf("SetSpeed(9999) = %d", got)
	}
}

func TestSettingsNormalized(t *testing.T) {
	p := NewPlayer(Settings{Split: 150, BlockSize: 0})
	s := p.Settings()
	if s.Split != 100 || s.BlockSize != 1 || s.Foreground == nil || s.Background == nil {
		t.Errorf("normalized settings = %+v", s)
	}
}

func TestPlayer_ColoringPaintsStraightColourOpaque(t *testing.T) {
	out := surface.NewImageSurface(3, 3)
	out.Clear(color.White)
	src := surface.NewImageSurface(3, 3)
	src.FillRect(image.Rect(0, 0, 3, 3), color.NRGBA{255, 0, 0, 128})

	p := NewPlayer(DefaultSettings())
	p.Load(&plan.PathData{Fill: []image.Point{{0, 0}}, Width: 3, Height: 3})
	p.Start()
	p.Step(out, src) // empty outline
	p.Step(out, src)

	if got := out.NRGBAt(1, 1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("painted %v, want opaque red", got)
	}
}
