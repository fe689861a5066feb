// Package playback implements the frame-driven state machine that paints
// a planned image onto an output surface: first the outline points in a
// single foreground colour, then every fill point in its source colour.
package playback

import (
	"image"
	"image/color"

	"github.com/gogpu/reveal/internal/plan"
	"github.com/gogpu/reveal/surface"
)

// Speed bounds and default, in points per tick.
const (
	MinSpeed     = 10
	MaxSpeed     = 500
	DefaultSpeed = 100
)

// Defaults for Settings.
const (
	DefaultSplit     = 40
	DefaultBlockSize = 3
)

// Settings are the rendering constants of a Player.
type Settings struct {
	// Split is the share of progress, in percent, allotted to the
	// outline phase.
	Split int

	// BlockSize is the side of the square painted per fill point.
	BlockSize int

	Foreground color.Color
	Background color.Color
}

// DefaultSettings returns the reference settings: 40/60 split, 3×3 fill
// blocks, black on white.
func DefaultSettings() Settings {
	return Settings{
		Split:      DefaultSplit,
		BlockSize:  DefaultBlockSize,
		Foreground: color.Black,
		Background: color.White,
	}
}

func (s Settings) normalized() Settings {
	s.Split = min(max(s.Split, 0), 100)
	s.BlockSize = max(s.BlockSize, 1)
	if s.Foreground == nil {
		s.Foreground = color.Black
	}
	if s.Background == nil {
		s.Background = color.White
	}
	return s
}

// ClampSpeed limits n to [MinSpeed, MaxSpeed].
func ClampSpeed(n int) int {
	return min(max(n, MinSpeed), MaxSpeed)
}

// State is the observable playback state.
type State struct {
	Phase    Phase
	Cursor   int
	Progress int
	Speed    int
	Paused   bool
}

// Report describes what one Step did.
type Report struct {
	// Phase is the phase the step ran in.
	Phase Phase

	// Consumed is the number of points painted.
	Consumed int

	// Cursor is the position in Phase's sequence after painting, before a
	// phase change resets it.
	Cursor int

	// Progress after the step.
	Progress int

	// Next is the phase after the step.
	Next Phase
}

// Transitioned reports whether the step changed phase.
func (r Report) Transitioned() bool {
	return r.Phase != r.Next
}

// Player consumes PathData tick by tick. It is not safe for concurrent use.
type Player struct {
	settings Settings
	path     *plan.PathData
	state    State
	fg       color.RGBA
}

// NewPlayer returns an idle player without path data.
func NewPlayer(s Settings) *Player {
	s = s.normalized()
	return &Player{
		settings: s,
		state:    State{Phase: Idle, Speed: DefaultSpeed},
		fg:       color.RGBAModel.Convert(s.Foreground).(color.RGBA),
	}
}

// Settings returns the normalised settings.
func (p *Player) Settings() Settings {
	return p.settings
}

// State returns the current state.
func (p *Player) State() State {
	return p.state
}

// Path returns the loaded path data, or nil.
func (p *Player) Path() *plan.PathData {
	return p.path
}

// Load installs new path data and returns to Idle. The speed survives.
func (p *Player) Load(pd *plan.PathData) {
	p.path = pd
	p.state = State{Phase: Idle, Speed: p.state.Speed}
}

// SetSpeed clamps and stores n, returning the effective speed.
func (p *Player) SetSpeed(n int) int {
	p.state.Speed = ClampSpeed(n)
	return p.state.Speed
}

// SetPaused sets the pause flag. Phase and cursor are unaffected.
func (p *Player) SetPaused(paused bool) {
	p.state.Paused = paused
}

// Start begins a run from the outline phase. It reports false, and does
// nothing, when no path data is loaded or the player is not Idle.
func (p *Player) Start() bool {
	if p.path == nil {
		return false
	}
	next, ok := Transition(p.state.Phase, EventStart)
	if !ok {
		return false
	}
	p.state.Phase = next
	p.state.Cursor = 0
	p.state.Progress = 0
	p.state.Paused = false
	return true
}

// Reset returns to Idle with cursor and progress zeroed and clears out to
// the background. Path data is kept. A nil out skips the clear.
func (p *Player) Reset(out surface.Surface) {
	p.state.Phase, _ = Transition(p.state.Phase, EventReset)
	p.state.Cursor = 0
	p.state.Progress = 0
	p.state.Paused = false
	if out != nil {
		out.Clear(p.settings.Background)
	}
}

// Active reports whether the player wants another tick.
func (p *Player) Active() bool {
	return !p.state.Paused && (p.state.Phase == Outline || p.state.Phase == Coloring)
}

// Step runs one tick: up to Speed points of the current phase are painted
// onto out, reading fill colours from src. Idle, Complete and paused
// players do nothing.
func (p *Player) Step(out, src surface.Surface) Report {
	r := Report{Phase: p.state.Phase, Cursor: p.state.Cursor}
	if p.path == nil || p.state.Paused {
		r.Progress, r.Next = p.state.Progress, p.state.Phase
		return r
	}

	switch p.state.Phase {
	case Outline:
		r.Consumed = p.stepOutline(out)
	case Coloring:
		r.Consumed = p.stepColoring(out, src)
	}

	r.Cursor = p.state.Cursor + r.Consumed
	p.state.Cursor = r.Cursor
	p.advance()
	r.Progress, r.Next = p.state.Progress, p.state.Phase
	return r
}

func (p *Player) stepOutline(out surface.Surface) int {
	pts := window(p.path.Outline, p.state.Cursor, p.state.Speed)
	for _, pt := range pts {
		out.SetPixel(pt.X, pt.Y, p.fg)
	}
	return len(pts)
}

func (p *Player) stepColoring(out, src surface.Surface) int {
	pts := window(p.path.Fill, p.state.Cursor, p.state.Speed)
	n := p.settings.BlockSize
	for _, pt := range pts {
		c := src.NRGBAt(pt.X, pt.Y)
		c.A = 0xff
		out.FillRect(image.Rect(pt.X, pt.Y, pt.X+n, pt.Y+n), c)
	}
	return len(pts)
}

// advance recomputes progress and applies end-of-sequence transitions.
func (p *Player) advance() {
	split := p.settings.Split
	switch p.state.Phase {
	case Outline:
		total := len(p.path.Outline)
		if p.state.Cursor < total {
			p.state.Progress = max(p.state.Progress, p.state.Cursor*split/total)
			return
		}
		p.state.Progress = split
		p.state.Phase, _ = Transition(Outline, EventOutlineDone)
		p.state.Cursor = 0
	case Coloring:
		total := len(p.path.Fill)
		if p.state.Cursor < total {
			p.state.Progress = max(p.state.Progress, split+p.state.Cursor*(100-split)/total)
			return
		}
		p.state.Progress = 100
		p.state.Phase, _ = Transition(Coloring, EventFillDone)
	}
}

func window(pts []image.Point, from, n int) []image.Point {
	if from >= len(pts) {
		return nil
	}
	return pts[from:min(from+n, len(pts))]
}
