package reveal

import "github.com/gogpu/reveal/internal/playback"

// Phase is a stage of a painting run.
type Phase = playback.Phase

// Phases in run order.
const (
	PhaseIdle     = playback.Idle
	PhaseOutline  = playback.Outline
	PhaseColoring = playback.Coloring
	PhaseComplete = playback.Complete
)

// ProgressSink receives phase and progress (0-100) updates. It is purely
// observational. Updates are delivered outside the session lock on the
// goroutine that caused them, usually the frame clock's.
type ProgressSink interface {
	Progress(phase Phase, percent int)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(phase Phase, percent int)

// Progress implements ProgressSink.
func (f ProgressFunc) Progress(phase Phase, percent int) {
	f(phase, percent)
}

type nopSink struct{}

func (nopSink) Progress(Phase, int) {}
