package main

import (
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/reveal"
)

const barWidth = 30

// progressLine renders session progress as a single, redrawn terminal line.
type progressLine struct {
	mu    sync.Mutex
	out   *termenv.Output
	p     *message.Printer
	last  reveal.Phase
	pct   int
	drawn bool
	quiet bool
}

func newProgressLine(w io.Writer, quiet bool) *progressLine {
	return &progressLine{
		out:   termenv.NewOutput(w),
		p:     message.NewPrinter(language.English),
		pct:   -1,
		quiet: quiet,
	}
}

func phaseLabel(phase reveal.Phase) string {
	switch phase {
	case reveal.PhaseOutline:
		return "Drawing outlines..."
	case reveal.PhaseColoring:
		return "Adding colors..."
	case reveal.PhaseComplete:
		return "Complete!"
	default:
		return "Ready"
	}
}

func (l *progressLine) phaseColor(phase reveal.Phase) termenv.Color {
	switch phase {
	case reveal.PhaseOutline:
		return l.out.Color("#8a8a8a")
	case reveal.PhaseColoring:
		return l.out.Color("#d97706")
	case reveal.PhaseComplete:
		return l.out.Color("#16a34a")
	default:
		return l.out.Color("#6b7280")
	}
}

// Progress implements reveal.ProgressSink. Repeated values are dropped.
func (l *progressLine) Progress(phase reveal.Phase, pct int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.quiet || (phase == l.last && pct == l.pct) {
		return
	}
	l.last, l.pct = phase, pct

	filled := pct * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	label := l.out.String(phaseLabel(phase)).Foreground(l.phaseColor(phase)).Bold()

	l.out.ClearLine()
	_, _ = l.out.WriteString("\r" + label.String() + " " + bar + l.p.Sprintf(" %3d%%", pct))
	l.drawn = true
	if phase == reveal.PhaseComplete {
		_, _ = l.out.WriteString("\n")
		l.drawn = false
	}
}

// Printf writes a message on its own line.
func (l *progressLine) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.drawn {
		_, _ = l.out.WriteString("\n")
		l.drawn = false
	}
	_, _ = l.out.WriteString(l.p.Sprintf(format, args...))
}
