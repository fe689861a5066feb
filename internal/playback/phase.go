package playback

// Phase is a stage of playback.
type Phase uint8

// Phases in the order a run visits them.
const (
	Idle Phase = iota
	Outline
	Coloring
	Complete
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Outline:
		return "outline"
	case Coloring:
		return "coloring"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Event drives a phase transition.
type Event uint8

// Events.
const (
	EventStart Event = iota
	EventOutlineDone
	EventFillDone
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventOutlineDone:
		return "outline-done"
	case EventFillDone:
		return "fill-done"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Transition returns the phase reached from p on e. ok is false when e is
// not accepted in p, in which case p is returned unchanged.
//
// Start is only accepted from Idle, so a run always begins from a cleared
// surface. Reset is accepted from any phase.
func Transition(p Phase, e Event) (next Phase, ok bool) {
	switch e {
	case EventReset:
		return Idle, true
	case EventStart:
		if p == Idle {
			return Outline, true
		}
	case EventOutlineDone:
		if p == Outline {
			return Coloring, true
		}
	case EventFillDone:
		if p == Coloring {
			return Complete, true
		}
	}
	return p, false
}
