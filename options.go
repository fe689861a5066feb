package reveal

import (
	"github.com/gogpu/reveal/clock"
	"github.com/gogpu/reveal/surface"
)

// Option configures a Session during creation.
//
// Example:
//
//	clk := clock.NewManual(time.Now(), clock.Interval(60))
//	s, err := reveal.New(out,
//	    reveal.WithConfig(cfg),
//	    reveal.WithClock(clk),
//	    reveal.WithAutoStart(true),
//	)
type Option func(*sessionOptions)

type sessionOptions struct {
	config      Config
	clock       clock.Clock
	colorSource surface.Surface
	sink        ProgressSink
}

func defaultOptions() sessionOptions {
	return sessionOptions{
		config: DefaultConfig(),
		// clock and colorSource are created in New if nil
	}
}

// WithConfig replaces the whole configuration. The config is normalized.
func WithConfig(cfg Config) Option {
	return func(o *sessionOptions) {
		o.config = cfg
	}
}

// WithSpeed sets the initial points per frame.
func WithSpeed(n int) Option {
	return func(o *sessionOptions) {
		o.config.Speed = n
	}
}

// WithAutoStart enables or disables starting playback on load.
func WithAutoStart(on bool) Option {
	return func(o *sessionOptions) {
		o.config.AutoStart = on
	}
}

// WithClock sets the frame clock. Without it the session runs its own
// real-time clock.Ticker at clock.DefaultFPS, stopped by Close.
func WithClock(c clock.Clock) Option {
	return func(o *sessionOptions) {
		o.clock = c
	}
}

// WithColorSource sets the surface that holds the working image for
// colour lookups. Without it one is created from the registry backend
// named by Config.Surface.
func WithColorSource(s surface.Surface) Option {
	return func(o *sessionOptions) {
		o.colorSource = s
	}
}

// WithProgressSink sets the receiver of phase and progress updates.
func WithProgressSink(sink ProgressSink) Option {
	return func(o *sessionOptions) {
		o.sink = sink
	}
}
