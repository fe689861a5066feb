package reveal

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/reveal/clock"
	"github.com/gogpu/reveal/internal/cache"
	"github.com/gogpu/reveal/internal/edge"
	"github.com/gogpu/reveal/internal/luma"
	"github.com/gogpu/reveal/internal/parallel"
	"github.com/gogpu/reveal/internal/plan"
	"github.com/gogpu/reveal/internal/playback"
	"github.com/gogpu/reveal/surface"
)

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	// ID identifies the loaded image; empty before the first load.
	ID string

	Phase    Phase
	Cursor   int
	Progress int
	Speed    int
	Paused   bool

	// Working resolution and sequence lengths of the loaded image.
	Width         int
	Height        int
	OutlinePoints int
	FillPoints    int
}

// Loaded reports whether path data is present.
func (s Snapshot) Loaded() bool {
	return s.ID != ""
}

// Session owns one painting: the analysed image, the playback state and
// the surfaces it draws on.
//
// All methods are safe for concurrent use. Frame callbacks and control
// methods are serialized by the session lock, so a tick never observes a
// half-applied reset or load.
type Session struct {
	mu sync.Mutex

	cfg    Config
	out    surface.Surface
	src    surface.Surface
	clock  clock.Clock
	sink   ProgressSink
	pool   *parallel.WorkerPool
	player *playback.Player
	plans  *cache.Cache[uint64, *plan.PathData]

	// ownedClock is set when New created the clock.
	ownedClock *clock.Ticker

	id      uuid.UUID
	gen     uint64
	pending clock.Handle
	done    chan struct{}
	closed  bool
}

// New creates a session drawing on out.
func New(out surface.Surface, opts ...Option) (*Session, error) {
	if out == nil {
		return nil, fmt.Errorf("%w: nil output surface", ErrSurfaceUnavailable)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.config.Normalize()

	src := o.colorSource
	if src == nil {
		var err error
		src, err = newColorSource(cfg.Surface, out.Width(), out.Height())
		if err != nil {
			return nil, fmt.Errorf("%w: colour source: %w", ErrSurfaceUnavailable, err)
		}
	}

	s := &Session{
		cfg:    cfg,
		out:    out,
		src:    src,
		clock:  o.clock,
		sink:   o.sink,
		player: playback.NewPlayer(cfg.playbackSettings()),
		plans:  cache.New[uint64, *plan.PathData](cfg.CacheSize),
		done:   make(chan struct{}),
	}
	if s.clock == nil {
		s.ownedClock = clock.NewTicker(clock.DefaultFPS)
		s.clock = s.ownedClock
	}
	if s.sink == nil {
		s.sink = nopSink{}
	}
	if cfg.Workers != 1 {
		s.pool = parallel.NewWorkerPool(cfg.Workers)
	}
	s.player.SetSpeed(cfg.Speed)
	return s, nil
}

// newColorSource creates the colour source from the named backend, or the
// best available one for AutoSurface.
func newColorSource(name string, w, h int) (surface.Surface, error) {
	if name == AutoSurface {
		Logger().Debug("reveal: selecting colour source backend", "available", surface.Available())
		return surface.NewSurface(w, h)
	}
	return surface.NewSurfaceByName(name, w, h)
}

// Config returns the normalized configuration.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cfg
}

// LoadImage analyses img and installs the result, replacing any previous
// painting. A running animation is cancelled and the output surface is
// resized to the working resolution and cleared. Playback starts only
// when AutoStart is set.
//
// If a surface is unavailable the load is aborted with
// ErrSurfaceUnavailable and the previous painting is kept. Cancelling ctx
// aborts the analysis between stages.
func (s *Session) LoadImage(ctx context.Context, img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrNoImage
	}

	s.mu.Lock()
	cfg, pool := s.cfg, s.pool
	s.mu.Unlock()

	start := time.Now()
	work, pd, err := analyse(ctx, img, cfg, pool, s.plans)
	if err != nil {
		return err
	}
	w, h := pd.Width, pd.Height

	s.mu.Lock()
	if err := s.checkSurfacesLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.resizeLocked(w, h); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cancelLocked()
	s.src.DrawImage(work)
	s.out.Clear(cfg.BackgroundColor())
	s.player.Load(pd)
	s.id = uuid.New()

	src := img.Bounds()
	Logger().Info("reveal: image loaded",
		"session", s.id.String(),
		"source", fmt.Sprintf("%dx%d", src.Dx(), src.Dy()),
		"working", fmt.Sprintf("%dx%d", w, h),
		"outline", len(pd.Outline),
		"fill", len(pd.Fill),
		"elapsed", time.Since(start))

	if cfg.AutoStart {
		s.startLocked()
	}
	phase, progress := s.progressLocked()
	s.mu.Unlock()

	s.sink.Progress(phase, progress)
	return nil
}

// analyse runs the sampler, edge detector and planner. Plans are cached
// by the content of the working image.
func analyse(ctx context.Context, img image.Image, cfg Config, pool *parallel.WorkerPool,
	plans *cache.Cache[uint64, *plan.PathData]) (*image.NRGBA, *plan.PathData, error) {
	work := luma.Downscale(img, cfg.MaxSize, luma.Filter(cfg.Filter))
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	key := contentKey(work)
	if pd, ok := plans.Get(key); ok {
		Logger().Debug("reveal: analysis cache hit", "key", key)
		return work, pd, nil
	}
	buf, err := luma.Sample(work)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNoImage, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	mask := edge.Detector{Threshold: cfg.Threshold, Pool: pool}.Detect(buf)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	pd, err := plan.Build(mask, cfg.planOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNoImage, err)
	}
	plans.Set(key, pd)
	return work, pd, nil
}

// contentKey hashes the dimensions and pixels of a working image.
func contentKey(img *image.NRGBA) uint64 {
	h := fnv.New64a()
	b := img.Bounds()
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[0:], uint32(b.Dx()))
	binary.LittleEndian.PutUint32(dims[4:], uint32(b.Dy()))
	_, _ = h.Write(dims[:])
	rowLen := b.Dx() * 4
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		_, _ = h.Write(img.Pix[off : off+rowLen]) // fnv.Write never returns an error
	}
	return h.Sum64()
}

// LoadFrom pulls one image from src and loads it. Decode failures are
// returned as is, wrapping ErrDecode, and leave the session untouched.
func (s *Session) LoadFrom(ctx context.Context, src ImageSource) error {
	img, name, err := src.Next(ctx)
	if err != nil {
		Logger().Warn("reveal: image source failed", "source", name, "err", err)
		return err
	}
	Logger().Debug("reveal: image decoded", "source", name)
	return s.LoadImage(ctx, img)
}

// checkSurfacesLocked reports whether both surfaces are still usable,
// without changing them.
func (s *Session) checkSurfacesLocked() error {
	if s.closed {
		return fmt.Errorf("%w: session closed", ErrSurfaceUnavailable)
	}
	if err := s.out.Resize(s.out.Width(), s.out.Height()); err != nil {
		return fmt.Errorf("%w: output: %w", ErrSurfaceUnavailable, err)
	}
	if err := s.src.Resize(s.src.Width(), s.src.Height()); err != nil {
		return fmt.Errorf("%w: colour source: %w", ErrSurfaceUnavailable, err)
	}
	return nil
}

// resizeLocked brings both surfaces to w×h. When the colour source
// refuses, the output is put back to its previous size and contents, so a
// failed load leaves the surfaces as they were.
func (s *Session) resizeLocked(w, h int) error {
	ow, oh := s.out.Width(), s.out.Height()
	var prev *image.NRGBA
	if ow != w || oh != h {
		prev = s.out.Snapshot()
	}
	if err := s.out.Resize(w, h); err != nil {
		return fmt.Errorf("%w: output: %w", ErrSurfaceUnavailable, err)
	}
	if err := s.src.Resize(w, h); err != nil {
		if prev != nil && s.out.Resize(ow, oh) == nil {
			s.out.DrawImage(prev)
		}
		return fmt.Errorf("%w: colour source: %w", ErrSurfaceUnavailable, err)
	}
	return nil
}

// Start begins playback from the outline phase. Without a loaded image,
// or while a run is in progress or complete, Start does nothing; use
// Restart to replay a finished painting.
func (s *Session) Start() {
	s.mu.Lock()
	started := s.startLocked()
	phase, progress := s.progressLocked()
	s.mu.Unlock()

	if started {
		s.sink.Progress(phase, progress)
	}
}

func (s *Session) startLocked() bool {
	if s.player.Path() == nil {
		Logger().Debug("reveal: start ignored, no image loaded")
		return false
	}
	if !s.player.Start() {
		Logger().Debug("reveal: start ignored", "phase", s.player.State().Phase.String())
		return false
	}
	s.done = make(chan struct{})
	Logger().Info("reveal: playback started", "session", s.id.String(), "speed", s.player.State().Speed)
	s.scheduleLocked()
	return true
}

// Pause freezes playback. Phase and cursor are unchanged.
func (s *Session) Pause() {
	s.setPaused(true)
}

// Resume continues a paused run.
func (s *Session) Resume() {
	s.setPaused(false)
}

// TogglePause flips the pause flag and returns the new value.
func (s *Session) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	paused := !s.player.State().Paused
	s.setPausedLocked(paused)
	return paused
}

func (s *Session) setPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setPausedLocked(paused)
}

func (s *Session) setPausedLocked(paused bool) {
	s.player.SetPaused(paused)
	if paused {
		s.cancelLocked()
		return
	}
	if s.player.Active() {
		s.scheduleLocked()
	}
}

// Reset cancels playback, returns to idle with zero progress and clears
// the output surface. The analysed image is kept so it can be replayed.
func (s *Session) Reset() {
	s.mu.Lock()
	s.resetLocked()
	phase, progress := s.progressLocked()
	s.mu.Unlock()

	s.sink.Progress(phase, progress)
}

func (s *Session) resetLocked() {
	s.cancelLocked()
	s.player.Reset(s.out)
}

// Restart resets and starts again. It does nothing without an image.
func (s *Session) Restart() {
	s.mu.Lock()
	s.resetLocked()
	s.startLocked()
	phase, progress := s.progressLocked()
	s.mu.Unlock()

	s.sink.Progress(phase, progress)
}

// SetSpeed sets the points painted per frame, clamped to
// [MinSpeed, MaxSpeed], and returns the effective value. It applies from
// the next frame.
func (s *Session) SetSpeed(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.player.SetSpeed(n)
	if v != n {
		Logger().Debug("reveal: speed clamped", "requested", n, "used", v)
	}
	return v
}

// State returns a snapshot of the session.
func (s *Session) State() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.player.State()
	snap := Snapshot{
		Phase:    st.Phase,
		Cursor:   st.Cursor,
		Progress: st.Progress,
		Speed:    st.Speed,
		Paused:   st.Paused,
	}
	if pd := s.player.Path(); pd != nil {
		snap.ID = s.id.String()
		snap.Width, snap.Height = pd.Width, pd.Height
		snap.OutlinePoints, snap.FillPoints = pd.Len()
	}
	return snap
}

// Done returns a channel closed when the run begun by the latest Start
// reaches the complete phase. A reset or new image abandons that run and
// its channel is never closed.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.done
}

// Frame returns a copy of the output surface taken under the session
// lock. Unlike reading Output directly, it is safe while a real-time clock
// paints frames or another goroutine loads an image.
func (s *Session) Frame() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.out.Snapshot()
}

// Output returns the output surface. Surfaces are not safe for concurrent
// use: read it only while no frame can run, or use Frame.
func (s *Session) Output() surface.Surface {
	return s.out
}

// ColorSource returns the surface holding the working image.
func (s *Session) ColorSource() surface.Surface {
	return s.src
}

// Close cancels playback and releases the worker pool, the colour source
// and a clock created by New. The output surface belongs to the caller.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancelLocked()
	s.mu.Unlock()

	if s.ownedClock != nil {
		s.ownedClock.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return s.src.Close()
}

// scheduleLocked requests the next frame unless one is pending.
func (s *Session) scheduleLocked() {
	if s.pending != 0 || s.closed {
		return
	}
	gen := s.gen
	s.pending = s.clock.Request(func(time.Time) {
		s.tick(gen)
	})
}

// cancelLocked revokes the pending frame and invalidates any callback
// that has already been dequeued.
func (s *Session) cancelLocked() {
	s.gen++
	if s.pending != 0 {
		s.clock.Cancel(s.pending)
		s.pending = 0
	}
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		Logger().Debug("reveal: stale frame dropped")
		return
	}
	s.pending = 0

	r := s.player.Step(s.out, s.src)
	if r.Transitioned() {
		Logger().Debug("reveal: phase changed",
			"session", s.id.String(), "from", r.Phase.String(), "to", r.Next.String())
	}
	if r.Next == playback.Complete && r.Transitioned() {
		close(s.done)
		Logger().Info("reveal: painting complete", "session", s.id.String())
	}
	if s.player.Active() {
		s.scheduleLocked()
	}
	phase, progress := s.progressLocked()
	s.mu.Unlock()

	s.sink.Progress(phase, progress)
}

func (s *Session) progressLocked() (Phase, int) {
	st := s.player.State()
	return st.Phase, st.Progress
}
