package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/reveal"
	"github.com/gogpu/reveal/clock"
	"github.com/gogpu/reveal/surface"
)

type renderFlags struct {
	output    string
	framesDir string
	every     int
	gallery   bool
	attempts  int
	quiet     bool
}

func newRenderCmd(g *globalFlags) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render <image> [image...]",
		Short: "Play the animation headless and write the finished painting",
		Long: `Render analyses an image and plays the sketch and paint animation as
fast as possible on a simulated frame clock. The final frame is written as
PNG; with --frames every Nth frame is written too.

With --gallery the arguments form a preset gallery: one is picked at random,
and another is tried when it cannot be decoded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, g, f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output PNG (default <image>.painted.png)")
	fl.StringVar(&f.framesDir, "frames", "", "directory for intermediate frames")
	fl.IntVar(&f.every, "every", 10, "write every Nth frame when --frames is set")
	fl.BoolVar(&f.gallery, "gallery", false, "pick a random image from the arguments")
	fl.IntVar(&f.attempts, "attempts", 3, "images to try with --gallery before giving up")
	fl.BoolVarP(&f.quiet, "quiet", "q", false, "no progress output")
	return cmd
}

func runRender(cmd *cobra.Command, g *globalFlags, f *renderFlags, args []string) error {
	cfg, err := g.config(cmd)
	if err != nil {
		return err
	}
	cfg.AutoStart = true

	progress := newProgressLine(cmd.ErrOrStderr(), f.quiet)
	clk := clock.NewManual(time.Now(), clock.Interval(clock.DefaultFPS))
	out := surface.NewImageSurface(1, 1)

	s, err := reveal.New(out,
		reveal.WithConfig(cfg),
		reveal.WithClock(clk),
		reveal.WithProgressSink(progress),
	)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	name, err := load(cmd, s, f, args)
	if err != nil {
		return err
	}
	st := s.State()
	progress.Printf("%s: %dx%d, %d outline points, %d fill points\n",
		name, st.Width, st.Height, st.OutlinePoints, st.FillPoints)

	if f.framesDir != "" {
		if err := os.MkdirAll(f.framesDir, 0o755); err != nil {
			return err
		}
	}
	every := max(f.every, 1)
	frames := 0
	for clk.Pending() > 0 {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		clk.Step()
		frames++
		if f.framesDir != "" && frames%every == 0 {
			path := filepath.Join(f.framesDir, fmt.Sprintf("frame-%06d.png", frames))
			if err := savePNG(path, s.Frame()); err != nil {
				return err
			}
		}
	}

	output := f.output
	if output == "" {
		output = defaultOutput(name, "painted")
	}
	if err := savePNG(output, s.Frame()); err != nil {
		return err
	}
	progress.Printf("%d frames, wrote %s\n", frames, output)
	return nil
}

// load loads the first argument, or with --gallery a random one, retrying
// other gallery images on decode failure.
func load(cmd *cobra.Command, s *reveal.Session, f *renderFlags, args []string) (string, error) {
	ctx := cmd.Context()
	if !f.gallery {
		return args[0], s.LoadFrom(ctx, reveal.FileSource(args[0]))
	}

	gallery := reveal.NewGallery(args...)
	var errs []error
	for range max(f.attempts, 1) {
		img, name, err := gallery.Next(ctx)
		if err == nil {
			err = s.LoadImage(ctx, img)
		}
		if err == nil {
			return name, nil
		}
		if ctx.Err() != nil || !errors.Is(err, reveal.ErrDecode) {
			return "", err
		}
		reveal.Logger().Warn("reveal: skipping gallery image", "source", name, "err", err)
		errs = append(errs, err)
	}
	return "", errors.Join(errs...)
}
