package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/reveal"
	"github.com/gogpu/reveal/clock"
	"github.com/gogpu/reveal/surface"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 150 * time.Millisecond

func newWatchCmd(g *globalFlags) *cobra.Command {
	var (
		output string
		fps    int
		once   bool
	)
	cmd := &cobra.Command{
		Use:   "watch <image>",
		Short: "Play the animation in real time and restart it when the image changes",
		Long: `Watch plays the animation at the given frame rate. Each finished painting
is written to the output PNG. When the image file changes it is reloaded
and the animation starts over; a file that cannot be decoded is reported
and the current painting keeps playing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config(cmd)
			if err != nil {
				return err
			}
			cfg.AutoStart = true
			if output == "" {
				output = defaultOutput(args[0], "painted")
			}
			return runWatch(cmd.Context(), cmd, cfg, args[0], output, fps, once)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&output, "output", "o", "", "output PNG written on completion (default <image>.painted.png)")
	fl.IntVar(&fps, "fps", clock.DefaultFPS, "frames per second")
	fl.BoolVar(&once, "once", false, "exit after the first completed painting")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, cfg reveal.Config, input, output string, fps int, once bool) error {
	progress := newProgressLine(cmd.ErrOrStderr(), false)
	tk := clock.NewTicker(fps)
	defer tk.Close()

	out := surface.NewImageSurface(1, 1)
	s, err := reveal.New(out,
		reveal.WithConfig(cfg),
		reveal.WithClock(tk),
		reveal.WithProgressSink(progress),
	)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.LoadFrom(ctx, reveal.FileSource(input)); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory: editors often replace files by rename.
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}

	reloaded := make(chan struct{}, 1)
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return watchFile(ctx, watcher, input, func() {
			if err := s.LoadFrom(ctx, reveal.FileSource(input)); err != nil {
				progress.Printf("reload failed: %v\n", err)
				return
			}
			select {
			case reloaded <- struct{}{}:
			default:
			}
		})
	})

	eg.Go(func() error {
		for {
			done := s.Done()
			select {
			case <-ctx.Done():
				return nil
			case <-reloaded:
				continue
			case <-done:
			}
			if err := savePNG(output, s.Frame()); err != nil {
				return err
			}
			progress.Printf("wrote %s\n", output)
			if once {
				return errStopWatching
			}
			select {
			case <-ctx.Done():
				return nil
			case <-reloaded:
			}
		}
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, errStopWatching) {
		return err
	}
	return nil
}

var errStopWatching = errors.New("stop watching")

// watchFile calls reload, debounced, whenever path is written or replaced.
func watchFile(ctx context.Context, w *fsnotify.Watcher, path string, reload func()) error {
	target := filepath.Clean(path)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(reloadDelay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			reveal.Logger().Warn("reveal: file watcher error", "err", err)
		case <-timer.C:
			reload()
		}
	}
}
