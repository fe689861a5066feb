package main

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gogpu/reveal"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string

	maxSize   int
	speed     int
	split     int
	threshold float32
	filter    string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "reveal",
		Short:         "Sketch and paint an image, frame by frame",
		Version:       reveal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(g.logLevel)
		},
	}

	g.addFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newRenderCmd(g),
		newAnalyzeCmd(g),
		newWatchCmd(g),
	)
	return cmd
}

func (g *globalFlags) addFlags(pf *pflag.FlagSet) {
	pf.StringVarP(&g.configPath, "config", "c", "", "TOML or YAML config file")
	pf.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.IntVar(&g.maxSize, "max-size", 0, "bound on the larger working dimension")
	pf.IntVar(&g.speed, "speed", 0, "points painted per frame (10-500)")
	pf.IntVar(&g.split, "split", -1, "percent of progress given to the outline phase")
	pf.Float32Var(&g.threshold, "threshold", -1, "edge gradient threshold")
	pf.StringVar(&g.filter, "filter", "", "downscale filter: nearest, approx-bilinear, bilinear, catmull-rom, lanczos")
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid --log-level %q", level)
	}
	reveal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

// config loads the config file, if any, and applies flag overrides.
func (g *globalFlags) config(cmd *cobra.Command) (reveal.Config, error) {
	cfg := reveal.DefaultConfig()
	if g.configPath != "" {
		var err error
		if cfg, err = reveal.LoadConfig(g.configPath); err != nil {
			return reveal.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("max-size") {
		cfg.MaxSize = g.maxSize
	}
	if flags.Changed("speed") {
		cfg.Speed = g.speed
	}
	if flags.Changed("split") {
		cfg.Split = g.split
	}
	if flags.Changed("threshold") {
		cfg.Threshold = g.threshold
	}
	if flags.Changed("filter") {
		cfg.Filter = g.filter
	}
	return cfg.Normalize(), nil
}

func savePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// defaultOutput derives "<name>.<suffix>.png" from an input path.
func defaultOutput(input, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return base + "." + suffix + ".png"
}
