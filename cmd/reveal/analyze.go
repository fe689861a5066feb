package main

import (
	"image"

	"github.com/spf13/cobra"

	"github.com/gogpu/reveal"
	"github.com/gogpu/reveal/internal/edge"
	"github.com/gogpu/reveal/internal/luma"
	"github.com/gogpu/reveal/internal/plan"
)

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Write the edge mask of an image and report point counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config(cmd)
			if err != nil {
				return err
			}
			img, err := reveal.DecodeFile(args[0])
			if err != nil {
				return err
			}

			work := luma.Downscale(img, cfg.MaxSize, luma.Filter(cfg.Filter))
			buf, err := luma.Sample(work)
			if err != nil {
				return err
			}
			mask := edge.Detect(buf, cfg.Threshold)
			pd, err := plan.Build(mask, plan.Options{Stride: cfg.Stride, Cutoff: uint8(cfg.Cutoff)})
			if err != nil {
				return err
			}

			if output == "" {
				output = defaultOutput(args[0], "edges")
			}
			if err := savePNG(output, maskImage(mask)); err != nil {
				return err
			}

			p := newProgressLine(cmd.OutOrStdout(), false)
			outline, fill := pd.Len()
			p.Printf("working size:   %dx%d\n", pd.Width, pd.Height)
			p.Printf("edge pixels:    %d\n", mask.Count())
			p.Printf("outline points: %d\n", outline)
			p.Printf("fill points:    %d\n", fill)
			p.Printf("wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG (default <image>.edges.png)")
	return cmd
}

func maskImage(m edge.Mask) *image.Gray {
	return &image.Gray{
		Pix:    m.Pix,
		Stride: m.Width,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}
