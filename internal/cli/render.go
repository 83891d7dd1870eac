package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ladderflow/pkg/cache"
	"github.com/matzehuels/ladderflow/pkg/errors"
	"github.com/matzehuels/ladderflow/pkg/ladder"
	"github.com/matzehuels/ladderflow/pkg/render/dot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

var validFormats = map[string]bool{formatDOT: true, formatSVG: true, formatPNG: true}

// renderOpts holds the flags of the render command.
type renderOpts struct {
	pou      string
	rung     string // first rung of the flow when empty
	format   string
	output   string // stdout when empty, DOT only
	detailed bool   // node positions and handle labels
	noCache  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "render <project.json>",
		Short: "Render one rung as Graphviz DOT, SVG, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormats[opts.format] {
				return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'dot', 'svg', or 'png')", opts.format)
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.pou, "pou", "", "ladder POU to render")
	cmd.Flags().StringVar(&opts.rung, "rung", "", "rung ID (default: first rung)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <pou>_<rung>.<format>, stdout for dot)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node positions and handle IDs")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "ignore the render cache")
	_ = cmd.MarkFlagRequired("pou")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	_, ws, err := c.loadWorkspace(path)
	if err != nil {
		return err
	}
	f, ok := ws.Flows.Flow(opts.pou)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no ladder flow for POU %q", opts.pou)
	}
	r, err := pickRung(f, opts.rung)
	if err != nil {
		return err
	}

	src := dot.ToDOT(r, dot.Options{Detailed: opts.detailed})
	logger.Debug("dot", "pou", f.Name, "rung", r.ID, "bytes", len(src))
	if opts.format == formatDOT && opts.output == "" {
		_, err := fmt.Fprint(stdout, src)
		return err
	}

	data := []byte(src)
	if opts.format != formatDOT {
		renders := c.renderCache(opts.noCache)
		defer renders.Close()

		spin := newSpinnerWithContext(ctx, "Rendering "+r.ID+" with Graphviz...")
		spin.Start()
		data, err = cache.Fetch(ctx, renders, cache.RenderKey(opts.format, src), 0, func() ([]byte, error) {
			logger.Debug("cache miss", "format", opts.format)
			if opts.format == formatSVG {
				return dot.RenderSVG(ctx, src)
			}
			return dot.RenderPNG(ctx, src)
		})
		spin.Stop()
		if err != nil {
			return err
		}
	}

	out := opts.output
	if out == "" {
		out = fmt.Sprintf("%s_%s.%s", f.Name, r.ID, opts.format)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printSuccess("Rendered %s/%s", f.Name, r.ID)
	printFile(out)
	return nil
}

// renderCache returns the on-disk cache from settings, or a cache that
// never hits when none is configured or it cannot be opened.
func (c *CLI) renderCache(disabled bool) cache.Cache {
	if disabled || c.Config == nil || c.Config.CacheDir == "" {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(c.Config.CacheDir)
	if err != nil {
		c.Logger.Warn("render cache disabled", "dir", c.Config.CacheDir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// pickRung returns the rung with the given ID, or the first rung when id
// is empty.
func pickRung(f *ladder.Flow, id string) (*ladder.Rung, error) {
	if id == "" {
		if len(f.Rungs) == 0 {
			return nil, errors.New(errors.ErrCodeNotFound, "flow %s has no rungs", f.Name)
		}
		return f.Rungs[0], nil
	}
	r, ok := ladder.FindRung(f, id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "rung %s not found in flow %s", id, f.Name)
	}
	return r, nil
}
