package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// renderFlags holds render flags that have no config counterpart.
type renderFlags struct {
	output   string  // output file (single format) or base path (multiple)
	formats  string  // comma-separated output formats
	scale    float64 // zoom override, zero keeps the model's
	start    float64 // scroll offset override
	noWindow bool    // lay out every category
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command for generating chart artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	d := defaultConfig().Render

	cmd := &cobra.Command{
		Use:   "render [chart]",
		Short: "Render a waterfall chart to SVG, PNG, PDF or JSON",
		Long: `Render a waterfall chart model (JSON, TOML, YAML or XLSX) to one or more formats.

Only the categories visible in the viewport at the given zoom (--scale) and
scroll offset (--start) are drawn. Pass --no-window to draw every category.

Rendered artifacts are cached; use --refresh to re-render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			opts.Formats = parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("scale") {
				opts.Scale = flags.scale
			}
			if cmd.Flags().Changed("start") {
				opts.StartPos = &flags.start
			}
			opts.NoWindow = flags.noWindow
			opts.Refresh = flags.refresh
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().Float64Var(&flags.scale, "scale", 0, "zoom factor (default: model scale)")
	cmd.Flags().Float64Var(&flags.start, "start", 0, "scroll offset in pixels (default: model start_pos)")
	cmd.Flags().BoolVar(&flags.noWindow, "no-window", false, "draw every category regardless of the viewport")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached artifacts")
	addRenderConfigFlags(cmd, d)

	return cmd
}

// addRenderConfigFlags registers the flags that override [RenderConfig].
func addRenderConfigFlags(cmd *cobra.Command, d RenderConfig) {
	cmd.Flags().Float64("width", d.Width, "viewport width")
	cmd.Flags().Float64("height", d.Height, "viewport height")
	cmd.Flags().Float64("gap", d.Gap, "gap between clusters as a fraction of cluster width")
	cmd.Flags().String("style", d.Style, "visual style: simple")
	cmd.Flags().Bool("labels", d.Labels, "draw category labels")
	cmd.Flags().Bool("connectors", d.Connectors, "draw connectors between bars")
	cmd.Flags().Float64("png-scale", d.PNGScale, "PNG pixel density")
}

// runRender loads the chart, renders it and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	m, err := chart.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load chart %s: %w", input, err)
	}
	c.Logger.Debug("loaded chart", "file", input, "categories", m.NumCategories())

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	spinner.Start()

	result, err := runner.Execute(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.Formats)))

	paths := outputPaths(flags.output, input, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
		c.Logger.Debug("wrote artifact", "format", format, "bytes", len(result.Artifacts[format]))
	}

	printSuccess("Rendered %s", filepath.Base(input))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.Categories, result.Stats.Visible, result.CacheInfo.RenderHit)
	return nil
}

// outputPaths maps each format to its output file. A single format writes to
// output verbatim when given; otherwise files share a base path. A derived
// path never overwrites the input chart.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		p := base + "." + f
		if filepath.Clean(p) == filepath.Clean(input) {
			p = base + ".layout." + f
		}
		paths[f] = p
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
