package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/render/sink"
)

// layoutCommand creates the layout command, which prints one layout pass.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		asJSON   bool
		scale    float64
		start    float64
		noWindow bool
	)

	cmd := &cobra.Command{
		Use:   "layout [chart]",
		Short: "Compute the viewport layout of a waterfall chart",
		Long: `Compute the viewport layout of a waterfall chart.

Prints the visible window, cluster geometry and the ordered layout elements
(leading gap, clusters and gaps). With --json the layout is written in the
same format as 'render -f json'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.pipelineOptions()
			if cmd.Flags().Changed("scale") {
				opts.Scale = scale
			}
			if cmd.Flags().Changed("start") {
				opts.StartPos = &start
			}
			opts.NoWindow = noWindow

			m, err := chart.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load chart %s: %w", args[0], err)
			}
			runner, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Layout(cmd.Context(), m, opts)
			if err != nil {
				return err
			}
			if asJSON || output != "" {
				return c.writeLayoutJSON(cmd.Context(), res, m, opts.Labels, output)
			}
			printLayout(res, m)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write layout JSON to file (implies --json)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print layout as JSON")
	cmd.Flags().Float64Var(&scale, "scale", 0, "zoom factor (default: model scale)")
	cmd.Flags().Float64Var(&start, "start", 0, "scroll offset in pixels (default: model start_pos)")
	cmd.Flags().BoolVar(&noWindow, "no-window", false, "lay out every category regardless of the viewport")
	addRenderConfigFlags(cmd, defaultConfig().Render)

	return cmd
}

func (c *CLI) writeLayoutJSON(ctx context.Context, res layout.Result, m *chart.Model, labels bool, output string) error {
	opts := []sink.JSONOption{sink.WithJSONModel(m)}
	if labels {
		opts = append(opts, sink.WithJSONLabels())
	}
	data, err := sink.RenderJSON(res, opts...)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if output == "" {
		_, err := out.Write(append(data, '\n'))
		return err
	}
	if err := writeFile(output, data); err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("wrote layout", "file", output, "bytes", len(data))
	printSuccess("Layout complete")
	printFile(output)
	return nil
}

// printLayout prints a human-readable summary of res.
func printLayout(res layout.Result, m *chart.Model) {
	if m.Title != "" {
		printTitle(m.Title)
	}
	if res.Empty {
		printWarning("Chart has no categories")
		return
	}

	g := res.Geometry
	window := "all"
	if res.Window.Windowed() {
		window = fmt.Sprintf("%d..%d (offsets %.1f, %.1f)",
			res.Window.StartIndex, res.Window.EndIndex, res.Window.StartOffset, res.Window.EndOffset)
	}
	printKeyValue("viewport", fmt.Sprintf("%gx%g", res.Viewport.Width, res.Viewport.Height))
	printKeyValue("scale", fmt.Sprintf("%g", res.Scale))
	printKeyValue("start", fmt.Sprintf("%g", res.StartPos))
	printKeyValue("window", window)
	printKeyValue("cluster", fmt.Sprintf("%.2f (fraction %.4f)", g.ClusterWidthPoints, g.ClusterWidthFraction))
	printKeyValue("gap", fmt.Sprintf("%.2f", g.ClusterGapPoints))
	printKeyValue("total width", fmt.Sprintf("%.2f", g.TotalWidthPoints))
	printKeyValue("center", fmt.Sprintf("%.2f, %.2f", g.CenterX, g.CenterY))
	printNewline()

	labels := m.Labels()
	rows := make([][]string, 0, len(res.Elements))
	for _, e := range res.Elements {
		category, label := "", ""
		if e.Kind == layout.KindCluster {
			category = strconv.Itoa(e.CategoryIndex)
			if e.CategoryIndex >= 0 && e.CategoryIndex < len(labels) {
				label = labels[e.CategoryIndex]
			}
		}
		rows = append(rows, []string{
			string(e.Kind),
			category,
			label,
			fmt.Sprintf("%.2f", e.OriginX),
			fmt.Sprintf("%.2f", e.Width),
		})
	}
	printTable([]string{"Kind", "#", "Label", "X", "Width"}, rows, 1, 3, 4)
	printStats(res.N, len(res.Clusters()), false)
}
