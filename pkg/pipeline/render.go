package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/render/sink"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

// RenderLayout generates output artifacts in the requested formats.
// Formats render concurrently; the first failure cancels the rest.
func RenderLayout(ctx context.Context, res layout.Result, m *chart.Model, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	svgOpts := buildSVGOptions(m, opts)

	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		format := format // per-iteration copy (go 1.21 loop semantics)
		g.Go(func() error {
			data, err := renderFormat(ctx, res, m, format, svgOpts, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			opts.Logger.Debug("rendered artifact", "format", format, "bytes", len(data))
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, res layout.Result, m *chart.Model, format string, svgOpts []sink.SVGOption, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(res, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(ctx, res, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.PNGScale))
	case FormatPDF:
		return sink.RenderPDF(ctx, res, sink.WithPDFSVGOptions(svgOpts...))
	case FormatJSON:
		jsonOpts := []sink.JSONOption{sink.WithJSONModel(m)}
		if opts.Labels {
			jsonOpts = append(jsonOpts, sink.WithJSONLabels())
		}
		return sink.RenderJSON(res, jsonOpts...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(m *chart.Model, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithModel(m)}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	if opts.Connectors {
		svgOpts = append(svgOpts, sink.WithConnectors())
	}

	switch opts.Style {
	case StyleSimple, "":
		svgOpts = append(svgOpts, sink.WithStyle(styles.Simple{}))
	}
	return svgOpts
}
