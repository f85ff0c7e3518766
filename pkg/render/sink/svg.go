package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/layout"
	"github.com/matzehuels/waterfall/pkg/render/styles"
)

const clipID = "viewport"

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	model      *chart.Model
	style      styles.Style
	labels     bool
	connectors bool
}

// WithModel attaches the chart model for bar coloring and labels.
// Without it every bar is drawn as an increase and labels are omitted.
func WithModel(m *chart.Model) SVGOption { return func(r *svgRenderer) { r.model = m } }

// WithStyle sets the drawing style. The default is [styles.Simple].
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithLabels draws category labels beneath each visible cluster.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithConnectors draws lines joining each cluster's running total to the next.
func WithConnectors() SVGOption { return func(r *svgRenderer) { r.connectors = true } }

// RenderSVG draws the layout result into a viewport-sized SVG. Everything is
// clipped to the viewport, so partially visible clusters at either edge are
// cut at the boundary.
func RenderSVG(res layout.Result, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := res.Viewport.Width, res.Viewport.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if r.model != nil && r.model.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", styles.EscapeXML(r.model.Title))
	}

	buf.WriteString("  <defs>\n")
	fmt.Fprintf(&buf, `    <clipPath id="%s"><rect x="0" y="0" width="%.2f" height="%.2f"/></clipPath>`+"\n", clipID, w, h)
	r.style.RenderDefs(&buf)
	buf.WriteString("  </defs>\n")

	if res.Empty {
		r.style.RenderEmpty(&buf, w, h)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, `  <g clip-path="url(#%s)">`+"\n", clipID)
	renderContent(&buf, &r, res)
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderContent(buf *bytes.Buffer, r *svgRenderer, res layout.Result) {
	plot := newPlotArea(res.Viewport.Height, r.labels)
	clusters := buildClusters(res, r.model, plot)

	for _, c := range clusters {
		for _, b := range c.Bars {
			r.style.RenderBar(buf, b)
		}
	}
	if r.connectors {
		for _, c := range buildConnectors(clusters) {
			r.style.RenderConnector(buf, c)
		}
	}
	if r.labels {
		for _, l := range buildLabels(res, clusters) {
			r.style.RenderLabel(buf, l)
		}
	}
}
