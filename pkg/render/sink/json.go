package sink

import (
	"encoding/json"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/geom"
	"github.com/matzehuels/waterfall/pkg/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	model  *chart.Model
	labels bool
}

// WithJSONModel attaches the chart model so bars carry their kind and
// clusters their label.
func WithJSONModel(m *chart.Model) JSONOption { return func(r *jsonRenderer) { r.model = m } }

// WithJSONLabels reserves the label band when computing bar heights, so the
// output matches an SVG rendered with [WithLabels].
func WithJSONLabels() JSONOption { return func(r *jsonRenderer) { r.labels = true } }

type jsonOutput struct {
	Title      string                 `json:"title,omitempty"`
	Width      float64                `json:"width"`
	Height     float64                `json:"height"`
	Empty      bool                   `json:"empty"`
	Categories int                    `json:"categories"`
	Scale      float64                `json:"scale"`
	StartPos   float64                `json:"start_pos"`
	Window     geom.Window            `json:"window"`
	Geometry   layout.ClusterGeometry `json:"geometry"`
	StripLeft  float64                `json:"strip_left"`
	Elements   []jsonElement          `json:"elements"`
	Clusters   []jsonCluster          `json:"clusters"`
	Connectors []jsonConnector        `json:"connectors,omitempty"`
}

type jsonElement struct {
	Kind     layout.Kind `json:"kind"`
	Category int         `json:"category"`
	X        float64     `json:"x"`
	Width    float64     `json:"width"`
}

type jsonCluster struct {
	Category int       `json:"category"`
	Label    string    `json:"label,omitempty"`
	X        float64   `json:"x"`
	Width    float64   `json:"width"`
	Bars     []jsonBar `json:"bars"`
}

type jsonBar struct {
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonConnector struct {
	From int     `json:"from"`
	To   int     `json:"to"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
	X2   float64 `json:"x2"`
	Y2   float64 `json:"y2"`
}

// RenderJSON exports the layout as a pretty-printed JSON document for
// external renderers. Element positions are relative to the strip; cluster,
// bar and connector positions are viewport pixels, identical to what
// [RenderSVG] draws.
//
// RenderJSON does not modify res and is safe to call concurrently.
func RenderJSON(res layout.Result, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:      res.Viewport.Width,
		Height:     res.Viewport.Height,
		Empty:      res.Empty,
		Categories: res.N,
		Scale:      res.Scale,
		StartPos:   res.StartPos,
		Window:     res.Window,
		Geometry:   res.Geometry,
		Elements:   []jsonElement{},
		Clusters:   []jsonCluster{},
	}
	if r.model != nil {
		out.Title = r.model.Title
	}
	if !res.Empty {
		out.StripLeft = res.StripLeft()
	}

	for _, e := range res.Elements {
		out.Elements = append(out.Elements, jsonElement{
			Kind: e.Kind, Category: e.CategoryIndex, X: e.OriginX, Width: e.Width,
		})
	}

	clusters := buildClusters(res, r.model, newPlotArea(res.Viewport.Height, r.labels))
	for _, c := range clusters {
		jc := jsonCluster{Category: c.Category, Label: c.Label, X: c.X, Width: c.W, Bars: []jsonBar{}}
		for _, b := range c.Bars {
			jc.Bars = append(jc.Bars, jsonBar{Kind: string(b.Kind), X: b.X, Y: b.Y, Width: b.W, Height: b.H})
		}
		out.Clusters = append(out.Clusters, jc)
	}
	for _, c := range buildConnectors(clusters) {
		out.Connectors = append(out.Connectors, jsonConnector{
			From: c.From, To: c.To, X1: c.X1, Y1: c.Y1, X2: c.X2, Y2: c.Y2,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
