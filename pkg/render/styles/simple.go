package styles

import (
	"bytes"
	"fmt"
)

// Simple is a flat style: solid fills per bar kind, dashed connectors and
// sans-serif labels.
type Simple struct{}

var simpleFills = map[BarKind]string{
	BarIncrease: "#2b7d2b",
	BarDecrease: "#bb0000",
	BarTotal:    "#0a6ed1",
}

func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) RenderBar(buf *bytes.Buffer, b Bar) {
	fill, ok := simpleFills[b.Kind]
	if !ok {
		fill = simpleFills[BarIncrease]
	}
	fmt.Fprintf(buf, `  <rect id="%s" class="bar %s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		b.ID(), b.Kind, b.X, b.Y, b.W, b.H, fill)
}

func (Simple) RenderConnector(buf *bytes.Buffer, c Connector) {
	fmt.Fprintf(buf, `  <line class="connector" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#666" stroke-width="1" stroke-dasharray="3,2"/>`+"\n",
		c.X1, c.Y1, c.X2, c.Y2)
}

func (Simple) RenderLabel(buf *bytes.Buffer, l Label) {
	size := LabelFontSize(l.Text, l.W)
	text := TruncateLabel(l.Text, l.W, size)
	fmt.Fprintf(buf, `  <text class="label" x="%.2f" y="%.2f" text-anchor="middle" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="#333">%s</text>`+"\n",
		l.CX, l.Y, size, EscapeXML(text))
}

func (Simple) RenderEmpty(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `  <text class="empty" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="middle" font-family="Helvetica, Arial, sans-serif" font-size="14" fill="#6a6d70">No data</text>`+"\n",
		w/2, h/2)
}

var _ Style = Simple{}
