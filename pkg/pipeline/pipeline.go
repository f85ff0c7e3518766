// Package pipeline provides the layout → render pipeline for waterfall charts.
//
// The CLI and the HTTP API both go through this package, so defaults,
// validation, caching and instrumentation behave the same at every entry
// point.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: run one layout pass for a model and viewport
//  2. Render: draw the layout as SVG, JSON, PNG or PDF
//
// Layout is cheap and always recomputed. Rendered artifacts are cached by a
// hash of the model plus every render option.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Width:   800,
//	    Height:  400,
//	    Formats: []string{"svg"},
//	    Labels:  true,
//	}
//	result, err := runner.Execute(ctx, model, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run the layout stage alone:
//
//	res, err := runner.Layout(ctx, model, opts)
package pipeline

import (
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/waterfall/pkg/cache"
	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/geom"
	"github.com/matzehuels/waterfall/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 400.0

	// DefaultPNGScale renders PNGs at 2x for high-DPI displays.
	DefaultPNGScale = 2.0

	// DefaultStyle is the default visual style.
	DefaultStyle = StyleSimple
)

// Style names.
const (
	StyleSimple = "simple"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleSimple: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Width       float64  `json:"width,omitempty"`
	Height      float64  `json:"height,omitempty"`
	Scale       float64  `json:"scale,omitempty"`     // Overrides the model's zoom when non-zero
	StartPos    *float64 `json:"start_pos,omitempty"` // Overrides the model's scroll offset when set
	GapFraction float64  `json:"gap,omitempty"`       // Zero means geom.DefaultGapFraction
	NoWindow    bool     `json:"no_window,omitempty"` // Lay out every category regardless of viewport

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Style      string   `json:"style,omitempty"`
	Labels     bool     `json:"labels,omitempty"`
	Connectors bool     `json:"connectors,omitempty"`
	PNGScale   float64  `json:"png_scale,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"` // Skip cache reads, still write

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Model is the model as laid out, with option overrides applied.
	Model *chart.Model

	// ModelHash is the content hash of Model.
	ModelHash string

	// Layout is the computed layout pass.
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Categories int
	Visible    int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: %s)", style, strings.Join(styleNames(), ", "))
	}
	return nil
}

func styleNames() []string {
	names := make([]string, 0, len(ValidStyles))
	for s := range ValidStyles {
		names = append(names, s)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.GapFraction == 0 {
		o.GapFraction = geom.DefaultGapFraction
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}
	if math.IsNaN(o.GapFraction) || math.IsInf(o.GapFraction, 0) || o.GapFraction < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gap fraction must be a non-negative number, got %v", o.GapFraction)
	}
	if math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) || o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidModel, "scale must be positive and finite, got %v", o.Scale)
	}
	if o.StartPos != nil && (math.IsNaN(*o.StartPos) || math.IsInf(*o.StartPos, 0)) {
		return errors.New(errors.ErrCodeInvalidModel, "start position must be finite")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PNGScale < 0 || math.IsNaN(o.PNGScale) || math.IsInf(o.PNGScale, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %v", o.PNGScale)
	}
	return ValidateStyle(o.Style)
}

// Viewport returns the configured viewport size.
func (o *Options) Viewport() geom.Size {
	return geom.Size{Width: o.Width, Height: o.Height}
}

// ApplyTo returns a copy of m with the zoom and scroll overrides applied,
// validated for layout. m itself is never modified.
func (o *Options) ApplyTo(m *chart.Model) (*chart.Model, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "model is nil")
	}
	out := m.Clone()
	if o.Scale != 0 {
		out.Scale = o.Scale
	}
	if o.StartPos != nil {
		out.StartPos = *o.StartPos
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// ArtifactKeyOpts returns cache key options for an artifact rendered from m.
// m must already have overrides applied.
func (o *Options) ArtifactKeyOpts(m *chart.Model, format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:      format,
		Width:       o.Width,
		Height:      o.Height,
		Scale:       m.EffectiveScale(),
		StartPos:    m.StartPos,
		GapFraction: o.GapFraction,
		Windowed:    !o.NoWindow,
		Labels:      o.Labels,
		Connectors:  o.Connectors,
		Style:       o.Style,
	}
	if format == FormatPNG {
		opts.PNGScale = o.PNGScale
	}
	return opts
}
