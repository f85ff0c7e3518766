package chart

import (
	"math"

	"github.com/matzehuels/waterfall/pkg/errors"
)

// Category is one column of the waterfall.
//
// Values are the stacked segments of the category; their sum is the change
// the category contributes to the running total. A Total category ignores
// its own values for that purpose and instead shows the running total so far,
// drawn from the baseline.
type Category struct {
	Label  string    `json:"label" toml:"label" yaml:"label" bson:"label"`
	Values []float64 `json:"values,omitempty" toml:"values" yaml:"values,omitempty" bson:"values,omitempty"`
	Total  bool      `json:"total,omitempty" toml:"total" yaml:"total,omitempty" bson:"total,omitempty"`
}

// Delta returns the sum of the category's values.
func (c Category) Delta() float64 {
	var sum float64
	for _, v := range c.Values {
		sum += v
	}
	return sum
}

// Model is the waterfall chart data plus the current zoom and scroll state.
type Model struct {
	Title      string     `json:"title,omitempty" toml:"title" yaml:"title,omitempty" bson:"title,omitempty"`
	Categories []Category `json:"categories" toml:"categories" yaml:"categories" bson:"categories"`

	// Scale is the zoom multiplier; 1 fits every category into the viewport.
	Scale float64 `json:"scale,omitempty" toml:"scale" yaml:"scale,omitempty" bson:"scale,omitempty"`

	// StartPos is the horizontal scroll offset in pixels. It may be negative.
	StartPos float64 `json:"start_pos,omitempty" toml:"start_pos" yaml:"start_pos,omitempty" bson:"start_pos,omitempty"`
}

// DefaultScale is used when a model leaves Scale unset.
const DefaultScale = 1.0

// NumCategories returns the number of categories in the model.
func (m *Model) NumCategories() int {
	if m == nil {
		return 0
	}
	return len(m.Categories)
}

// EffectiveScale returns Scale, or DefaultScale when Scale is zero.
func (m *Model) EffectiveScale() float64 {
	if m.Scale == 0 {
		return DefaultScale
	}
	return m.Scale
}

// Labels returns the category labels in order.
func (m *Model) Labels() []string {
	labels := make([]string, len(m.Categories))
	for i, c := range m.Categories {
		labels[i] = c.Label
	}
	return labels
}

// Validate rejects models the layout cannot render meaningfully:
// non-positive or non-finite scale, non-finite scroll position or values.
// An empty model is valid and renders the empty state.
func (m *Model) Validate() error {
	if m == nil {
		return errors.New(errors.ErrCodeInvalidModel, "model is nil")
	}
	scale := m.EffectiveScale()
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return errors.New(errors.ErrCodeInvalidModel, "scale must be positive and finite, got %v", m.Scale)
	}
	if math.IsNaN(m.StartPos) || math.IsInf(m.StartPos, 0) {
		return errors.New(errors.ErrCodeInvalidModel, "start position must be finite")
	}
	for i, c := range m.Categories {
		for j, v := range c.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New(errors.ErrCodeInvalidModel, "category %d (%s) value %d is not finite", i, c.Label, j)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	out := *m
	out.Categories = make([]Category, len(m.Categories))
	for i, c := range m.Categories {
		c.Values = append([]float64(nil), c.Values...)
		out.Categories[i] = c
	}
	return &out
}
