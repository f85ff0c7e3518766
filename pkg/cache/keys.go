package cache

// Keyer generates cache keys for rendered artifacts.
type Keyer interface {
	// ArtifactKey returns the key for an artifact rendered from the model
	// with the given content hash.
	ArtifactKey(modelHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds every render input besides the model itself.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Scale       float64 `json:"scale"`
	StartPos    float64 `json:"start_pos"`
	GapFraction float64 `json:"gap"`
	Windowed    bool    `json:"windowed"`
	Labels      bool    `json:"labels"`
	Connectors  bool    `json:"connectors"`
	Style       string  `json:"style"`
	PNGScale    float64 `json:"png_scale,omitempty"`
}

// DefaultKeyer produces keys of the form "artifact:<format>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(modelHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, modelHash, opts)
}

var _ Keyer = DefaultKeyer{}
