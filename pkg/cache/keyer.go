package cache

import "slices"

// Keyer generates cache keys.
type Keyer interface {
	// DatasetKey keys a dataset loaded from a remote source.
	DatasetKey(source string) string

	// ArtifactKey keys a rendered output of the dataset with the given hash.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string   `json:"format"`
	Series   []string `json:"series"`
	Palette  []string `json:"palette"`
	Offset   string   `json:"offset"`
	Tension  float64  `json:"tension"`
	Tooltips bool     `json:"tooltips,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Layout   string   `json:"layout,omitempty"` // hash of sizes and positions
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey returns "dataset:<hash>".
func (DefaultKeyer) DatasetKey(source string) string {
	return hashKey("dataset", source)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	opts.Series = slices.Clone(opts.Series)
	return hashKey("artifact", datasetHash, opts)
}
