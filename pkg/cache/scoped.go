package cache

// ScopedKeyer wraps a Keyer with a prefix so that several processes can
// share one backend without reading each other's entries.
//
// Example usage:
//
//	// Keys of the live server, separate from CLI renders in the same Redis
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DatasetKey generates a prefixed key for dataset caching.
func (k *ScopedKeyer) DatasetKey(source string) string {
	return k.prefix + k.inner.DatasetKey(source)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(datasetHash, opts)
}
