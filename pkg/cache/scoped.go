package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful when several serve instances or users share one Redis or
// Mongo backend and need separate namespaces.
//
// Example usage:
//
//	teamKeyer := NewScopedKeyer(NewDefaultKeyer(), "team:docs:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(treeHash, opts)
}

// ImageKey generates a prefixed key for image caching.
func (k *ScopedKeyer) ImageKey(ref string) string {
	return k.prefix + k.inner.ImageKey(ref)
}
