// Package cache stores rendered chart artifacts.
//
// # Overview
//
// Rendering is deterministic: the same tree, configuration and format always
// produce the same bytes. The cache exploits this by keying artifacts on a
// content hash of those inputs. Entries are pure derived data and can be
// dropped at any time; chart state is never cached.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for several serve instances
//   - [MongoCache]: shared cache with TTL-indexed expiry
//   - [NullCache]: caching disabled
//
// [Open] selects a backend from a spec such as "file", "none",
// "redis://localhost:6379/0" or "mongodb://localhost:27017".
//
// # Keys
//
// A [Keyer] derives keys. [DefaultKeyer] hashes the inputs; [ScopedKeyer]
// adds a prefix so several tenants can share one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey keys a rendered output of the tree with the given hash.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
	// ImageKey keys a fetched image payload.
	ImageKey(ref string) string
}

// ArtifactKeyOpts are the render inputs besides the tree that change the
// output bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	ConfigHash string  `json:"config"`
	Scale      float64 `json:"scale,omitempty"`
	Embed      bool    `json:"embed,omitempty"`
	// Engine names the renderer when it is not the built-in one.
	Engine string `json:"engine,omitempty"`
	// ImageBase is the directory relative image paths resolve against.
	ImageBase string `json:"image_base,omitempty"`
	Version   string `json:"version,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}

// ImageKey implements Keyer.
func (DefaultKeyer) ImageKey(ref string) string {
	return hashKey("image", ref)
}
