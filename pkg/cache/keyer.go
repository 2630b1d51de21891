package cache

import "strings"

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey is the key of a fetched remote resource.
	HTTPKey(namespace, key string) string
	// ArtifactKey is the key of a rendered artifact for a snapshot.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the inputs that shape a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Scale     float64 `json:"scale,omitempty"`
	StyleHash string  `json:"style_hash,omitempty"`
	Selection string  `json:"selection,omitempty"`
	Local     bool    `json:"local,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// ArtifactKey hashes the snapshot hash together with opts, keeping the
// format readable in the key.
func (DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+strings.ToLower(opts.Format), snapshotHash, opts)
}

var _ Keyer = DefaultKeyer{}
