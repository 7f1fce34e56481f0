package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving each consumer
// (CLI, server, a tenant) its own namespace in a shared backend.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DatasetKey generates a prefixed dataset key.
func (k *ScopedKeyer) DatasetKey(source, ref string) string {
	return k.prefix + k.inner.DatasetKey(source, ref)
}

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(datasetHash string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(datasetHash, opts)
}

// LanesKey generates a prefixed lanes key.
func (k *ScopedKeyer) LanesKey(datasetHash, resourceID string) string {
	return k.prefix + k.inner.LanesKey(datasetHash, resourceID)
}
