package cache

// ScopedKeyer wraps a Keyer with a prefix, so several shops can share one
// Redis database without seeing each other's entries.
//
//	shop := NewScopedKeyer(NewDefaultKeyer(), "shop:montevideo:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SheetKey generates a prefixed key for sheet caching.
func (k *ScopedKeyer) SheetKey(orderHash string, opts SheetKeyOpts) string {
	return k.prefix + k.inner.SheetKey(orderHash, opts)
}

// UploadKey generates a prefixed key for upload records.
func (k *ScopedKeyer) UploadKey(store, fileHash string) string {
	return k.prefix + k.inner.UploadKey(store, fileHash)
}
