package cache

// ScopedKeyer prefixes every key of an inner Keyer, letting stores that
// share one backend (a staging and a production index, say) keep their
// entries apart. The CLI builds one from the cache_scope setting:
//
//	keys := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix to inner's keys. A
// nil inner means the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) DocumentKey(url string) string { return k.prefix + k.inner.DocumentKey(url) }
func (k *ScopedKeyer) ProbeKey(url string) string    { return k.prefix + k.inner.ProbeKey(url) }
