package cache

// ScopedKeyer wraps a Keyer with a prefix so several datasets can share one
// backend without their artifacts colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "dataset:q3:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// If inner is nil, a DefaultKeyer is used.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ChartKey generates a prefixed chart key.
func (k *ScopedKeyer) ChartKey(req any) string {
	return k.prefix + k.inner.ChartKey(req)
}

// NetworkKey generates a prefixed network key.
func (k *ScopedKeyer) NetworkKey(req any) string {
	return k.prefix + k.inner.NetworkKey(req)
}
