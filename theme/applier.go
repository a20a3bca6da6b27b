package theme

import "sync"

// Applier holds the process-wide current palette. Apply only affects
// rendering that happens afterwards; nothing is persisted.
type Applier struct {
	mu      sync.RWMutex
	set     Set
	current Palette
}

func NewApplier(set Set) *Applier {
	if set == nil {
		set = Default()
	}
	return &Applier{set: set, current: set.Lookup(Neutral)}
}

// Apply switches to the palette for a canonical label and returns it.
func (a *Applier) Apply(label string) Palette {
	p := a.set.Lookup(label)
	a.mu.Lock()
	a.current = p
	a.mu.Unlock()
	return p
}

func (a *Applier) Current() Palette {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}
