package wake

import "sync"

// PermissionGate models the platform privilege to schedule precise
// wake-ups. Observers registered with OnChange are notified when the state
// flips; the consistency sweep hangs off that notification.
type PermissionGate struct {
	mu       sync.Mutex
	allowed  bool
	onChange []func(allowed bool)
}

// NewPermissionGate constructs a gate with an initial state.
func NewPermissionGate(allowed bool) *PermissionGate {
	return &PermissionGate{allowed: allowed}
}

// Allowed reports the current privilege state.
func (g *PermissionGate) Allowed() bool {
	if g == nil {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.allowed
}

// SetAllowed updates the privilege state, notifying observers on an actual
// transition. Observers run inline.
func (g *PermissionGate) SetAllowed(allowed bool) {
	if g == nil {
		return
	}
	g.mu.Lock()
	changed := g.allowed != allowed
	g.allowed = allowed
	observers := g.onChange
	g.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range observers {
		fn(allowed)
	}
}

// OnChange registers an observer for privilege transitions.
func (g *PermissionGate) OnChange(fn func(allowed bool)) {
	if g == nil || fn == nil {
		return
	}
	g.mu.Lock()
	g.onChange = append(g.onChange, fn)
	g.mu.Unlock()
}
