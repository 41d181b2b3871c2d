package binding

import "sync"

var (
	registryMu sync.RWMutex
	native     Binding
)

// Register installs a native binding to be returned by Default. Passing nil
// removes it again.
func Register(b Binding) {
	registryMu.Lock()
	defer registryMu.Unlock()
	native = b
}

// Default returns the registered native binding, or a new MockBinding when
// none is registered.
func Default() Binding {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if native != nil {
		return native
	}
	return NewMockBinding()
}
