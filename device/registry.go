package device

import (
	"sync"

	"github.com/kestrelnet/netstack/types"
)

// registry is the process-wide device table. A single mutex guards both
// membership and iteration so the worker's poll pass never races a
// concurrent Register call.
var registry = struct {
	mu      sync.Mutex
	devices []*Device
}{}

// Register appends d to the registry. It fails with ErrDuplicateDevice if
// a device with the same name is already registered.
func Register(d *Device) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	for _, existing := range registry.devices {
		if existing.Name == d.Name {
			return types.ErrDuplicateDevice
		}
	}

	registry.devices = append(registry.devices, d)
	return nil
}

// LockedIter holds the registry lock for the duration of a scoped
// iteration. While held, no other goroutine may register a device or
// iterate the registry.
type LockedIter struct {
	devices []*Device
}

// LockedIterMut acquires the registry lock and returns a guard over the
// current device list. The caller must call Release when done.
func LockedIterMut() *LockedIter {
	registry.mu.Lock()
	return &LockedIter{devices: registry.devices}
}

// Devices returns the snapshot of registered devices taken when the lock
// was acquired.
func (it *LockedIter) Devices() []*Device {
	return it.devices
}

// Release releases the registry lock acquired by LockedIterMut.
func (it *LockedIter) Release() {
	registry.mu.Unlock()
}

// Reset clears the registry. Exercised only by tests that need a clean
// slate between lifecycle scenarios, since the registry is a package-level
// singleton.
func Reset() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.devices = nil
}
