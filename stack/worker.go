// Package stack ties the device registry, protocol registry and IPv4
// network layer together into a runnable system: registering built-in
// protocols, opening every device, and running the single background
// background worker until Shutdown is called.
package stack

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/protocol"
)

// pollIdleSleep is how long the worker sleeps after a pass that found no
// work, so it doesn't spin the CPU waiting on idle devices.
const pollIdleSleep = 10 * time.Millisecond

var (
	terminate atomic.Bool
	workerWG  sync.WaitGroup
)

// pollOnce runs one pass over every Up device and every registered
// protocol's queue, and reports whether any work was done. Lock ordering
// keeps lock scopes narrow: the device registry lock and the protocol
// registry lock are each held only long enough to snapshot, never across
// a Poll or handler call.
func pollOnce() bool {
	did := false

	it := device.LockedIterMut()
	devices := it.Devices()
	it.Release()

	for _, d := range devices {
		if !d.IsUp() {
			continue
		}
		if d.Poll() == 0 {
			did = true
		}
	}

	for _, proto := range protocol.Entries() {
		for protocol.DequeueAndHandle(proto) {
			did = true
		}
	}

	return did
}

// workerLoop is the single background goroutine spawned by Run. It polls
// devices and drains protocol queues until terminate is set, sleeping
// briefly between idle passes.
func workerLoop() {
	defer workerWG.Done()

	for !terminate.Load() {
		if !pollOnce() {
			time.Sleep(pollIdleSleep)
		}
	}
}
