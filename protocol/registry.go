// Package protocol implements the registry of upper-layer protocol
// handlers: a process-wide table of
// (protocol number, handler, inbound FIFO queue) triples, fed by device
// poll callbacks and drained by the worker loop.
package protocol

import (
	"log"
	"sync"

	"github.com/kestrelnet/netstack/buffer"
	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/types"
)

// Handler processes one dequeued frame. It is invoked by the worker with
// no registry or queue lock held, so it may take as long as it needs.
type Handler func(data buffer.View, dev *device.Device)

// entry is a single registered protocol: its number, handler and queue.
type entry struct {
	number  types.ProtocolNumber
	handler Handler
	queue   *queue
}

var registry = struct {
	mu      sync.Mutex
	entries []*entry
}{}

// Register adds a handler for proto. It fails with ErrAlreadyRegistered
// if proto is already registered; the second call in a double-init
// sequence is expected to observe this and treat it as success (see
// ipv4.Init).
func Register(proto types.ProtocolNumber, handler Handler) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	for _, e := range registry.entries {
		if e.number == proto {
			log.Printf("protocol: %s already registered", proto)
			return types.ErrAlreadyRegistered
		}
	}

	registry.entries = append(registry.entries, &entry{
		number:  proto,
		handler: handler,
		queue:   newQueue(),
	})
	return nil
}

// Input is called by a device driver's Poll callback when it has decoded
// a frame's protocol number. It copies all of data into a new
// queue-owned buffer and enqueues it against proto's entry. Unknown
// protocol numbers are logged and dropped, not treated as an error.
func Input(proto types.ProtocolNumber, data []byte, dev *device.Device) {
	registry.mu.Lock()
	e := find(proto)
	registry.mu.Unlock()

	if e == nil {
		log.Printf("protocol: %s unknown, dropping frame DEV=%s SIZE=%d", proto, dev.Name, len(data))
		return
	}

	e.queue.push(&queueEntry{device: dev, data: buffer.NewViewFromBytes(data)})
	log.Printf("protocol: %s queued DEV=%s SIZE=%d", proto, dev.Name, len(data))
}

// find returns the entry registered for proto, or nil. Callers must hold
// registry.mu.
func find(proto types.ProtocolNumber) *entry {
	for _, e := range registry.entries {
		if e.number == proto {
			return e
		}
	}
	return nil
}

// Entries returns the protocol numbers currently registered. Used by the
// worker loop to know which queues to drain without holding the registry
// lock any longer than it takes to copy the slice.
func Entries() []types.ProtocolNumber {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	numbers := make([]types.ProtocolNumber, len(registry.entries))
	for i, e := range registry.entries {
		numbers[i] = e.number
	}
	return numbers
}

// DequeueAndHandle pops at most one pending frame for proto and invokes
// its handler. It reports whether a frame was handled, so the worker can
// count it as work done. The queue lock is released before the handler
// runs, so a slow handler never blocks a concurrent Register or Input.
func DequeueAndHandle(proto types.ProtocolNumber) bool {
	registry.mu.Lock()
	e := find(proto)
	registry.mu.Unlock()

	if e == nil {
		return false
	}

	qe := e.queue.pop()
	if qe == nil {
		return false
	}

	e.handler(qe.data, qe.device)
	return true
}

// Reset clears the registry. Exercised only by tests.
func Reset() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.entries = nil
}
