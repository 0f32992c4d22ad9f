package protocol

import (
	"github.com/kestrelnet/netstack/buffer"
	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/ilist"
	"github.com/kestrelnet/netstack/tmutex"
)

// queueEntry is a single pending frame: the originating device (a
// non-owning reference, valid for the process lifetime because devices
// are never deregistered) and an owned copy of the frame's bytes.
type queueEntry struct {
	ilist.Entry

	device *device.Device
	data   buffer.View
}

// Next/Prev are already satisfied by the embedded ilist.Entry; queueEntry
// only needs to be addressable as an ilist.Linker, which *queueEntry
// already is through promotion.

// queue is a per-protocol FIFO, backed by an intrusive list and guarded
// by its own try-lockable mutex so enqueue/dequeue never blocks on the
// registry lock.
type queue struct {
	mu   tmutex.Mutex
	list ilist.List
}

func newQueue() *queue {
	q := &queue{}
	q.mu.Init()
	return q
}

// push appends an entry to the back of the queue.
func (q *queue) push(e *queueEntry) {
	q.mu.Lock()
	q.list.PushBack(e)
	q.mu.Unlock()
}

// pop removes and returns the front entry, or nil if the queue is empty.
func (q *queue) pop() *queueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()

	front := q.list.Front()
	if front == nil {
		return nil
	}
	q.list.Remove(front)
	return front.(*queueEntry)
}
