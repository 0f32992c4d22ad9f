package stack

import (
	"log"

	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/network/ipv4"
)

// Init registers the stack's built-in network-layer protocols. It is
// idempotent and safe to call more than once: the protocol registry
// reports a repeat registration as ErrAlreadyRegistered, and ipv4.Init
// treats that as success.
func Init() error {
	if err := ipv4.Init(); err != nil {
		return err
	}
	return nil
}

// Run opens every device currently in the registry and starts the
// background worker. If any device fails to open, Run closes the
// devices it already opened, in reverse order, and returns the failure without
// starting the worker.
func Run() error {
	it := device.LockedIterMut()
	devices := it.Devices()
	it.Release()

	opened := make([]*device.Device, 0, len(devices))
	for _, d := range devices {
		if err := d.Open(); err != nil {
			log.Printf("stack: open failed DEV=%s err=%v, unwinding", d.Name, err)
			for i := len(opened) - 1; i >= 0; i-- {
				if closeErr := opened[i].Close(); closeErr != nil {
					log.Printf("stack: unwind close failed DEV=%s err=%v", opened[i].Name, closeErr)
				}
			}
			return err
		}
		opened = append(opened, d)
	}

	terminate.Store(false)
	workerWG.Add(1)
	go workerLoop()

	log.Printf("stack: running with %d device(s)", len(opened))
	return nil
}

// Shutdown stops the worker and closes every registered device. Close
// failures are logged but do not stop the shutdown sequence from
// proceeding to the next device.
func Shutdown() {
	terminate.Store(true)
	workerWG.Wait()

	it := device.LockedIterMut()
	devices := it.Devices()
	it.Release()

	for _, d := range devices {
		if !d.IsUp() {
			continue
		}
		if err := d.Close(); err != nil {
			log.Printf("stack: shutdown close failed DEV=%s err=%v", d.Name, err)
		}
	}

	log.Printf("stack: shutdown complete")
}
