// Package loopback implements the loopback device driver: transmit copies
// its source bytes byte-for-byte into the destination buffer and verifies
// the copy before reporting success.
package loopback

import (
	"log"
	"math"

	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/types"
)

// mtu is the loopback device's maximum transmit unit: the largest value a
// uint16 can hold, since loopback never fragments.
const mtu = math.MaxUint16

// New creates a loopback device ready for registration. Its Open, Close
// and Poll callbacks are left nil (no-ops); its Transmit callback is the
// copy-and-verify loop below.
func New(name string) *device.Device {
	d := &device.Device{
		Name:       name,
		DeviceType: device.TypeLoopback,
		MTU:        mtu,
		Flags:      device.FlagLoopback,
	}
	d.Ops.Transmit = transmit
	return d
}

// transmit copies data into dst, which must be a []byte of at least
// len(data) bytes, then reads it back to verify the copy landed
// correctly. Any observed mismatch after the copy is reported as
// failure.
func transmit(d *device.Device, proto types.ProtocolNumber, data []byte, dst any) int {
	buf, ok := dst.([]byte)
	if !ok || len(buf) < len(data) {
		log.Printf("loopback: %s bad destination buffer", d.Name)
		return -1
	}

	log.Printf("loopback: %s protocol=%s size=%d", d.Name, proto, len(data))

	n := copy(buf, data)
	for i := 0; i < n; i++ {
		if buf[i] != data[i] {
			log.Printf("loopback: %s copy verification failed at offset %d", d.Name, i)
			return -1
		}
	}

	return n
}
