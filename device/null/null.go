// Package null implements the null device driver: transmit discards its
// data and always reports success.
package null

import (
	"log"
	"math"

	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/types"
)

const mtu = math.MaxUint16

// New creates a null device ready for registration. All of its callbacks
// are no-ops except Transmit, which discards its input.
func New(name string) *device.Device {
	d := &device.Device{
		Name:       name,
		DeviceType: device.TypeNull,
		MTU:        mtu,
	}
	d.Ops.Transmit = transmit
	return d
}

func transmit(d *device.Device, proto types.ProtocolNumber, data []byte, dst any) int {
	log.Printf("null: %s discarding protocol=%s size=%d", d.Name, proto, len(data))
	return 0
}
