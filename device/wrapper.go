package device

import (
	"log"

	"github.com/kestrelnet/netstack/types"
)

// Open transitions the device from Down to Up. It fails with
// ErrAlreadyUp if the Up flag is already set, and with ErrOpenFailed if
// the driver's Open callback reports failure. A nil Open callback is
// treated as success with no effect.
func (d *Device) Open() error {
	if d.IsUp() {
		log.Printf("device: %s is already up", d.Name)
		return types.ErrAlreadyUp
	}

	if d.Ops.Open != nil {
		if d.Ops.Open(d) == -1 {
			log.Printf("device: open failed DEV=%s", d.Name)
			return types.ErrOpenFailed
		}
	}

	d.Flags |= FlagUp
	log.Printf("device: opened DEV=%s", d.Name)
	return nil
}

// Close transitions the device from Up to Down. It fails with
// ErrAlreadyDown if the Up flag is already clear, and with
// ErrCloseFailed if the driver's Close callback reports failure. A nil
// Close callback is treated as success with no effect.
func (d *Device) Close() error {
	if !d.IsUp() {
		log.Printf("device: %s is already down", d.Name)
		return types.ErrAlreadyDown
	}

	if d.Ops.Close != nil {
		if d.Ops.Close(d) == -1 {
			log.Printf("device: close failed DEV=%s", d.Name)
			return types.ErrCloseFailed
		}
	}

	d.Flags &^= FlagUp
	log.Printf("device: closed DEV=%s", d.Name)
	return nil
}

// Output transmits data to dst under protocol proto. It fails with
// ErrNotOpen if the device isn't up, and with ErrDataSizeTooBig if
// len(data) exceeds the device's MTU. A nil Transmit callback is treated
// as success with no effect.
func (d *Device) Output(proto types.ProtocolNumber, data []byte, dst any) error {
	if !d.IsUp() {
		log.Printf("device: output on closed device DEV=%s", d.Name)
		return types.ErrNotOpen
	}

	if len(data) > int(d.MTU) {
		log.Printf("device: data size too big DEV=%s MTU=%d SIZE=%d", d.Name, d.MTU, len(data))
		return types.ErrDataSizeTooBig
	}

	if d.Ops.Transmit != nil {
		if d.Ops.Transmit(d, proto, data, dst) == -1 {
			log.Printf("device: transmit failed DEV=%s SIZE=%d", d.Name, len(data))
			return types.ErrTransmitFailed
		}
	}

	return nil
}

// Poll invokes the driver's Poll callback. A nil Poll callback reports no
// work done.
func (d *Device) Poll() int {
	if d.Ops.Poll == nil {
		return -1
	}
	return d.Ops.Poll(d)
}
