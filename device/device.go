// Package device implements the polymorphic network-device abstraction:
// the {open, close, transmit, poll} operation contract every driver
// implements, the high-level wrapper that enforces the Up-flag invariants
// around it, and the process-wide device registry the worker polls.
package device

import (
	"fmt"

	"github.com/kestrelnet/netstack/types"
)

// Type identifies the kind of device behind a Device record.
type Type uint16

const (
	TypeNull Type = iota
	TypeLoopback
	TypeEthernet
)

// String implements fmt.Stringer, used by diagnostic log lines.
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeLoopback:
		return "Loopback"
	case TypeEthernet:
		return "Ethernet"
	default:
		return "Unknown"
	}
}

// Flags is a bitmask over a device's operational state and capabilities.
type Flags uint16

const (
	// FlagUp is set iff the most recent of open/close on the device was
	// open and it returned success.
	FlagUp Flags = 1 << iota
	FlagLoopback
	FlagBroadcast
	FlagP2P
	FlagNeedsArp
)

// Has reports whether all bits in mask are set in f.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// Ops is the operation vtable a driver supplies. Every callback is
// optional; a nil callback is treated by the Device wrapper as success
// with no effect. Each callback returns a signed status: -1 means
// failure, any value >= 0 means success.
type Ops struct {
	// Open is called from Down state only. It may acquire kernel
	// resources (file descriptors, queues).
	Open func(d *Device) int

	// Close is called from Up state only. It releases resources
	// acquired by Open.
	Close func(d *Device) int

	// Transmit writes size bytes of data to destination dst under
	// protocol proto. dst's concrete type is driver-specific: loopback
	// expects a destination []byte to copy into, while the tap driver
	// accepts a types.HWAddr but does not use it (the frame in data
	// already carries its destination MAC). It returns the number of bytes
	// written, or -1 on failure. Must be safe to call concurrently with
	// Poll on the same device.
	Transmit func(d *Device, proto types.ProtocolNumber, data []byte, dst any) int

	// Poll performs a non-blocking or short-timeout check for inbound
	// frames. On a frame it must invoke the protocol registry's Input
	// before returning. It returns 0 if a frame was handled, -1
	// otherwise.
	Poll func(d *Device) int
}

// Interface is implemented by upper-layer address records (currently only
// ipv4.Interface) that a Device can carry attached to it. The device
// package only needs to store and enumerate these; it does not interpret
// them.
type Interface interface {
	// Summary returns a short human-readable description, used by log
	// lines when a device's interfaces are dumped.
	Summary() string
}

// Device is a registered network endpoint.
type Device struct {
	// Name is stable and unique within the registry.
	Name string

	DeviceType Type
	MTU        uint16
	Flags      Flags

	HeaderLength  uint16
	AddressLength uint16

	HWAddr types.HWAddr

	// PeerOrBroadcast is the device's peer address (point-to-point
	// devices) or broadcast address (broadcast-capable devices), in the
	// same 16-byte buffer shape as HWAddr.
	PeerOrBroadcast types.HWAddr

	Ops Ops

	interfaces []Interface
}

// IsUp reports whether the device's Up flag is currently set.
func (d *Device) IsUp() bool {
	return d.Flags.Has(FlagUp)
}

// AddInterface attaches an upper-layer interface record to the device.
// Devices own their interfaces; the interface itself should hold only a
// stable reference back to the device name, never a reciprocal owning
// pointer.
func (d *Device) AddInterface(iface Interface) {
	d.interfaces = append(d.interfaces, iface)
}

// Interfaces returns the device's attached interfaces.
func (d *Device) Interfaces() []Interface {
	return d.interfaces
}

// String implements fmt.Stringer.
func (d *Device) String() string {
	return fmt.Sprintf("%s(%s)", d.Name, d.DeviceType)
}
