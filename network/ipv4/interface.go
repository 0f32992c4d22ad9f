// Package ipv4 implements the IPv4 interface table and input validation
// pipeline.
package ipv4

import (
	"log"
	"sync"

	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/types"
)

// Interface is an IPv4 address configuration attached to a device: its
// unicast address, netmask and the broadcast address derived from them.
type Interface struct {
	Unicast   types.IPv4Address
	Netmask   types.IPv4Address
	Broadcast types.IPv4Address

	// deviceName is a stable, non-owning reference to the interface's
	// device. Devices own their interfaces; an interface never holds a
	// reciprocal owning pointer back to its device.
	deviceName string
}

// Summary implements device.Interface.
func (i *Interface) Summary() string {
	return i.Unicast.String() + "/" + i.Netmask.String()
}

// Broadcast computes the broadcast address for a unicast/netmask pair:
// (unicast & netmask) | ^netmask.
func Broadcast(unicast, netmask types.IPv4Address) types.IPv4Address {
	u, m := unicast.Uint32(), netmask.Uint32()
	return types.IPv4AddressFromUint32((u & m) | ^m)
}

var table = struct {
	mu         sync.Mutex
	interfaces []*Interface
}{}

// AddInterface parses unicast and netmask dotted-decimal strings,
// computes the broadcast address, attaches the resulting Interface to
// dev and registers it in the global interface table. A second
// attempt to add an interface to the same device is non-fatal: it
// returns ErrAlreadyRegistered and leaves the table unchanged.
func AddInterface(dev *device.Device, unicastStr, netmaskStr string) (*Interface, error) {
	unicast, err := types.ParseIPv4Address(unicastStr)
	if err != nil {
		return nil, err
	}
	netmask, err := types.ParseIPv4Address(netmaskStr)
	if err != nil {
		return nil, err
	}

	table.mu.Lock()
	defer table.mu.Unlock()

	for _, existing := range table.interfaces {
		if existing.deviceName == dev.Name {
			log.Printf("ipv4: interface already registered DEV=%s", dev.Name)
			return nil, types.ErrAlreadyRegistered
		}
	}

	iface := &Interface{
		Unicast:    unicast,
		Netmask:    netmask,
		Broadcast:  Broadcast(unicast, netmask),
		deviceName: dev.Name,
	}

	dev.AddInterface(iface)
	table.interfaces = append(table.interfaces, iface)

	log.Printf("ipv4: interface added DEV=%s addr=%s netmask=%s broadcast=%s", dev.Name, unicast, netmask, iface.Broadcast)
	return iface, nil
}

// Select returns the first registered interface whose unicast address
// equals addr, or nil.
func Select(addr types.IPv4Address) *Interface {
	table.mu.Lock()
	defer table.mu.Unlock()

	for _, iface := range table.interfaces {
		if iface.Unicast.Equal(addr) {
			return iface
		}
	}
	return nil
}

// InterfaceForDevice returns the interface attached to dev, or nil if
// none has been registered.
func InterfaceForDevice(dev *device.Device) *Interface {
	table.mu.Lock()
	defer table.mu.Unlock()

	for _, iface := range table.interfaces {
		if iface.deviceName == dev.Name {
			return iface
		}
	}
	return nil
}

// Reset clears the interface table. Exercised only by tests.
func Reset() {
	table.mu.Lock()
	defer table.mu.Unlock()
	table.interfaces = nil
}
