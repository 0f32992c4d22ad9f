//go:build linux

// Package tap implements the tap device driver: it wraps /dev/net/tun
// opened in tap (link-layer) mode with no packet-info prefix.
package tap

import (
	"encoding/binary"
	"log"

	"golang.org/x/sys/unix"

	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/protocol"
	"github.com/kestrelnet/netstack/types"
)

// pollTimeoutMillis bounds how long Poll blocks waiting for the tap fd to
// become readable.
const pollTimeoutMillis = 3000

// mtu is the tap device's maximum transmit unit. 1500 matches the
// Ethernet payload MTU every tap-backed interface defaults to.
const mtu = 1500

// ethernetHeaderLength is the size of the destination MAC, source MAC and
// EtherType fields that precede the network-layer payload on every frame
// a tap device delivers.
const ethernetHeaderLength = 14

type driver struct {
	fd  int
	buf []byte
}

// New opens the named tap interface and returns a Device ready for
// registration. The TUNSETIFF request attaches to an existing tap
// interface of that name (e.g. one created with `ip tuntap add <name>
// mode tap`), or has the kernel create it if none exists.
func New(name string) (*device.Device, error) {
	fd, err := unix.Open("/dev/net/tun", unix.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	ifr, err := unix.NewIfreq(name)
	if err != nil {
		unix.Close(fd)
		return nil, err
	}
	ifr.SetUint16(unix.IFF_TAP | unix.IFF_NO_PI)

	if err := unix.IoctlIfreq(fd, unix.TUNSETIFF, ifr); err != nil {
		unix.Close(fd)
		return nil, err
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, err
	}

	drv := &driver{
		fd:  fd,
		buf: make([]byte, mtu+ethernetHeaderLength),
	}

	d := &device.Device{
		Name:          name,
		DeviceType:    device.TypeEthernet,
		MTU:           mtu,
		HeaderLength:  ethernetHeaderLength,
		AddressLength: 6,
		Flags:         device.FlagBroadcast | device.FlagNeedsArp,
	}
	d.Ops.Open = drv.open
	d.Ops.Close = drv.close
	d.Ops.Transmit = drv.transmit
	d.Ops.Poll = drv.poll

	return d, nil
}

// open has nothing left to do: the fd is already live from New.
func (t *driver) open(d *device.Device) int {
	return 0
}

func (t *driver) close(d *device.Device) int {
	if err := unix.Close(t.fd); err != nil {
		log.Printf("tap: %s close failed: %v", d.Name, err)
		return -1
	}
	return 0
}

// transmit writes a raw Ethernet frame to the kernel. dst, when non-nil,
// is the destination types.HWAddr the caller wants the frame addressed
// to; building the destination MAC into the frame is the caller's
// responsibility via data, so dst is accepted but unused here (mirrors
// the original driver, which only ever wrote raw bytes through).
func (t *driver) transmit(d *device.Device, proto types.ProtocolNumber, data []byte, dst any) int {
	n, err := unix.Write(t.fd, data)
	if err != nil {
		log.Printf("tap: %s write failed: %v", d.Name, err)
		return -1
	}
	return n
}

// poll waits up to pollTimeoutMillis for the tap fd to become readable,
// then reads one frame, strips its Ethernet header and hands the
// remaining network-layer payload to the protocol registry. The header
// is stripped here, not downstream, so every protocol handler sees the
// same header-free payload shape regardless of which device it arrived
// on.
func (t *driver) poll(d *device.Device) int {
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, pollTimeoutMillis)
	if err != nil || n == 0 {
		return -1
	}
	if fds[0].Revents&unix.POLLIN == 0 {
		return -1
	}

	nread, err := unix.Read(t.fd, t.buf)
	if err != nil || nread < ethernetHeaderLength {
		return -1
	}

	frame := t.buf[:nread]
	etherType := types.ProtocolNumber(binary.BigEndian.Uint16(frame[12:14]))
	payload := frame[ethernetHeaderLength:]

	protocol.Input(etherType, payload, d)
	return 0
}
