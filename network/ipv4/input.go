package ipv4

import (
	"log"

	"github.com/kestrelnet/netstack/buffer"
	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/header"
	"github.com/kestrelnet/netstack/protocol"
	"github.com/kestrelnet/netstack/types"
)

// ProtocolName is the string name used to register IPv4 on the stack.
const ProtocolName = "ipv4"

// ProtocolNumber is IPv4's network protocol number.
const ProtocolNumber = types.ProtocolIPv4

// UpperLayerHandler is invoked once an IPv4 datagram has passed every
// validation step and its destination has been accepted. It receives the
// datagram's payload (header stripped) and the parsed source/destination
// addresses. This core stubs delivery to upper layers (TCP/UDP/ICMP are
// Non-goals); the default handler only logs.
type UpperLayerHandler func(payload []byte, src, dst types.IPv4Address, dev *device.Device)

var upperLayerHandler UpperLayerHandler = defaultUpperLayerHandler

// SetUpperLayerHandler overrides the stub delivery hook. Tests use this
// to observe that an accepted datagram reached the upper layer exactly
// once.
func SetUpperLayerHandler(h UpperLayerHandler) {
	if h == nil {
		h = defaultUpperLayerHandler
	}
	upperLayerHandler = h
}

func defaultUpperLayerHandler(payload []byte, src, dst types.IPv4Address, dev *device.Device) {
	log.Printf("ipv4: accepted DEV=%s %s -> %s len=%d (no upper-layer handler registered)", dev.Name, src, dst, len(payload))
}

// Init registers the IPv4 input handler with the protocol registry. It is
// idempotent: a second call observes ErrAlreadyRegistered from the
// registry and treats it as success, so callers can init unconditionally.
func Init() error {
	err := protocol.Register(ProtocolNumber, Input)
	if err == types.ErrAlreadyRegistered {
		return nil
	}
	return err
}

// Input runs the validation pipeline in order: minimum length, header
// parse, version, declared lengths, TTL, checksum, destination demux,
// fragmentation. Every rejection drops the frame and logs a diagnostic;
// none of them propagate an error to the caller, since frame drops are
// never fatal to the worker.
func Input(data buffer.View, dev *device.Device) {
	if len(data) < header.IPv4MinimumSize {
		log.Printf("ipv4: %s: %v len=%d", dev.Name, types.ErrHeaderTooShort, len(data))
		return
	}

	b := header.IPv4(data)

	if b.Version() != header.IPv4Version {
		log.Printf("ipv4: %s: %v got=%d", dev.Name, types.ErrVersionMismatch, b.Version())
		return
	}

	hlen := int(b.HeaderLength())
	tlen := int(b.TotalLength())
	if len(data) < hlen || len(data) < tlen {
		log.Printf("ipv4: %s: %v hlen=%d tlen=%d have=%d", dev.Name, types.ErrHeaderTooShort, hlen, tlen, len(data))
		return
	}

	if b.TTL() == 0 {
		log.Printf("ipv4: %s: %v", dev.Name, types.ErrTTLExpired)
		return
	}

	if b.CalculateChecksum() != 0 {
		log.Printf("ipv4: %s: %v", dev.Name, types.ErrChecksumError)
		return
	}

	dst := b.DestinationAddress()
	if iface := InterfaceForDevice(dev); iface != nil {
		if !accepts(iface, dst) {
			log.Printf("ipv4: %s dropping, not addressed to us dst=%s", dev.Name, dst)
			return
		}
	}

	if b.IsFragmented() {
		log.Printf("ipv4: %s: %v", dev.Name, types.ErrFragmentation)
		return
	}

	src := b.SourceAddress()
	upperLayerHandler(b[hlen:tlen], src, dst, dev)
}

// accepts reports whether dst is one this interface should receive:
// its own unicast address, its subnet broadcast, or the global limited
// broadcast.
func accepts(iface *Interface, dst types.IPv4Address) bool {
	return dst.Equal(iface.Unicast) || dst.Equal(iface.Broadcast) || dst.Equal(types.IPv4Broadcast)
}
