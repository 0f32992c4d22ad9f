// Package header implements parsing of the wire formats this stack
// understands. Today that is IPv4 only; ARP, IPv6 and transport headers
// are out of scope.
package header

import (
	"encoding/binary"

	"github.com/kestrelnet/netstack/checksum"
	"github.com/kestrelnet/netstack/types"
)

// Field byte offsets within an IPv4 header.
const (
	versIHL    = 0
	tos        = 1
	totalLen   = 2
	id         = 4
	flagsFO    = 6
	ttl        = 8
	protocol   = 9
	ipChecksum = 10
	srcAddr    = 12
	dstAddr    = 16
)

const (
	// IPv4MinimumSize is the minimum size of a valid IPv4 packet: a
	// 20-byte header with no options.
	IPv4MinimumSize = 20

	// IPv4Version is the version nibble a valid IPv4 header carries.
	IPv4Version = 4

	// flagDF is the "don't fragment" bit of the 3-bit flags field. It is
	// the only flag bit the input pipeline tolerates set.
	flagDF = 1 << 1
)

// IPv4 represents an IPv4 header stored in a byte slice. Most methods
// access the underlying slice without bounds checks and can panic with
// "index out of range" on a truncated buffer; callers must check
// len(b) >= IPv4MinimumSize (and, once HeaderLength is known, len(b) >=
// HeaderLength()) before calling anything past that.
type IPv4 []byte

// Version returns the header's version nibble.
func (b IPv4) Version() uint8 {
	return b[versIHL] >> 4
}

// HeaderLength returns the header length in bytes, decoded from the IHL
// nibble (stored in 32-bit words).
func (b IPv4) HeaderLength() uint8 {
	return (b[versIHL] & 0xf) * 4
}

// TOS returns the "type of service" byte, split into its DSCP (low 6
// bits) and ECN (high 2 bits) fields.
func (b IPv4) TOS() (dscp, ecn uint8) {
	return b[tos] & 0x3f, b[tos] >> 6
}

// TotalLength returns the "total length" field.
func (b IPv4) TotalLength() uint16 {
	return binary.BigEndian.Uint16(b[totalLen:])
}

// ID returns the "identification" field.
func (b IPv4) ID() uint16 {
	return binary.BigEndian.Uint16(b[id:])
}

// Flags returns the 3-bit flags field (bit 2 = reserved, bit 1 = DF,
// bit 0 = MF), shifted down to its own byte.
func (b IPv4) Flags() uint8 {
	return uint8(binary.BigEndian.Uint16(b[flagsFO:]) >> 13)
}

// FragmentOffset returns the 13-bit fragment-offset field, in units of 8
// bytes.
func (b IPv4) FragmentOffset() uint16 {
	return binary.BigEndian.Uint16(b[flagsFO:]) & 0x1fff
}

// TTL returns the "time to live" field.
func (b IPv4) TTL() uint8 {
	return b[ttl]
}

// Protocol returns the upper-layer protocol field.
func (b IPv4) Protocol() uint8 {
	return b[protocol]
}

// Checksum returns the header checksum field as stored on the wire.
func (b IPv4) Checksum() uint16 {
	return binary.BigEndian.Uint16(b[ipChecksum:])
}

// SourceAddress returns the source address field.
func (b IPv4) SourceAddress() types.IPv4Address {
	return types.IPv4AddressFromBytes(b[srcAddr : srcAddr+types.IPv4AddressSize])
}

// DestinationAddress returns the destination address field.
func (b IPv4) DestinationAddress() types.IPv4Address {
	return types.IPv4AddressFromBytes(b[dstAddr : dstAddr+types.IPv4AddressSize])
}

// IsFragmented reports whether the datagram is a fragment: either MF or
// the reserved bit is set, or the fragment offset is non-zero. DF alone
// does not mark a datagram as fragmented.
func (b IPv4) IsFragmented() bool {
	return b.Flags()&^flagDF != 0 || b.FragmentOffset() != 0
}

// CalculateChecksum computes the one's-complement checksum over the
// header's own bytes (options included). An intact header with a valid
// checksum field sums to 0xffff, whose complement is 0.
func (b IPv4) CalculateChecksum() uint16 {
	return checksum.Checksum(b[:b.HeaderLength()], 0)
}
