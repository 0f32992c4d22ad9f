package types

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// IPv4AddressSize is the size, in bytes, of an IPv4 address.
const IPv4AddressSize = 4

// IPv4Address is a 4-byte IPv4 address value.
type IPv4Address [IPv4AddressSize]byte

// IPv4Broadcast is the limited broadcast address 255.255.255.255.
var IPv4Broadcast = IPv4Address{0xff, 0xff, 0xff, 0xff}

// ParseIPv4Address parses a dotted-decimal string into an IPv4Address.
func ParseIPv4Address(s string) (IPv4Address, error) {
	var addr IPv4Address

	parts := strings.Split(s, ".")
	if len(parts) != IPv4AddressSize {
		return addr, ErrInvalidAddress
	}

	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return addr, ErrInvalidAddress
		}
		addr[i] = byte(v)
	}

	return addr, nil
}

// IPv4AddressFromBytes copies a 4-byte slice into an IPv4Address. It panics
// if b is shorter than IPv4AddressSize, which callers must have already
// validated (see the header.IPv4MinimumSize check in ipv4.Input).
func IPv4AddressFromBytes(b []byte) IPv4Address {
	var addr IPv4Address
	copy(addr[:], b[:IPv4AddressSize])
	return addr
}

// Uint32 returns the address as a host-endian 32-bit integer.
func (a IPv4Address) Uint32() uint32 {
	return binary.BigEndian.Uint32(a[:])
}

// IPv4AddressFromUint32 builds an IPv4Address from a host-endian 32-bit
// integer.
func IPv4AddressFromUint32(v uint32) IPv4Address {
	var addr IPv4Address
	binary.BigEndian.PutUint32(addr[:], v)
	return addr
}

// Equal reports whether a and b are the same address.
func (a IPv4Address) Equal(b IPv4Address) bool {
	return a == b
}

// String formats the address in dotted-decimal notation.
func (a IPv4Address) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}
