package types

import "fmt"

// HWAddrLength is the size, in bytes, of a device's link-address buffer.
// Real hardware addresses are 6 bytes for Ethernet, 0 for loopback; the
// buffer is sized generously and devices set their own effective length.
const HWAddrLength = 16

// HWAddr is a fixed-size link-address buffer. It is immutable once a
// device has been registered.
type HWAddr [HWAddrLength]byte

// String formats the first 6 bytes as a colon-separated hex MAC, which is
// the only link-address shape this stack's devices currently populate.
func (a HWAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}
