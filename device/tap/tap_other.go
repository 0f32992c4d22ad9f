//go:build !linux

package tap

import (
	"errors"

	"github.com/kestrelnet/netstack/device"
)

// New is unsupported outside Linux: /dev/net/tun and TUNSETIFF are a
// Linux-specific kernel interface.
func New(name string) (*device.Device, error) {
	return nil, errors.New("tap: unsupported on this platform")
}
