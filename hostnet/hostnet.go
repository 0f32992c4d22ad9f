// Package hostnet enumerates the host's network interfaces by walking
// /sys/class/net, mirroring what a driver would otherwise have to do at
// startup to discover which interfaces exist before attaching a tap
// device to one of them. It is diagnostics-only: nothing in the core
// depends on its output.
package hostnet

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// sysClassNet is a var, not a const, so tests can point it at a
// synthetic directory tree instead of the real /sys/class/net.
var sysClassNet = "/sys/class/net"

// Interface describes one host network interface as reported by sysfs.
type Interface struct {
	Name       string
	HWAddr     string
	SysfsEntry string
}

// List enumerates every interface under /sys/class/net, reading each
// entry's address file through its sysfs symlink. Entries whose address
// file can't be read are skipped and logged rather than failing the
// whole enumeration, since a single misbehaving interface (common for
// virtual devices mid-teardown) shouldn't block discovery of the rest.
func List() ([]Interface, error) {
	entries, err := os.ReadDir(sysClassNet)
	if err != nil {
		return nil, err
	}

	ifaces := make([]Interface, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()

		target, err := filepath.EvalSymlinks(filepath.Join(sysClassNet, name))
		if err != nil {
			log.Printf("hostnet: %s: cannot resolve symlink: %v", name, err)
			continue
		}

		addr, err := readMACAddress(filepath.Join(target, "address"))
		if err != nil {
			log.Printf("hostnet: %s: cannot read address: %v", name, err)
			continue
		}

		ifaces = append(ifaces, Interface{
			Name:       name,
			HWAddr:     addr,
			SysfsEntry: target,
		})
	}

	return ifaces, nil
}

func readMACAddress(addressFile string) (string, error) {
	b, err := os.ReadFile(addressFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
