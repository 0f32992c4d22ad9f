package hostnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFakeSysfs creates a minimal stand-in for /sys/class/net: a
// directory containing a symlink per interface, each pointing at a
// directory with an "address" file.
func buildFakeSysfs(t *testing.T, interfaces map[string]string) string {
	t.Helper()

	root := t.TempDir()
	classNet := filepath.Join(root, "class", "net")
	devices := filepath.Join(root, "devices")
	require.NoError(t, os.MkdirAll(classNet, 0o755))
	require.NoError(t, os.MkdirAll(devices, 0o755))

	for name, addr := range interfaces {
		target := filepath.Join(devices, name)
		require.NoError(t, os.MkdirAll(target, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(target, "address"), []byte(addr+"\n"), 0o644))
		require.NoError(t, os.Symlink(target, filepath.Join(classNet, name)))
	}

	return classNet
}

func TestListReturnsEveryInterface(t *testing.T) {
	orig := sysClassNet
	defer func() { sysClassNet = orig }()

	sysClassNet = buildFakeSysfs(t, map[string]string{
		"eth0": "00:11:22:33:44:55",
		"lo":   "00:00:00:00:00:00",
	})

	ifaces, err := List()
	require.NoError(t, err)
	assert.Len(t, ifaces, 2)

	byName := make(map[string]Interface)
	for _, iface := range ifaces {
		byName[iface.Name] = iface
	}

	assert.Equal(t, "00:11:22:33:44:55", byName["eth0"].HWAddr)
	assert.Equal(t, "00:00:00:00:00:00", byName["lo"].HWAddr)
}

func TestListSkipsUnreadableEntries(t *testing.T) {
	orig := sysClassNet
	defer func() { sysClassNet = orig }()

	dir := buildFakeSysfs(t, map[string]string{"eth0": "aa:bb:cc:dd:ee:ff"})
	require.NoError(t, os.Symlink(filepath.Join(dir, "does-not-exist"), filepath.Join(dir, "ghost0")))
	sysClassNet = dir

	ifaces, err := List()
	require.NoError(t, err)
	require.Len(t, ifaces, 1)
	assert.Equal(t, "eth0", ifaces[0].Name)
}

func TestListMissingDirectoryFails(t *testing.T) {
	orig := sysClassNet
	defer func() { sysClassNet = orig }()

	sysClassNet = filepath.Join(t.TempDir(), "does-not-exist")

	_, err := List()
	assert.Error(t, err)
}
