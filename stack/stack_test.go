package stack_test

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelnet/netstack/checksum"
	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/device/loopback"
	"github.com/kestrelnet/netstack/device/null"
	"github.com/kestrelnet/netstack/header"
	"github.com/kestrelnet/netstack/network/ipv4"
	"github.com/kestrelnet/netstack/protocol"
	"github.com/kestrelnet/netstack/stack"
	"github.com/kestrelnet/netstack/types"
)

// buildIPv4Header returns a minimal 20-byte IPv4 datagram (no payload)
// with a correct or deliberately corrupted checksum.
func buildIPv4Header(t *testing.T, ttl uint8, src, dst types.IPv4Address, badChecksum bool) []byte {
	t.Helper()

	b := make(header.IPv4, header.IPv4MinimumSize)
	b[0] = (header.IPv4Version << 4) | 5
	binary.BigEndian.PutUint16(b[2:], header.IPv4MinimumSize)
	b[8] = ttl
	b[9] = 17
	copy(b[12:16], src[:])
	copy(b[16:20], dst[:])

	sum := checksum.Checksum(b, 0)
	if badChecksum {
		sum++
	}
	binary.BigEndian.PutUint16(b[10:12], sum)

	return b
}

// resetAll clears every package-level registry singleton so scenarios
// don't leak state into one another.
func resetAll(t *testing.T) {
	t.Helper()
	device.Reset()
	protocol.Reset()
	ipv4.Reset()
	ipv4.SetUpperLayerHandler(nil)
}

func TestLoopbackRoundTrip(t *testing.T) {
	resetAll(t)

	lo := loopback.New("lo0")
	require.NoError(t, device.Register(lo))
	require.NoError(t, stack.Init())
	require.NoError(t, stack.Run())
	defer stack.Shutdown()

	want := bytes.Repeat([]byte{0x32}, 8)

	for i := 0; i < 10; i++ {
		buf := make([]byte, len(want))
		err := lo.Output(types.ProtocolIPv4, want, buf)
		assert.NoError(t, err)
		assert.Equal(t, want, buf)
	}
}

func TestNullDiscardsOutput(t *testing.T) {
	resetAll(t)

	n := null.New("null0")
	require.NoError(t, device.Register(n))
	require.NoError(t, stack.Run())
	defer stack.Shutdown()

	err := n.Output(types.ProtocolIPv4, []byte{1, 2, 3}, nil)
	assert.NoError(t, err)
}

func TestOutputBeforeRunFails(t *testing.T) {
	resetAll(t)

	lo := loopback.New("lo0")
	require.NoError(t, device.Register(lo))

	buf := make([]byte, 4)
	err := lo.Output(types.ProtocolIPv4, []byte{1, 2, 3, 4}, buf)
	assert.ErrorIs(t, err, types.ErrNotOpen)
}

func TestOutputOverMTUFails(t *testing.T) {
	resetAll(t)

	d := &device.Device{Name: "eth0", MTU: 1500}
	require.NoError(t, device.Register(d))
	require.NoError(t, stack.Run())
	defer stack.Shutdown()

	err := d.Output(types.ProtocolIPv4, make([]byte, 1501), nil)
	assert.ErrorIs(t, err, types.ErrDataSizeTooBig)
}

func TestIPv4InputHappyPathThroughWorker(t *testing.T) {
	resetAll(t)

	d := &device.Device{Name: "eth0", MTU: 1500}
	require.NoError(t, device.Register(d))
	_, err := ipv4.AddInterface(d, "10.0.0.2", "255.255.255.0")
	require.NoError(t, err)
	require.NoError(t, stack.Init())
	require.NoError(t, stack.Run())
	defer stack.Shutdown()

	called := make(chan struct{}, 1)
	ipv4.SetUpperLayerHandler(func([]byte, types.IPv4Address, types.IPv4Address, *device.Device) {
		called <- struct{}{}
	})

	src, _ := types.ParseIPv4Address("10.0.0.1")
	dst, _ := types.ParseIPv4Address("10.0.0.2")
	frame := buildIPv4Header(t, 64, src, dst, false)
	protocol.Input(types.ProtocolIPv4, frame, d)

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("upper-layer handler was never invoked")
	}
}

func TestIPv4BadChecksumNeverReachesUpperLayer(t *testing.T) {
	resetAll(t)

	d := &device.Device{Name: "eth0", MTU: 1500}
	require.NoError(t, device.Register(d))
	_, err := ipv4.AddInterface(d, "10.0.0.2", "255.255.255.0")
	require.NoError(t, err)
	require.NoError(t, stack.Init())
	require.NoError(t, stack.Run())
	defer stack.Shutdown()

	called := make(chan struct{}, 1)
	ipv4.SetUpperLayerHandler(func([]byte, types.IPv4Address, types.IPv4Address, *device.Device) {
		called <- struct{}{}
	})

	src, _ := types.ParseIPv4Address("10.0.0.1")
	dst, _ := types.ParseIPv4Address("10.0.0.2")
	frame := buildIPv4Header(t, 64, src, dst, true)
	protocol.Input(types.ProtocolIPv4, frame, d)

	select {
	case <-called:
		t.Fatal("upper-layer handler was invoked for a corrupt datagram")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDoubleInitRegistersOneProtocolEntry(t *testing.T) {
	resetAll(t)

	require.NoError(t, stack.Init())
	require.NoError(t, stack.Init())
	assert.Len(t, protocol.Entries(), 1)
}
