package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelnet/netstack/buffer"
	"github.com/kestrelnet/netstack/device"
	"github.com/kestrelnet/netstack/protocol"
	"github.com/kestrelnet/netstack/types"
)

func TestDuplicateRegisterFails(t *testing.T) {
	protocol.Reset()
	defer protocol.Reset()

	assert.NoError(t, protocol.Register(types.ProtocolIPv4, func(buffer.View, *device.Device) {}))
	assert.ErrorIs(t, protocol.Register(types.ProtocolIPv4, func(buffer.View, *device.Device) {}), types.ErrAlreadyRegistered)
	assert.Len(t, protocol.Entries(), 1)
}

func TestInputUnknownProtocolDropsSilently(t *testing.T) {
	protocol.Reset()
	defer protocol.Reset()

	dev := &device.Device{Name: "d0"}
	assert.NotPanics(t, func() {
		protocol.Input(types.ProtocolARP, []byte{1, 2, 3}, dev)
	})
}

func TestInputFIFOOrdering(t *testing.T) {
	protocol.Reset()
	defer protocol.Reset()

	var got []byte
	assert.NoError(t, protocol.Register(types.ProtocolIPv4, func(data buffer.View, dev *device.Device) {
		got = append(got, data...)
	}))

	dev := &device.Device{Name: "d0"}
	protocol.Input(types.ProtocolIPv4, []byte{1}, dev)
	protocol.Input(types.ProtocolIPv4, []byte{2}, dev)
	protocol.Input(types.ProtocolIPv4, []byte{3}, dev)

	assert.True(t, protocol.DequeueAndHandle(types.ProtocolIPv4))
	assert.True(t, protocol.DequeueAndHandle(types.ProtocolIPv4))
	assert.True(t, protocol.DequeueAndHandle(types.ProtocolIPv4))
	assert.False(t, protocol.DequeueAndHandle(types.ProtocolIPv4))

	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestInputCopiesBuffer(t *testing.T) {
	protocol.Reset()
	defer protocol.Reset()

	var captured buffer.View
	assert.NoError(t, protocol.Register(types.ProtocolIPv4, func(data buffer.View, dev *device.Device) {
		captured = data
	}))

	src := []byte{9, 9, 9}
	dev := &device.Device{Name: "d0"}
	protocol.Input(types.ProtocolIPv4, src, dev)
	protocol.DequeueAndHandle(types.ProtocolIPv4)

	src[0] = 0
	assert.Equal(t, byte(9), captured[0])
}
