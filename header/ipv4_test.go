package header_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelnet/netstack/checksum"
	"github.com/kestrelnet/netstack/header"
	"github.com/kestrelnet/netstack/types"
)

// buildHeader returns a minimal 20-byte IPv4 header with a correct
// checksum for the given fields.
func buildHeader(t *testing.T, ttl uint8, flags uint8, fragOffset uint16, src, dst types.IPv4Address) header.IPv4 {
	t.Helper()

	b := make(header.IPv4, header.IPv4MinimumSize)
	b[0] = (header.IPv4Version << 4) | 5 // IHL = 5 words = 20 bytes
	b[1] = 0
	binary.BigEndian.PutUint16(b[2:], header.IPv4MinimumSize)
	binary.BigEndian.PutUint16(b[4:], 0x1234)
	binary.BigEndian.PutUint16(b[6:], (uint16(flags)<<13)|fragOffset)
	b[8] = ttl
	b[9] = 17 // UDP, arbitrary
	copy(b[12:16], src[:])
	copy(b[16:20], dst[:])

	binary.BigEndian.PutUint16(b[10:12], 0)
	sum := checksum.Checksum(b, 0)
	binary.BigEndian.PutUint16(b[10:12], sum)

	return b
}

func TestHeaderFieldAccessors(t *testing.T) {
	src, _ := types.ParseIPv4Address("10.0.0.1")
	dst, _ := types.ParseIPv4Address("10.0.0.2")
	b := buildHeader(t, 64, 0, 0, src, dst)

	assert.Equal(t, uint8(header.IPv4Version), b.Version())
	assert.Equal(t, uint8(20), b.HeaderLength())
	assert.Equal(t, uint16(20), b.TotalLength())
	assert.Equal(t, uint8(64), b.TTL())
	assert.Equal(t, src, b.SourceAddress())
	assert.Equal(t, dst, b.DestinationAddress())
	assert.Equal(t, uint16(0), b.CalculateChecksum())
}

func TestHeaderChecksumDetectsCorruption(t *testing.T) {
	src, _ := types.ParseIPv4Address("10.0.0.1")
	dst, _ := types.ParseIPv4Address("10.0.0.2")
	b := buildHeader(t, 64, 0, 0, src, dst)

	b[11] ^= 0x01
	assert.NotEqual(t, uint16(0), b.CalculateChecksum())
}

func TestIsFragmented(t *testing.T) {
	src, _ := types.ParseIPv4Address("10.0.0.1")
	dst, _ := types.ParseIPv4Address("10.0.0.2")

	unfragmented := buildHeader(t, 64, 0b010, 0, src, dst) // DF only
	assert.False(t, unfragmented.IsFragmented())

	moreFragments := buildHeader(t, 64, 0b001, 0, src, dst) // MF
	assert.True(t, moreFragments.IsFragmented())

	withOffset := buildHeader(t, 64, 0, 8, src, dst)
	assert.True(t, withOffset.IsFragmented())
}
