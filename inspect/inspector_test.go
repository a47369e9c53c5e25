package inspect

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JulianKropp/live-translation/ogg"
)

// buildPage encodes a single-segment page around packet. The parser never
// verifies checksums, so the CRC field stays zero here.
func buildPage(headerType uint8, serial, sequence uint32, granule uint64, packet []byte) []byte {
	data := make([]byte, 27+1+len(packet))
	copy(data[0:4], "OggS")
	data[5] = headerType
	binary.LittleEndian.PutUint64(data[6:14], granule)
	binary.LittleEndian.PutUint32(data[14:18], serial)
	binary.LittleEndian.PutUint32(data[18:22], sequence)
	data[26] = 1
	data[27] = byte(len(packet))
	copy(data[28:], packet)
	return data
}

func opusHeadPacket(channels uint8, sampleRate uint32) []byte {
	packet := make([]byte, 19)
	copy(packet, "OpusHead")
	packet[8] = 1
	packet[9] = channels
	binary.LittleEndian.PutUint16(packet[10:12], 3840)
	binary.LittleEndian.PutUint32(packet[12:16], sampleRate)
	return packet
}

func opusTagsPacket(vendor string) []byte {
	packet := append([]byte{}, "OpusTags"...)
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(vendor)))
	packet = append(packet, length[:]...)
	packet = append(packet, vendor...)
	return append(packet, 0, 0, 0, 0) // no user comments
}

func TestInspect(t *testing.T) {
	inspector := NewInspector(zap.NewNop())

	t.Run("full report", func(t *testing.T) {
		var data []byte
		data = append(data, buildPage(0x02, 7, 0, 0, opusHeadPacket(2, 16000))...)
		data = append(data, buildPage(0, 7, 1, 0, opusTagsPacket("test-vendor"))...)
		data = append(data, buildPage(0, 7, 2, 960, []byte{0xF8, 0xFF, 0xFE})...)
		data = append(data, buildPage(0x04, 7, 3, 1920, []byte{0xF8, 0xFF, 0xFE})...)

		report, err := inspector.Inspect(data)
		require.NoError(t, err)

		assert.Equal(t, 4, report.PageCount)
		assert.Equal(t, uint32(7), report.SerialNumber)
		require.NotNil(t, report.ID)
		assert.Equal(t, uint8(2), report.ID.ChannelCount)
		assert.Equal(t, uint32(16000), report.InputSampleRateHz)
		assert.Equal(t, 2, report.CommentPages)
		assert.Equal(t, "test-vendor", report.VendorString)
		assert.Empty(t, report.UserComments)
		assert.InDelta(t, 0.04, report.DurationSeconds, 1e-9)
	})

	t.Run("missing comment header leaves fields zeroed", func(t *testing.T) {
		data := buildPage(0x02, 7, 0, 0, opusHeadPacket(1, 48000))

		report, err := inspector.Inspect(data)
		require.NoError(t, err)

		require.NotNil(t, report.ID)
		assert.Zero(t, report.CommentPages)
		assert.Empty(t, report.VendorString)
	})

	t.Run("not an ogg buffer", func(t *testing.T) {
		_, err := inspector.Inspect([]byte("plain text"))
		require.ErrorIs(t, err, ogg.ErrNotOgg)
	})
}
