package ogg

import "encoding/binary"

// Test fixtures are built the way an encoder writes them: packets are laced
// into segments of at most 255 bytes and the page checksum is computed with
// the OGG polynomial, so round-trip assertions run against realistic bytes.

// From: https://github.com/pion/webrtc/blob/67826b19141ec9e6f1002a2267008a016a118934/pkg/media/oggwriter/oggwriter.go#L245-L261
func crcChecksum() *[256]uint32 {
	var table [256]uint32
	const poly = 0x04c11db7

	for i := range table {
		r := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if (r & 0x80000000) != 0 {
				r = (r << 1) ^ poly
			} else {
				r <<= 1
			}
			table[i] = r & 0xffffffff
		}
	}
	return &table
}

var crcTable = crcChecksum()

type pageSpec struct {
	headerType      uint8
	granulePosition uint64
	serialNumber    uint32
	sequenceNumber  uint32
	packet          []byte
}

// buildPage encodes one complete page holding spec.packet.
func buildPage(spec pageSpec) []byte {
	segments := lacePacket(spec.packet)

	data := make([]byte, pageHeaderSize+len(segments)+len(spec.packet))
	copy(data[0:4], capturePattern)
	data[4] = 0 // version
	data[5] = spec.headerType
	binary.LittleEndian.PutUint64(data[6:14], spec.granulePosition)
	binary.LittleEndian.PutUint32(data[14:18], spec.serialNumber)
	binary.LittleEndian.PutUint32(data[18:22], spec.sequenceNumber)
	data[26] = byte(len(segments))
	copy(data[pageHeaderSize:], segments)
	copy(data[pageHeaderSize+len(segments):], spec.packet)

	// CRC is computed over the page with the checksum field still zero.
	var checksum uint32
	for _, b := range data {
		checksum = (checksum << 8) ^ crcTable[byte(checksum>>24)^b]
	}
	binary.LittleEndian.PutUint32(data[22:26], checksum)

	return data
}

// lacePacket builds the segment table for a packet: full 255-byte segments
// followed by a terminator segment, which is 0 when the packet length is an
// exact multiple of 255.
func lacePacket(packet []byte) []byte {
	var segments []byte

	remaining := len(packet)
	for remaining >= maxSegmentLength {
		segments = append(segments, maxSegmentLength)
		remaining -= maxSegmentLength
	}
	return append(segments, byte(remaining))
}

// buildStream concatenates pages into one buffer.
func buildStream(specs ...pageSpec) []byte {
	var data []byte
	for _, spec := range specs {
		data = append(data, buildPage(spec)...)
	}
	return data
}

// opusHeadPacket builds a minimal identification header payload.
func opusHeadPacket(channels uint8, sampleRate uint32) []byte {
	packet := make([]byte, idHeaderMinLength)
	copy(packet, idHeaderMagic)
	packet[8] = 1 // version
	packet[9] = channels
	binary.LittleEndian.PutUint16(packet[10:12], 3840) // pre-skip
	binary.LittleEndian.PutUint32(packet[12:16], sampleRate)
	binary.LittleEndian.PutUint16(packet[16:18], 0) // output gain
	packet[18] = 0                                  // mapping family
	return packet
}

// opusTagsPacket builds a comment header payload.
func opusTagsPacket(vendor string, comments ...string) []byte {
	packet := append([]byte{}, commentHeaderMagic...)
	packet = appendLengthPrefixed(packet, vendor)

	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(comments)))
	packet = append(packet, count[:]...)

	for _, comment := range comments {
		packet = appendLengthPrefixed(packet, comment)
	}
	return packet
}

func appendLengthPrefixed(packet []byte, field string) []byte {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(field)))
	packet = append(packet, length[:]...)
	return append(packet, field...)
}
