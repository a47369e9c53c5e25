package ogg

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// idHeaderMagic marks the payload of the identification header page.
var idHeaderMagic = []byte{'O', 'p', 'u', 's', 'H', 'e', 'a', 'd'}

const (
	// idHeaderMinLength covers magic through mapping family; the optional
	// channel mapping table may follow.
	idHeaderMinLength = 19

	sampleRateOffset = 12
)

// OpusIdentificationHeader is the decoded "OpusHead" packet.
type OpusIdentificationHeader struct {
	Version         uint8
	ChannelCount    uint8
	PreSkip         uint16
	InputSampleRate uint32
	OutputGain      uint16
	MappingFamily   byte
}

// ParseIdentificationHeader decodes the identification header carried by page.
// It returns ErrMalformedHeader when the payload does not start with the
// "OpusHead" magic or is too short to hold the fixed fields.
func ParseIdentificationHeader(page *Page) (*OpusIdentificationHeader, error) {
	/*
	    0                   1                   2                   3
	    0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |      'O'      |      'p'      |      'u'      |      's'      |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |      'H'      |      'e'      |      'a'      |      'd'      |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |  Version = 1  | Channel Count |           Pre-skip            |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |                     Input Sample Rate (Hz)                    |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |   Output Gain (Q7.8 in dB)    | Mapping Family|               |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+               :
	   |                                                               |
	   :               Optional Channel Mapping Table...               :
	   |                                                               |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	*/

	payload := page.Payload
	if !bytes.HasPrefix(payload, idHeaderMagic) {
		return nil, fmt.Errorf("%w: OpusHead magic missing", ErrMalformedHeader)
	}
	if len(payload) < idHeaderMinLength {
		return nil, fmt.Errorf("%w: identification header is %d bytes, need %d", ErrMalformedHeader, len(payload), idHeaderMinLength)
	}

	return &OpusIdentificationHeader{
		Version:         payload[8],
		ChannelCount:    payload[9],
		PreSkip:         binary.LittleEndian.Uint16(payload[10:12]),
		InputSampleRate: binary.LittleEndian.Uint32(payload[12:16]),
		OutputGain:      binary.LittleEndian.Uint16(payload[16:18]),
		MappingFamily:   payload[18],
	}, nil
}

// SampleRate reads the input sample rate field of an identification header
// page without decoding the rest of the header. The rate is informational
// only: an Opus decoder always runs at 48kHz no matter what rate the input
// was captured at.
func SampleRate(page *Page) (uint32, error) {
	payload := page.Payload
	if !bytes.HasPrefix(payload, idHeaderMagic) {
		return 0, fmt.Errorf("%w: OpusHead magic missing", ErrMalformedHeader)
	}
	if len(payload) < sampleRateOffset+4 {
		return 0, fmt.Errorf("%w: identification header too short for sample rate", ErrMalformedHeader)
	}
	return binary.LittleEndian.Uint32(payload[sampleRateOffset : sampleRateOffset+4]), nil
}
