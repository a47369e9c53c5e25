package ogg

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// commentHeaderMagic marks the payload of the comment header packet.
var commentHeaderMagic = []byte{'O', 'p', 'u', 's', 'T', 'a', 'g', 's'}

// OpusCommentHeader is the decoded "OpusTags" packet: the encoder vendor
// string plus free-form "FIELD=value" user comments.
type OpusCommentHeader struct {
	VendorString string
	UserComments []string
}

// ParseCommentHeader decodes the comment header from the pages collected by
// CollectCommentHeader. The page payloads are concatenated first, since the
// packet may be laced across several pages. Bytes past the last user comment
// are ignored.
func ParseCommentHeader(pages []*Page) (*OpusCommentHeader, error) {
	/*
	    0                   1                   2                   3
	    0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |      'O'      |      'p'      |      'u'      |      's'      |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |      'T'      |      'a'      |      'g'      |      's'      |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |                     Vendor String Length                      |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |                                                               |
	   :                        Vendor String...                       :
	   |                                                               |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |                   User Comment List Length                    |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |                 User Comment #0 String Length                 |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |                                                               |
	   :                   User Comment #0 String...                   :
	   |                                                               |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   |                 User Comment #1 String Length                 |
	   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	   :                                                               :
	*/

	var packet []byte
	for _, page := range pages {
		packet = append(packet, page.Payload...)
	}

	if !bytes.HasPrefix(packet, commentHeaderMagic) {
		return nil, fmt.Errorf("%w: OpusTags magic missing", ErrMalformedHeader)
	}

	offset := len(commentHeaderMagic)
	vendor, offset, err := readLengthPrefixed(packet, offset)
	if err != nil {
		return nil, fmt.Errorf("could not read vendor string: %w", err)
	}

	if len(packet)-offset < 4 {
		return nil, fmt.Errorf("%w: user comment count missing", ErrMalformedHeader)
	}
	commentCount := binary.LittleEndian.Uint32(packet[offset : offset+4])
	offset += 4

	header := &OpusCommentHeader{VendorString: string(vendor)}
	for i := uint32(0); i < commentCount; i++ {
		var comment []byte
		comment, offset, err = readLengthPrefixed(packet, offset)
		if err != nil {
			return nil, fmt.Errorf("could not read user comment %d: %w", i, err)
		}
		header.UserComments = append(header.UserComments, string(comment))
	}

	return header, nil
}

// readLengthPrefixed reads a 32-bit little-endian length followed by that
// many bytes, returning the field and the offset past it.
func readLengthPrefixed(packet []byte, offset int) ([]byte, int, error) {
	if len(packet)-offset < 4 {
		return nil, 0, fmt.Errorf("%w: length prefix overruns packet", ErrMalformedHeader)
	}
	length := int(binary.LittleEndian.Uint32(packet[offset : offset+4]))
	offset += 4

	if length < 0 || len(packet)-offset < length {
		return nil, 0, fmt.Errorf("%w: %d byte field overruns packet", ErrMalformedHeader, length)
	}
	return packet[offset : offset+length], offset + length, nil
}
