// Package ogg demultiplexes OGG container buffers and locates the Opus
// metadata headers inside them, as laid out by RFC 3533 and RFC 7845.
//
// The package operates on complete in-memory buffers. Pages are parsed once,
// never mutated afterwards, and share no state between calls, so independent
// buffers can be processed in parallel without coordination.
package ogg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
)

const (
	maxSegmentLength = 255 // bytes
	continuedFlag    = 1 << 0
	firstPageFlag    = 1 << 1
	lastPageFlag     = 1 << 2

	pageHeaderSize = 27
)

// capturePattern marks the start of every OGG page.
var capturePattern = []byte{'O', 'g', 'g', 'S'}

// Page is one OGG container page. It is constructed once from a byte buffer
// and immutable afterwards; its slices alias the buffer it was parsed from.
type Page struct {
	Version         uint8
	HeaderType      uint8
	GranulePosition uint64
	SerialNumber    uint32
	SequenceNumber  uint32
	Checksum        uint32 // stored as read, never verified
	SegmentTable    []byte
	Payload         []byte // reassembled packet bytes, len = sum of lacing values
	Raw             []byte // the complete page: header + segment table + payload
}

// Continued reports whether the page's first packet fragment continues a
// packet begun on a previous page.
func (p *Page) Continued() bool { return p.HeaderType&continuedFlag != 0 }

// FirstPage reports whether the page begins a logical bitstream.
func (p *Page) FirstPage() bool { return p.HeaderType&firstPageFlag != 0 }

// LastPage reports whether the page ends a logical bitstream.
func (p *Page) LastPage() bool { return p.HeaderType&lastPageFlag != 0 }

// Size returns the number of bytes the page occupies in its buffer.
func (p *Page) Size() int { return len(p.Raw) }

// ParsePageAt parses the page starting at offset.
//
// It returns ErrInvalidPage when fewer than 27 bytes remain or the capture
// pattern is missing, and ErrTruncatedPage when the page declares more bytes
// than the buffer holds. It never reads past the end of the declared page.
func ParsePageAt(data []byte, offset int) (*Page, error) {
	/*
		 0                   1                   2                   3
		 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1| Byte
		+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
		| capture_pattern: Magic number for page start "OggS"           | 0-3
		+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
		| version       | header_type   | granule_position              | 4-7
		+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
		|                                                               | 8-11
		+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
		|                               | bitstream_serial_number       | 12-15
		+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
		|                               | page_sequence_number          | 16-19
		+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
		|                               | CRC_checksum                  | 20-23
		+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
		|                               |page_segments  | segment_table | 24-27
		+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
		| ...                                                           | 28-
		+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	*/

	if offset < 0 || len(data)-offset < pageHeaderSize {
		return nil, fmt.Errorf("%w: need %d header bytes at offset %d", ErrInvalidPage, pageHeaderSize, offset)
	}
	header := data[offset : offset+pageHeaderSize]
	if !bytes.Equal(header[0:4], capturePattern) {
		return nil, fmt.Errorf("%w: capture pattern missing at offset %d", ErrInvalidPage, offset)
	}

	segmentCount := int(header[26])
	if len(data)-offset < pageHeaderSize+segmentCount {
		return nil, fmt.Errorf("%w: segment table overruns buffer at offset %d", ErrTruncatedPage, offset)
	}
	segmentTable := data[offset+pageHeaderSize : offset+pageHeaderSize+segmentCount]

	pageSize := pageHeaderSize + segmentCount
	for _, lacing := range segmentTable {
		pageSize += int(lacing)
	}
	if len(data)-offset < pageSize {
		return nil, fmt.Errorf("%w: page declares %d bytes, %d available", ErrTruncatedPage, pageSize, len(data)-offset)
	}

	raw := data[offset : offset+pageSize]
	return &Page{
		Version:         header[4],
		HeaderType:      header[5],
		GranulePosition: binary.LittleEndian.Uint64(header[6:14]),
		SerialNumber:    binary.LittleEndian.Uint32(header[14:18]),
		SequenceNumber:  binary.LittleEndian.Uint32(header[18:22]),
		Checksum:        binary.LittleEndian.Uint32(header[22:26]),
		SegmentTable:    segmentTable,
		Payload:         raw[pageHeaderSize+segmentCount:],
		Raw:             raw,
	}, nil
}

// SplitPages scans data from offset 0 and collects consecutive pages. The
// scan stops at the first offset that does not hold a complete page and
// returns whatever was collected so far; an empty or garbage buffer yields an
// empty list, never an error.
//
// The pages are returned sorted by sequence number ascending (stable for
// repeated sequence numbers), restoring logical order for a single bitstream
// whose pages were captured out of order.
func SplitPages(data []byte) []*Page {
	var pages []*Page

	offset := 0
	for offset < len(data) {
		page, err := ParsePageAt(data, offset)
		if err != nil {
			break
		}
		pages = append(pages, page)
		offset += page.Size()
	}

	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].SequenceNumber < pages[j].SequenceNumber
	})
	return pages
}
