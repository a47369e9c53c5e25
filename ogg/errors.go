package ogg

import "errors"

// Errors returned while demultiplexing an OGG buffer. Structural problems
// (not OGG, not Opus, more than one bitstream) are errors; a missing
// identification or comment header is not, and is reported as an absent
// result instead.
var (
	// ErrNotOgg indicates the buffer does not start with the "OggS" capture pattern.
	ErrNotOgg = errors.New("ogg: data is not an ogg stream")

	// ErrNotOpus indicates a valid OGG buffer where no page carries the "OpusHead" marker.
	ErrNotOpus = errors.New("ogg: stream does not carry an opus stream")

	// ErrInvalidPage indicates no page starts at the given offset.
	ErrInvalidPage = errors.New("ogg: not a valid ogg page at this offset")

	// ErrTruncatedPage indicates a page declares more bytes than the buffer holds.
	ErrTruncatedPage = errors.New("ogg: page is truncated")

	// ErrMalformedHeader indicates an "OpusHead" or "OpusTags" payload is malformed.
	ErrMalformedHeader = errors.New("ogg: malformed opus header")

	// ErrMultipleBitstreams indicates the pages carry more than one serial number.
	ErrMultipleBitstreams = errors.New("ogg: more than one logical bitstream")
)
