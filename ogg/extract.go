package ogg

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
)

// Headers holds the two mandatory Opus metadata structures of a logical
// bitstream. Either field may be nil when the stream lacks a complete
// header; callers must check before use.
type Headers struct {
	// ID is the identification header page, whose payload starts with "OpusHead".
	ID *Page

	// Comment is the comment header packet in page order. The packet spans
	// several pages when it is larger than one page's capacity.
	Comment []*Page
}

// Extractor locates the Opus metadata headers inside a fully buffered OGG
// stream. It is stateless apart from its logger and safe for concurrent use.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractHeaders splits data into pages and extracts the identification and
// comment headers from them.
//
// It fails with ErrNotOgg when data does not start with the capture pattern,
// with ErrMultipleBitstreams when the pages carry more than one serial
// number, and with ErrNotOpus when no page carries the "OpusHead" marker.
// A header that is merely absent or incomplete is not an error; the
// corresponding Headers field is nil.
func (e *Extractor) ExtractHeaders(data []byte) (Headers, error) {
	if !IsOggFormat(data) {
		return Headers{}, fmt.Errorf("checking capture pattern: %w", ErrNotOgg)
	}

	pages := SplitPages(data)
	e.logger.Debug("split ogg buffer into pages", zap.Int("pages", len(pages)))

	if err := checkSingleBitstream(pages); err != nil {
		return Headers{}, err
	}

	if !IsOpusStream(pages) {
		return Headers{}, fmt.Errorf("checking for OpusHead marker: %w", ErrNotOpus)
	}

	var headers Headers
	if page, ok := FindIdentificationHeader(pages); ok {
		headers.ID = page
	} else {
		e.logger.Debug("stream has no identification header page")
	}
	if packet, ok := CollectCommentHeader(pages); ok {
		headers.Comment = packet
	} else {
		e.logger.Debug("stream has no complete comment header packet")
	}

	return headers, nil
}

// IsOggFormat reports whether data starts with the OGG capture pattern.
func IsOggFormat(data []byte) bool {
	return bytes.HasPrefix(data, capturePattern)
}

// IsOpusStream reports whether any page payload starts with the "OpusHead"
// identification marker.
func IsOpusStream(pages []*Page) bool {
	_, ok := FindIdentificationHeader(pages)
	return ok
}

// FindIdentificationHeader returns the first page, in the order given, whose
// payload starts with "OpusHead".
func FindIdentificationHeader(pages []*Page) (*Page, bool) {
	for _, page := range pages {
		if bytes.HasPrefix(page.Payload, idHeaderMagic) {
			return page, true
		}
	}
	return nil, false
}

// collectorState is the state of the comment header scan.
type collectorState int

const (
	searching collectorState = iota
	collecting
)

// CollectCommentHeader gathers the pages that make up the comment header
// packet from a sequence-ordered page list.
//
// The packet is assumed to start on the page with sequence number 1, the page
// after the identification header. From there every page is accumulated until
// one arrives whose continuation flag is clear, which terminates the packet
// and is included in it. Running out of pages before the packet terminates
// returns false and discards the partial accumulation.
func CollectCommentHeader(pages []*Page) ([]*Page, bool) {
	var packet []*Page

	state := searching
	for _, page := range pages {
		switch state {
		case searching:
			if page.SequenceNumber == 1 {
				packet = append(packet, page)
				state = collecting
			}
		case collecting:
			packet = append(packet, page)
			if !page.Continued() {
				return packet, true
			}
		}
	}
	return nil, false
}

// checkSingleBitstream rejects multiplexed buffers. The sequence-number sort
// in SplitPages is only meaningful when every page belongs to the same
// logical bitstream.
func checkSingleBitstream(pages []*Page) error {
	if len(pages) == 0 {
		return nil
	}
	serial := pages[0].SerialNumber
	for _, page := range pages[1:] {
		if page.SerialNumber != serial {
			return fmt.Errorf("%w: serial numbers %d and %d", ErrMultipleBitstreams, serial, page.SerialNumber)
		}
	}
	return nil
}
