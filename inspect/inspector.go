// Package inspect turns a buffered OGG Opus file into a metadata report.
// It is the consumer side of the ogg package: the caller reads the file into
// memory, the Inspector does the rest.
package inspect

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/JulianKropp/live-translation/ogg"
)

// Report summarizes the metadata of one OGG Opus buffer.
type Report struct {
	PageCount    int
	SerialNumber uint32

	// ID is the decoded identification header, nil when the stream has none.
	ID *ogg.OpusIdentificationHeader

	// InputSampleRateHz is the rate the audio was captured at, 0 when unknown.
	// Playback always runs at 48kHz regardless.
	InputSampleRateHz uint32

	// CommentPages is the number of pages the comment header packet spans,
	// 0 when the packet is missing or incomplete.
	CommentPages int
	VendorString string
	UserComments []string

	// DurationSeconds is the playback time covered by the granule positions
	// of the pages, in logical order.
	DurationSeconds float64
}

// Inspector extracts and decodes OGG Opus metadata from in-memory buffers.
type Inspector struct {
	logger    *zap.Logger
	extractor *ogg.Extractor
}

func NewInspector(logger *zap.Logger) *Inspector {
	return &Inspector{
		logger:    logger,
		extractor: ogg.NewExtractor(logger),
	}
}

// Inspect builds a Report for data. A buffer that is not a single-bitstream
// OGG Opus stream is an error; merely missing headers leave their report
// fields zeroed.
func (i *Inspector) Inspect(data []byte) (*Report, error) {
	headers, err := i.extractor.ExtractHeaders(data)
	if err != nil {
		return nil, fmt.Errorf("could not extract opus headers: %w", err)
	}

	pages := ogg.SplitPages(data)

	report := &Report{PageCount: len(pages)}
	if len(pages) > 0 {
		report.SerialNumber = pages[0].SerialNumber
	}

	tracker := ogg.NewDurationTracker(ogg.SamplingRateHz)
	for _, page := range pages {
		report.DurationSeconds += tracker.Next(page.GranulePosition)
	}

	if headers.ID != nil {
		report.ID, err = ogg.ParseIdentificationHeader(headers.ID)
		if err != nil {
			return nil, fmt.Errorf("could not decode identification header: %w", err)
		}
		report.InputSampleRateHz, err = ogg.SampleRate(headers.ID)
		if err != nil {
			return nil, fmt.Errorf("could not read input sample rate: %w", err)
		}
	} else {
		i.logger.Warn("stream has no identification header page")
	}

	if headers.Comment != nil {
		commentHeader, err := ogg.ParseCommentHeader(headers.Comment)
		if err != nil {
			return nil, fmt.Errorf("could not decode comment header: %w", err)
		}
		report.CommentPages = len(headers.Comment)
		report.VendorString = commentHeader.VendorString
		report.UserComments = commentHeader.UserComments
	} else {
		i.logger.Warn("stream has no complete comment header packet")
	}

	return report, nil
}
