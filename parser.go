// Package swfstream implements an incremental parser for a legacy
// vector-animation container format: a fixed uncompressed preamble,
// one of three transparent body encodings, and a sequence of typed
// tag records terminated by an END sentinel.
//
// # Overview
//
// Parser.Feed accepts the stream in arbitrarily sized chunks (even
// one byte at a time) and decodes as much as the chunks received so
// far allow, rolling back to the start of the current tag whenever a
// frame is only partially available. A Container accumulates the
// decoded header fields and tag list as parsing proceeds; Callbacks
// lets a caller observe each piece as it becomes available instead of
// waiting for the whole stream.
//
// # Dependencies
//
// lib/bitbuffer for the elastic, bit-addressable read buffer;
// lib/decompress (klauspost/compress/zlib, ulikunitz/xz/lzma) for the
// three body encodings; lib/container for the parsed result type.
//
// # Thread safety
//
// A Parser is not safe for concurrent use. Feed must be called from a
// single goroutine at a time; it may safely alternate with a separate
// goroutine reading Container() between calls, once no Feed call is
// in flight.
package swfstream

import (
	"github.com/thebagchi/swfstream/lib/bitbuffer"
	"github.com/thebagchi/swfstream/lib/container"
	"github.com/thebagchi/swfstream/lib/decompress"
	"github.com/thebagchi/swfstream/lib/swferr"
)

const (
	preambleSize        = 8
	lzmaPropsFieldSize  = 5
	lzmaHeaderFieldSize = 4 // compressed-data length field, read and discarded
	lzmaHeaderSize      = lzmaPropsFieldSize + lzmaHeaderFieldSize
)

// Parser decodes one container stream incrementally.
type Parser struct {
	state     state
	swf       *container.Container
	callbacks Callbacks

	// pre accumulates the fixed-size preamble and, for LZMA bodies,
	// the LZMA header block; it is discarded once each is complete.
	pre *bitbuffer.Buffer
	// buf holds decompressed body bytes not yet consumed by the
	// header or tag parser.
	buf     *bitbuffer.Buffer
	decoder decompress.Decoder

	lastErr *swferr.Error
}

// New creates a Parser ready to receive the start of a stream.
func New() *Parser {
	return &Parser{state: stateStarted, swf: &container.Container{}}
}

// SetCallbacks installs cb, replacing any previously set callbacks.
func (p *Parser) SetCallbacks(cb Callbacks) {
	p.callbacks = cb
}

// Container returns the container being built. It is safe to read
// between Feed calls; tags already appended (or payload bytes already
// handed to a Callbacks.OnTag) will never be retracted, even if a
// later Feed call reports an error.
func (p *Parser) Container() *container.Container {
	return p.swf
}

// LastError returns the error from the most recent Feed call that did
// not return nil, or nil if none has occurred.
func (p *Parser) LastError() *swferr.Error {
	return p.lastErr
}

// AddTag appends tag to the container's tag list. Callbacks.OnTag
// calls this explicitly to opt back in to the default accumulation
// that a nil OnTag gets automatically.
func (p *Parser) AddTag(tag container.Tag) {
	p.swf.Tags.Add(tag)
}

// Close releases the decompression worker, if one was started. Safe
// to call even if parsing never got that far, and more than once.
func (p *Parser) Close() error {
	if p.decoder != nil {
		return p.decoder.Close()
	}
	return nil
}

// Feed supplies the next chunk of the stream. It returns nil once the
// chunk has been fully absorbed and the parser is waiting for more
// input (the common case, analogous to an OK/NEED_MORE_DATA result);
// it returns a non-nil *swferr.Error carrying swferr.Finished once the
// END tag has been reached, and a negative-coded *swferr.Error on any
// other failure, after which the Parser must not be fed again.
func (p *Parser) Feed(data []byte) *swferr.Error {
	if p.state == stateFinished {
		return swferr.New(swferr.Finished, "feed: parser already finished")
	}

	if p.state == stateStarted {
		consumed, err := p.feedPreamble(data)
		data = data[consumed:]
		if err != nil {
			if err.Code == swferr.NeedMoreData {
				return nil
			}
			p.lastErr = err
			return err
		}
	}

	if p.state == stateLZMAHeader {
		consumed, err := p.feedLZMAHeader(data)
		data = data[consumed:]
		if err != nil {
			if err.Code == swferr.NeedMoreData {
				return nil
			}
			p.lastErr = err
			return err
		}
	}

	return p.feedBody(data)
}

// feedPreamble accumulates the 8-byte fixed header (compression byte,
// 'W', 'S', version, 4-byte declared size), parses it once complete,
// and selects the body's decoder (or, for LZMA, defers that to
// feedLZMAHeader). Returns the number of bytes of data it consumed.
func (p *Parser) feedPreamble(data []byte) (int, *swferr.Error) {
	if p.pre == nil {
		p.pre = bitbuffer.New(preambleSize)
	}
	n := preambleSize - p.pre.Len()
	if n > len(data) {
		n = len(data)
	}
	if n > 0 {
		if err := p.pre.Append(data[:n]); err != nil {
			return n, err
		}
	}
	if p.pre.Len() < preambleSize {
		return n, swferr.New(swferr.NeedMoreData, "feedPreamble: incomplete preamble")
	}

	compByte, _ := p.pre.Get8()
	compression := container.Compression(compByte)
	if compression != container.CompressionIdentity &&
		compression != container.CompressionDeflate &&
		compression != container.CompressionLZMA {
		return n, swferr.Errorf(swferr.Invalid, "feedPreamble: unrecognized compression byte %q", compByte)
	}
	w, _ := p.pre.Get8()
	s, _ := p.pre.Get8()
	if w != 'W' || s != 'S' {
		return n, swferr.New(swferr.Invalid, "feedPreamble: missing WS signature")
	}
	version, _ := p.pre.Get8()
	size, _ := p.pre.Get32()
	p.swf.Compression = compression
	p.swf.Version = version
	p.swf.DeclaredSize = size
	p.pre = nil
	p.buf = bitbuffer.New(0)

	if p.callbacks.OnHeader != nil {
		p.callbacks.OnHeader(p)
	}

	if compression == container.CompressionLZMA {
		p.state = stateLZMAHeader
		return n, nil
	}
	decoder, derr := decompress.New(compression, nil)
	if derr != nil {
		return n, derr
	}
	p.decoder = decoder
	p.state = stateHeader
	return n, nil
}

// feedLZMAHeader accumulates the LZMA-specific header block (5-byte
// properties, 4-byte compressed length) that follows the common
// preamble only when the body is LZMA-compressed.
func (p *Parser) feedLZMAHeader(data []byte) (int, *swferr.Error) {
	if p.pre == nil {
		p.pre = bitbuffer.New(lzmaHeaderSize)
	}
	n := lzmaHeaderSize - p.pre.Len()
	if n > len(data) {
		n = len(data)
	}
	if n > 0 {
		if err := p.pre.Append(data[:n]); err != nil {
			return n, err
		}
	}
	if p.pre.Len() < lzmaHeaderSize {
		return n, swferr.New(swferr.NeedMoreData, "feedLZMAHeader: incomplete LZMA header")
	}

	props := p.pre.ReadBytes(lzmaPropsFieldSize)
	_, _ = p.pre.Get32() // compressed-data length field, unused by the incremental decoder
	p.pre = nil

	decoder, derr := decompress.New(container.CompressionLZMA, props)
	if derr != nil {
		return n, derr
	}
	p.decoder = decoder
	p.state = stateHeader
	return n, nil
}

// feedBody pushes the remainder of this chunk through the
// decompressor and drains as many header fields and tags as the
// resulting decompressed bytes make available.
func (p *Parser) feedBody(data []byte) *swferr.Error {
	if p.decoder == nil {
		return nil
	}
	status, derr := p.decoder.Feed(data, p.buf)
	if derr != nil {
		p.lastErr = derr
		return derr
	}
	if err := p.drain(); err != nil {
		if err.Code == swferr.NeedMoreData {
			return nil
		}
		p.lastErr = err
		return err
	}
	if status == decompress.Finished && p.state != stateFinished {
		err := swferr.New(swferr.Invalid, "feedBody: compressed stream ended before an END tag")
		p.lastErr = err
		return err
	}
	return nil
}

// drain repeatedly parses the next header field or tag until it
// cannot make progress without more input, mirroring the source
// library's "keep going while OK" dispatch loop.
func (p *Parser) drain() *swferr.Error {
	for {
		var err *swferr.Error
		switch p.state {
		case stateHeader:
			err = p.parseDecompressedHeader()
		case stateBody:
			err = p.parseTag()
		case stateFinished:
			return swferr.New(swferr.Finished, "drain: already finished")
		default:
			return swferr.Errorf(swferr.InternalError, "drain: unexpected state %v", p.state)
		}
		if err == nil {
			continue
		}
		return err
	}
}
