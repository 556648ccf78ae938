// Package decompress adapts the container format's three body
// encodings (identity, DEFLATE, LZMA) to a single incremental
// interface: feed compressed bytes in, get decompressed bytes written
// into the shared elastic buffer, and learn whether more input is
// needed or the stream has ended.
//
// # Overview
//
// klauspost/compress's zlib reader and ulikunitz/xz's lzma reader are
// both pull-based: they read from an io.Reader on their own schedule
// and block when it has nothing ready. That is the opposite of what
// Feed needs (push bytes in, get back whatever output they produce
// right now, never block). Each non-identity Decoder bridges the two
// by running the pull-based reader on a worker goroutine against an
// in-memory input queue that Feed appends to, and draining whatever
// output the worker produced before handing control back.
//
// # Dependencies
//
// github.com/klauspost/compress/zlib (DEFLATE, zlib-wrapped) and
// github.com/ulikunitz/xz/lzma (LZMA), matching the libraries the
// retrieval pack's other repositories use for the same codecs.
package decompress

import (
	"github.com/thebagchi/swfstream/lib/bitbuffer"
	"github.com/thebagchi/swfstream/lib/container"
	"github.com/thebagchi/swfstream/lib/swferr"
)

// Status reports what a Decoder accomplished on its most recent Feed.
type Status int

const (
	// NeedMoreInput means the decoder has emitted everything it can
	// from the input supplied so far and is now waiting for more.
	NeedMoreInput Status = iota
	// Finished means the compressed stream reached its logical end.
	Finished
)

// growFactor is the capacity multiplier GrowForOutput applies once the
// output buffer already has an allocation; the first allocation (from
// an empty buffer) is four times the caller's request instead.
const growFactor = 2.0

// Decoder turns compressed bytes into decompressed bytes. Not safe for
// concurrent use; a Parser drives exactly one Decoder from the
// goroutine that calls Feed.
type Decoder interface {
	// Feed appends newInput (which may be empty, to resume draining
	// without adding input) to the decoder's pending input and writes
	// as much decompressed output as it can produce into out, growing
	// out's capacity as needed.
	Feed(newInput []byte, out *bitbuffer.Buffer) (Status, *swferr.Error)
	// Close releases the worker goroutine and any native resources.
	// Safe to call more than once.
	Close() error
}

// New constructs the Decoder for method. lzmaProps is the 5-byte LZMA
// properties block read from the stream's LZMA header state; it is
// ignored for methods other than LZMA.
func New(method container.Compression, lzmaProps []byte) (Decoder, *swferr.Error) {
	switch method {
	case container.CompressionIdentity:
		return newIdentityDecoder(), nil
	case container.CompressionDeflate:
		return newDeflateDecoder(), nil
	case container.CompressionLZMA:
		return newLZMADecoder(lzmaProps)
	default:
		return nil, swferr.Errorf(swferr.Unknown, "decompress: unknown compression method %q", byte(method))
	}
}

// appendGrowing copies data into out's free tail, growing out as
// needed so the whole of data is committed in one call.
func appendGrowing(out *bitbuffer.Buffer, data []byte) *swferr.Error {
	for len(data) > 0 {
		tail := out.FreeTail()
		if len(tail) == 0 {
			if err := out.GrowForOutput(growFactor, len(data)); err != nil {
				return err
			}
			tail = out.FreeTail()
		}
		n := copy(tail, data)
		out.CommitWrite(n)
		data = data[n:]
	}
	return nil
}
