package decompress

import (
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/thebagchi/swfstream/lib/bitbuffer"
	"github.com/thebagchi/swfstream/lib/swferr"
)

// deflateDecoder decompresses a zlib-wrapped DEFLATE body using
// klauspost/compress/zlib, which is a drop-in, faster implementation
// of the same interface as compress/zlib.
type deflateDecoder struct {
	w *worker
}

func newDeflateDecoder() *deflateDecoder {
	return &deflateDecoder{w: newWorker(func(r io.Reader) (io.Reader, error) {
		return zlib.NewReader(r)
	}, swferr.Invalid, "deflate")}
}

func (d *deflateDecoder) Feed(newInput []byte, out *bitbuffer.Buffer) (Status, *swferr.Error) {
	return d.w.feed(newInput, out)
}

func (d *deflateDecoder) Close() error {
	return d.w.close()
}
