package decompress

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/thebagchi/swfstream/lib/bitbuffer"
	"github.com/thebagchi/swfstream/lib/swferr"
)

// lzmaPropsSize is the length of the raw LZMA properties block (one
// byte packing lc/lp/pb, four bytes of little-endian dictionary size)
// that the container's LZMA header state reads directly from the
// stream, before the raw compressed data begins.
const lzmaPropsSize = 5

// lzmaDecoder decompresses a raw LZMA body using
// github.com/ulikunitz/xz/lzma. That package's Reader expects the
// classic 13-byte .lzma header (5-byte properties block, then an
// 8-byte little-endian uncompressed size); the container format's own
// header carries only the 5-byte properties block and gives no
// uncompressed size up front, so the missing 8 bytes are filled with
// the "size unknown, rely on the end-of-stream marker" sentinel
// (0xFFFFFFFFFFFFFFFF), the same reconstruction technique used to
// bridge a headerless raw LZMA blob into this library (grounded on the
// retrieval pack's CHD LZMA codec, which synthesizes an equivalent
// header before calling lzma.NewReader).
type lzmaDecoder struct {
	w *worker
}

func newLZMADecoder(props []byte) (*lzmaDecoder, *swferr.Error) {
	if len(props) != lzmaPropsSize {
		return nil, swferr.Errorf(swferr.Invalid, "lzma: properties block must be %d bytes, got %d", lzmaPropsSize, len(props))
	}
	header := make([]byte, 13)
	copy(header[:lzmaPropsSize], props)
	for i := lzmaPropsSize; i < 13; i++ {
		header[i] = 0xFF
	}
	d := &lzmaDecoder{w: newWorker(func(r io.Reader) (io.Reader, error) {
		return lzma.NewReader(io.MultiReader(bytes.NewReader(header), r))
	}, swferr.Invalid, "lzma")}
	return d, nil
}

func (d *lzmaDecoder) Feed(newInput []byte, out *bitbuffer.Buffer) (Status, *swferr.Error) {
	return d.w.feed(newInput, out)
}

func (d *lzmaDecoder) Close() error {
	return d.w.close()
}
