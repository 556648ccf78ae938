package decompress

import (
	"github.com/thebagchi/swfstream/lib/bitbuffer"
	"github.com/thebagchi/swfstream/lib/swferr"
)

// identityDecoder passes bytes straight through; the container body is
// uncompressed.
type identityDecoder struct{}

func newIdentityDecoder() *identityDecoder {
	return &identityDecoder{}
}

func (d *identityDecoder) Feed(newInput []byte, out *bitbuffer.Buffer) (Status, *swferr.Error) {
	if err := appendGrowing(out, newInput); err != nil {
		return NeedMoreInput, err
	}
	return NeedMoreInput, nil
}

func (d *identityDecoder) Close() error {
	return nil
}
