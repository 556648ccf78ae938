package swfstream

import (
	"github.com/thebagchi/swfstream/lib/container"
	"github.com/thebagchi/swfstream/lib/swferr"
)

// Callbacks lets a caller observe parsing as it happens instead of
// only inspecting the finished Container. Every field is optional; a
// nil callback is simply skipped.
type Callbacks struct {
	// OnHeader fires once the fixed preamble (compression, version,
	// declared size) has been read.
	OnHeader func(*Parser)

	// OnDecompressedHeader fires once the frame rectangle, frame rate
	// and frame count have been read from the decompressed body.
	OnDecompressedHeader func(*Parser)

	// OnTag fires for every tag except the END sentinel. If OnTag is
	// set, the parser does NOT automatically append the tag to
	// Container.Tags; the callback must call Parser.AddTag itself to
	// opt back in, mirroring the source library's callback contract.
	// Returning a non-nil error aborts parsing with that error.
	OnTag func(*Parser, *container.Tag) *swferr.Error

	// OnEnd fires when the END tag is reached, before Feed returns the
	// Finished status.
	OnEnd func(*Parser)
}
