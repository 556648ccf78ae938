package swfstream

import (
	"github.com/thebagchi/swfstream/lib/bitbuffer"
	"github.com/thebagchi/swfstream/lib/container"
	"github.com/thebagchi/swfstream/lib/swferr"
)

// shortLengthExtended is the sentinel 6-bit length value that means
// "the real length follows as a 4-byte field".
const shortLengthExtended = 0x3F

// parseRect reads the bit-packed frame rectangle: a 5-bit field width,
// then four signed fields of that width (xmin, xmax, ymin, ymax).
// Returns NeedMoreData if buf does not yet hold the whole field; the
// width bits may already have been read by then, so the caller rolls
// buf back.
func parseRect(buf *bitbuffer.Buffer) (container.Rectangle, *swferr.Error) {
	var rect container.Rectangle
	if buf.Len() < 1 {
		return rect, swferr.New(swferr.NeedMoreData, "parseRect: need at least 1 byte")
	}
	width := int(buf.GetBits(5))
	totalBits := width*4 + 5
	totalBytes := (totalBits + 7) / 8
	if buf.Len() < totalBytes {
		return rect, swferr.Errorf(swferr.NeedMoreData, "parseRect: need %d bytes for a %d-bit field width", totalBytes, width)
	}
	rect.XMin = int32(buf.GetSBits(width))
	rect.XMax = int32(buf.GetSBits(width))
	rect.YMin = int32(buf.GetSBits(width))
	rect.YMax = int32(buf.GetSBits(width))
	buf.FinishBitAccess()
	return rect, nil
}

// parseDecompressedHeader reads the rectangle, frame rate and frame
// count from the decompressed body and advances the parser to
// stateBody. Incomplete input rolls the buffer back to its state on
// entry and returns NeedMoreData.
func (p *Parser) parseDecompressedHeader() *swferr.Error {
	p.buf.ClearRollback()
	rect, err := parseRect(p.buf)
	if err != nil {
		p.buf.Rollback()
		return err
	}
	if p.buf.Len() < 4 {
		p.buf.Rollback()
		return swferr.New(swferr.NeedMoreData, "parseDecompressedHeader: need 4 more bytes")
	}
	frameRate, _ := p.buf.Get16()
	frameCount, _ := p.buf.Get16()
	p.swf.Rect = rect
	p.swf.FrameRate = frameRate
	p.swf.FrameCount = frameCount
	p.state = stateBody
	if p.callbacks.OnDecompressedHeader != nil {
		p.callbacks.OnDecompressedHeader(p)
	}
	return nil
}

// parseTag reads one tag record. It returns swferr.Finished once the
// END sentinel has been consumed, swferr.NeedMoreData (with the buffer
// rolled back to its state on entry) if the stream runs out mid-frame,
// or nil having appended (or handed off, via Callbacks.OnTag) exactly
// one tag.
func (p *Parser) parseTag() *swferr.Error {
	p.buf.ClearRollback()
	if p.buf.Len() < 2 {
		return swferr.New(swferr.NeedMoreData, "parseTag: need 2 bytes for the tag header")
	}
	codeAndLength, _ := p.buf.Get16()
	length := int(codeAndLength & shortLengthExtended)
	tagType := container.Type(codeAndLength >> 6)

	if length == shortLengthExtended {
		if p.buf.Len() < 4 {
			p.buf.Rollback()
			return swferr.New(swferr.NeedMoreData, "parseTag: need 4 bytes for the extended length")
		}
		ext, _ := p.buf.Get32()
		length = int(ext)
	}
	if p.buf.Len() < length {
		p.buf.Rollback()
		return swferr.Errorf(swferr.NeedMoreData, "parseTag: need %d bytes of payload", length)
	}

	if tagType == container.TypeEnd {
		p.buf.Advance(length)
		p.state = stateFinished
		if p.callbacks.OnEnd != nil {
			p.callbacks.OnEnd(p)
		}
		return swferr.New(swferr.Finished, "parseTag: END")
	}

	tag := container.Tag{Type: tagType}
	if tagType == container.TypeJPEGTables {
		tag.Payload = p.buf.ReadBytes(length)
		tables := make([]byte, len(tag.Payload))
		copy(tables, tag.Payload)
		p.swf.SetJPEGTables(tables)
	} else if container.IsIDPrefixed(tagType) {
		id, _ := p.buf.Get16()
		tag.ID = id
		length -= 2
		if length < 0 {
			length = 0
		}
		tag.Payload = p.buf.ReadBytes(length)
	} else {
		tag.Payload = p.buf.ReadBytes(length)
	}

	if p.callbacks.OnTag != nil {
		return p.callbacks.OnTag(p, &tag)
	}
	p.AddTag(tag)
	return nil
}
