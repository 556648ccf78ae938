package swfstream

import (
	"bytes"
	"testing"

	"github.com/thebagchi/swfstream/lib/container"
	"github.com/thebagchi/swfstream/lib/swferr"
)

// zeroRect encodes a zero-width rectangle (all four fields zero length,
// occupying exactly one byte: the top 5 bits are the width 0, the
// remaining 3 bits are padding consumed by FinishBitAccess).
const zeroRect = byte(0x00)

func shortTagHeader(tagType container.Type, length int) []byte {
	v := uint16(tagType)<<6 | uint16(length)
	return []byte{byte(v), byte(v >> 8)}
}

func le16(v uint16) []byte { return []byte{byte(v), byte(v >> 8)} }
func le32(v uint32) []byte { return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)} }

// buildStream assembles a complete uncompressed container stream:
// preamble, decompressed header (zero rect, frame rate, frame count),
// then the given raw tag bytes, then the END tag.
func buildStream(tagBytes []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('F')
	buf.WriteByte('W')
	buf.WriteByte('S')
	buf.WriteByte(6) // version
	buf.Write(le32(0))
	buf.WriteByte(zeroRect)
	buf.Write(le16(0x0C00)) // frame rate, arbitrary
	buf.Write(le16(10))     // frame count
	buf.Write(tagBytes)
	buf.Write(shortTagHeader(container.TypeEnd, 0))
	return buf.Bytes()
}

func TestParserWholeStreamAtOnce(t *testing.T) {
	showFrame := shortTagHeader(container.TypeShowFrame, 0)
	stream := buildStream(showFrame)

	p := New()
	defer p.Close()
	err := p.Feed(stream)
	if err == nil || err.Code != swferr.Finished {
		t.Fatalf("Feed() = %v, want Finished", err)
	}
	c := p.Container()
	if c.Compression != container.CompressionIdentity {
		t.Errorf("Compression = %v, want identity", c.Compression)
	}
	if c.FrameCount != 10 {
		t.Errorf("FrameCount = %d, want 10", c.FrameCount)
	}
	if c.Tags.Len() != 1 {
		t.Fatalf("Tags.Len() = %d, want 1", c.Tags.Len())
	}
	if c.Tags.At(0).Type != container.TypeShowFrame {
		t.Errorf("Tags.At(0).Type = %v, want TypeShowFrame", c.Tags.At(0).Type)
	}
}

func TestParserByteAtATime(t *testing.T) {
	showFrame := shortTagHeader(container.TypeShowFrame, 0)
	stream := buildStream(showFrame)

	p := New()
	defer p.Close()
	var finished bool
	for i := 0; i < len(stream); i++ {
		err := p.Feed(stream[i : i+1])
		if err != nil {
			if err.Code == swferr.Finished {
				finished = true
				break
			}
			t.Fatalf("Feed() at byte %d: %v", i, err)
		}
	}
	if !finished {
		t.Fatalf("parser never reported Finished")
	}
	if p.Container().Tags.Len() != 1 {
		t.Fatalf("Tags.Len() = %d, want 1", p.Container().Tags.Len())
	}
}

func TestParserIDPrefixedTag(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	id := uint16(0x1234)
	body := append(le16(id), payload...)
	tagBytes := append(shortTagHeader(container.TypeDefineShape, len(body)), body...)

	p := New()
	defer p.Close()
	if err := p.Feed(buildStream(tagBytes)); err == nil || err.Code != swferr.Finished {
		t.Fatalf("Feed() = %v, want Finished", err)
	}
	c := p.Container()
	if c.Tags.Len() != 1 {
		t.Fatalf("Tags.Len() = %d, want 1", c.Tags.Len())
	}
	tag := c.Tags.At(0)
	if tag.ID != id {
		t.Errorf("Tag.ID = %#x, want %#x", tag.ID, id)
	}
	if !bytes.Equal(tag.Payload, payload) {
		t.Errorf("Tag.Payload = %v, want %v", tag.Payload, payload)
	}
}

func TestParserJPEGTables(t *testing.T) {
	tables := []byte{0xAA, 0xBB, 0xCC}
	tagBytes := append(shortTagHeader(container.TypeJPEGTables, len(tables)), tables...)

	p := New()
	defer p.Close()
	if err := p.Feed(buildStream(tagBytes)); err == nil || err.Code != swferr.Finished {
		t.Fatalf("Feed() = %v, want Finished", err)
	}
	c := p.Container()
	if !bytes.Equal(c.JPEGTables, tables) {
		t.Errorf("JPEGTables = %v, want %v", c.JPEGTables, tables)
	}
	if c.Tags.Len() != 1 || !bytes.Equal(c.Tags.At(0).Payload, tables) {
		t.Errorf("JPEG_TABLES tag not also recorded in the tag list")
	}
}

func TestParserExtendedLength(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5A}, 200)
	var tagBytes bytes.Buffer
	tagBytes.Write(shortTagHeader(container.TypeDoAction, 0x3F))
	tagBytes.Write(le32(uint32(len(payload))))
	tagBytes.Write(payload)

	p := New()
	defer p.Close()
	if err := p.Feed(buildStream(tagBytes.Bytes())); err == nil || err.Code != swferr.Finished {
		t.Fatalf("Feed() = %v, want Finished", err)
	}
	c := p.Container()
	if c.Tags.Len() != 1 || !bytes.Equal(c.Tags.At(0).Payload, payload) {
		t.Errorf("extended-length tag payload mismatch")
	}
}

func TestParserRollsBackIncompleteTag(t *testing.T) {
	showFrame := shortTagHeader(container.TypeShowFrame, 0)
	stream := buildStream(showFrame)
	// Split right in the middle of the END tag's 2-byte header.
	split := len(stream) - 1

	p := New()
	defer p.Close()
	if err := p.Feed(stream[:split]); err != nil {
		t.Fatalf("Feed(first part): %v", err)
	}
	if p.Container().Tags.Len() != 1 {
		t.Fatalf("Tags.Len() before the split completes = %d, want 1 (ShowFrame only)", p.Container().Tags.Len())
	}
	err := p.Feed(stream[split:])
	if err == nil || err.Code != swferr.Finished {
		t.Fatalf("Feed(remainder) = %v, want Finished", err)
	}
}

func TestParserOnTagCallbackOptsOutOfAutoAdd(t *testing.T) {
	showFrame := shortTagHeader(container.TypeShowFrame, 0)
	stream := buildStream(showFrame)

	var seen []container.Type
	p := New()
	defer p.Close()
	p.SetCallbacks(Callbacks{
		OnTag: func(p *Parser, tag *container.Tag) *swferr.Error {
			seen = append(seen, tag.Type)
			return nil
		},
	})
	if err := p.Feed(stream); err == nil || err.Code != swferr.Finished {
		t.Fatalf("Feed() = %v, want Finished", err)
	}
	if len(seen) != 1 || seen[0] != container.TypeShowFrame {
		t.Errorf("OnTag saw %v, want [TypeShowFrame]", seen)
	}
	if p.Container().Tags.Len() != 0 {
		t.Errorf("Tags.Len() = %d, want 0 since OnTag did not call AddTag", p.Container().Tags.Len())
	}
}

func TestParserRejectsBadSignature(t *testing.T) {
	stream := buildStream(nil)
	stream[1] = 'X' // corrupt the 'W' of the WS signature

	p := New()
	defer p.Close()
	err := p.Feed(stream)
	if err == nil || err.Code != swferr.Invalid {
		t.Fatalf("Feed() = %v, want Invalid", err)
	}
}

func TestParserFeedAfterFinishedErrors(t *testing.T) {
	stream := buildStream(nil)
	p := New()
	defer p.Close()
	if err := p.Feed(stream); err == nil || err.Code != swferr.Finished {
		t.Fatalf("Feed() = %v, want Finished", err)
	}
	if err := p.Feed([]byte{1}); err == nil || err.Code != swferr.Finished {
		t.Fatalf("Feed() after Finished = %v, want Finished", err)
	}
}
