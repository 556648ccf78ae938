// Package container holds the parsed, format-neutral result of a
// container stream: the global header fields and the ordered tag
// sequence. It has no opinion on what any tag's payload bytes mean —
// interpreting a tag's payload is left entirely to the caller.
package container

// Compression identifies which of the three decoder variants produced
// the decompressed body.
type Compression byte

const (
	CompressionIdentity Compression = 'F'
	CompressionDeflate  Compression = 'C'
	CompressionLZMA     Compression = 'Z'
)

func (c Compression) String() string {
	switch c {
	case CompressionIdentity:
		return "identity"
	case CompressionDeflate:
		return "deflate"
	case CompressionLZMA:
		return "lzma"
	default:
		return "unknown"
	}
}

// Rectangle is the frame boundary, in twips, decoded from the
// bit-packed rectangle field. XMin and YMin are normally zero but are
// retained for completeness; nothing in this module re-encodes the
// container, so they are otherwise unused.
type Rectangle struct {
	XMin, XMax, YMin, YMax int32
}

// Tag is one decoded record from the body: a type code, an optional
// dictionary identifier (0 means none), and its opaque payload. Each
// Tag exclusively owns Payload.
type Tag struct {
	Type    Type
	ID      uint16
	Payload []byte
}

// Size is the number of decoded payload bytes, after any dictionary ID
// has been stripped out of the raw tag length.
func (t *Tag) Size() int {
	return len(t.Payload)
}

// Container aggregates the parsed global fields and the append-only
// tag list. A Container is exclusively owned by the Parser that
// produced it.
type Container struct {
	Version      uint8
	DeclaredSize uint32
	Compression  Compression
	Rect         Rectangle
	// FrameRate is the raw 8.8 fixed-point u16 as read from the
	// stream; this module performs no fixed-point arithmetic on it and
	// leaves interpreting the bits to the caller.
	FrameRate uint16
	// FrameCount is the frame count, raw.
	FrameCount uint16
	// JPEGTables holds the most recently captured JPEG_TABLES tag
	// payload, or nil if none has been seen. A second JPEG_TABLES tag
	// replaces the first: this implementation frees (drops the
	// reference to) the prior buffer before overwriting it, rather
	// than leaking it as the original source does.
	JPEGTables []byte

	Tags TagList
}

// SetJPEGTables stores data as the container's JPEG tables slot,
// replacing (and letting the GC reclaim) whatever was there before.
func (c *Container) SetJPEGTables(data []byte) {
	c.JPEGTables = nil
	c.JPEGTables = data
}

// TagList is an append-only sequence of tags that grows geometrically
// (capacity doubles from an initial 16), mirroring the allocation
// strategy lib/bitbuffer.Buffer uses for its own storage.
type TagList struct {
	tags []Tag
}

const tagListInitialCapacity = 16

// Add appends t to the list, retained by value.
func (l *TagList) Add(t Tag) {
	if l.tags == nil {
		l.tags = make([]Tag, 0, tagListInitialCapacity)
	} else if len(l.tags) == cap(l.tags) {
		grown := make([]Tag, len(l.tags), cap(l.tags)*2)
		copy(grown, l.tags)
		l.tags = grown
	}
	l.tags = append(l.tags, t)
}

// Len returns the number of tags retained so far.
func (l *TagList) Len() int {
	return len(l.tags)
}

// At returns the tag at index i.
func (l *TagList) At(i int) *Tag {
	return &l.tags[i]
}

// All returns the retained tags in stream order. The returned slice
// aliases the list's backing array and must not be mutated.
func (l *TagList) All() []Tag {
	return l.tags
}
