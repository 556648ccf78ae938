// Package bitbuffer implements the elastic buffer and bit cursor that
// every other layer of the container parser reads through: the
// decompression adapters append decoded bytes to it, and the tag framer
// reads both byte-aligned and bit-packed fields from it.
//
// # Overview
//
// Buffer owns a single growable heap allocation with a read pointer
// that slides forward as bytes are consumed and a write tail that
// slides forward as bytes are appended. Unlike a plain ring buffer, it
// also remembers a checkpoint: the read position at the last call to
// ClearRollback. Rollback restores the read pointer (and the logical
// length) to that checkpoint, which is how the tag framer undoes a
// partially-read frame when the stream runs out of bytes mid-frame.
//
// # Key features
//
//   - Append in three tiers: write into existing tail space, reclaim
//     consumed-and-committed space via Shift, or reallocate.
//   - GetBits/GetSBits read 0-56 bit, MSB-first fields without
//     requiring byte alignment; FinishBitAccess realigns to the next
//     byte boundary.
//   - Rollback/ClearRollback implement the framer's "try to parse one
//     frame, undo everything if it's incomplete" pattern without the
//     caller ever touching raw offsets.
//
// # Dependencies
//
// Standard library only (no pack repository reaches for a third-party
// bit-packing or growable-buffer library for this kind of work).
//
// # Thread safety
//
// Buffer is NOT safe for concurrent use. Each parser owns exactly one
// Buffer and mutates it only from the goroutine driving Feed; the
// decompression worker goroutine hands its output to Feed, which
// appends it to the Buffer itself.
package bitbuffer

import (
	"fmt"

	"github.com/thebagchi/swfstream/lib/numeric"
	"github.com/thebagchi/swfstream/lib/swferr"
)

// Buffer is the elastic sliding buffer plus its bit cursor.
//
// storage's length is the write tail (all bytes appended so far,
// including ones already consumed); its capacity is the allocation
// size. readOff is the read pointer; length is the number of unread
// bytes (readOff+length is the tail). checkpoint is the read pointer
// at the last ClearRollback call: Shift and the grow family only ever
// discard bytes strictly before checkpoint, because those bytes
// between checkpoint and readOff may still be needed if the caller
// rolls back.
type Buffer struct {
	storage    []byte
	readOff    int
	length     int
	bitIndex   int
	checkpoint int
}

// New allocates a Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	return &Buffer{storage: make([]byte, 0, capacity)}
}

// NewWithData allocates a Buffer sized to data and appends it.
func NewWithData(data []byte) *Buffer {
	b := New(len(data))
	// Append cannot fail here: the allocation is sized exactly to data.
	_ = b.Append(data)
	return b
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return b.length
}

// Cap returns the allocation's capacity.
func (b *Buffer) Cap() int {
	return cap(b.storage)
}

// BitsAvailable returns the number of unread bits, accounting for the
// in-progress bit cursor position.
func (b *Buffer) BitsAvailable() int {
	return b.length*8 - b.bitIndex
}

// retained returns the start of the region Shift/grow must preserve
// (checkpoint) and its end (the write tail).
func (b *Buffer) retained() (base, tail int) {
	return b.checkpoint, b.readOff + b.length
}

// Append adds bytes to the buffer's tail, using three tiers in order:
// write directly if the tail has room, reclaim space behind the
// checkpoint via Shift, or reallocate. Returns a NoMem error if the
// underlying allocation is refused.
func (b *Buffer) Append(data []byte) *swferr.Error {
	if len(data) == 0 {
		return nil
	}
	if len(b.storage)+len(data) <= cap(b.storage) {
		b.storage = append(b.storage, data...)
		b.length += len(data)
		return nil
	}
	b.Shift()
	if len(b.storage)+len(data) <= cap(b.storage) {
		b.storage = append(b.storage, data...)
		b.length += len(data)
		return nil
	}
	if err := b.GrowTo(len(b.storage) + len(data)); err != nil {
		return err
	}
	b.storage = append(b.storage, data...)
	b.length += len(data)
	return nil
}

// Advance moves the read pointer forward by k bytes (k may be
// negative; Rollback uses this to move it backward) and zeroes the bit
// cursor, since an advance always realigns to a byte boundary.
func (b *Buffer) Advance(k int) {
	b.readOff += k
	b.length -= k
	b.bitIndex = 0
}

// ClearRollback sets the checkpoint to the current read position. The
// framer calls this at the start of every tag-parse attempt.
func (b *Buffer) ClearRollback() {
	b.checkpoint = b.readOff
}

// Rollback restores the read pointer to the last checkpoint, undoing
// every Advance/GetBits call since. It never allocates.
func (b *Buffer) Rollback() {
	delta := b.readOff - b.checkpoint
	if delta != 0 {
		b.Advance(-delta)
	} else {
		b.bitIndex = 0
	}
}

// Shift moves the retained region (from the checkpoint to the write
// tail) to the start of the allocation, reclaiming whatever space was
// consumed-and-committed before the checkpoint. Returns the resulting
// free space at the tail.
func (b *Buffer) Shift() int {
	base, tail := b.retained()
	if base > 0 {
		copy(b.storage[0:tail-base], b.storage[base:tail])
		b.storage = b.storage[:tail-base]
		b.readOff -= base
		b.checkpoint = 0
	}
	return cap(b.storage) - len(b.storage)
}

// recoverNoMem turns a make() allocation panic into a NoMem error, the
// way append_data in the original source surfaces an allocator
// failure instead of crashing.
func recoverNoMem(err **swferr.Error) {
	if r := recover(); r != nil {
		*err = swferr.Errorf(swferr.NoMem, "allocation failed: %v", r)
	}
}

// GrowTo reallocates the buffer to at least n bytes of capacity,
// preserving the retained region (checkpoint through tail). Refuses to
// shrink below the retained region's size with InternalError.
func (b *Buffer) GrowTo(n int) (err *swferr.Error) {
	base, tail := b.retained()
	kept := tail - base
	if n < kept {
		return swferr.Errorf(swferr.InternalError, "grow_to(%d): below retained length %d", n, kept)
	}
	defer recoverNoMem(&err)
	next := make([]byte, kept, n)
	copy(next, b.storage[base:tail])
	b.storage = next
	b.readOff -= base
	b.checkpoint = 0
	return nil
}

// GrowBy reallocates to cap(b)+k bytes of capacity.
func (b *Buffer) GrowBy(k int) *swferr.Error {
	return b.GrowTo(cap(b.storage) + k)
}

// Grow reallocates to cap(b)*factor bytes of capacity (at least one
// byte more than the current capacity, so Grow(1) still makes
// progress).
func (b *Buffer) Grow(factor float64) *swferr.Error {
	next := int(float64(cap(b.storage)) * factor)
	if next <= cap(b.storage) {
		next = cap(b.storage) + 1
	}
	return b.GrowTo(next)
}

// GetBits reads the next n bits (0 <= n <= 56) as a big-endian bit
// string: bit 0 of the current byte is its most significant bit, and
// successive bytes contribute their bits in the same order. The bit
// cursor advances by n. Callers must ensure BitsAvailable() >= n; use
// Get8/Get16/Get32 or a preceding BitsAvailable check to avoid running
// past the write tail.
func (b *Buffer) GetBits(n int) uint64 {
	if n == 0 {
		return 0
	}
	if n < 0 || n > 56 {
		panic(fmt.Sprintf("bitbuffer: GetBits width %d out of range [0,56]", n))
	}
	var (
		result    uint64
		remaining = n
		byteDelta = 0
		bit       = b.bitIndex
	)
	for remaining > 0 {
		cur := b.storage[b.readOff+byteDelta]
		avail := 8 - bit
		take := remaining
		if take > avail {
			take = avail
		}
		shift := avail - take
		mask := byte((1 << uint(take)) - 1)
		result = (result << uint(take)) | uint64((cur>>uint(shift))&mask)
		bit += take
		remaining -= take
		if bit == 8 {
			bit = 0
			byteDelta++
		}
	}
	if byteDelta > 0 {
		b.Advance(byteDelta)
	}
	b.bitIndex = bit
	return result
}

// GetSBits is GetBits with the result sign-extended from bit n-1.
func (b *Buffer) GetSBits(n int) int64 {
	v := b.GetBits(n)
	if n == 0 {
		return int64(v)
	}
	if v&(uint64(1)<<uint(n-1)) != 0 {
		v |= ^uint64(0) << uint(n)
	}
	return int64(v)
}

// FinishBitAccess advances the byte cursor by ceil(bitIndex/8) and
// zeroes the bit cursor, so the next read is byte-aligned.
func (b *Buffer) FinishBitAccess() {
	if b.bitIndex == 0 {
		return
	}
	b.Advance(1)
}

// Get8 reads one byte, realigning first if a bit read left the cursor
// mid-byte. Returns NeedMoreData if fewer than 1 byte is available.
func (b *Buffer) Get8() (uint8, *swferr.Error) {
	b.FinishBitAccess()
	if b.length < 1 {
		return 0, swferr.New(swferr.NeedMoreData, "get8: need 1 byte")
	}
	v := b.storage[b.readOff]
	b.Advance(1)
	return v, nil
}

// Get16 reads a little-endian u16, realigning first if needed.
func (b *Buffer) Get16() (uint16, *swferr.Error) {
	b.FinishBitAccess()
	if b.length < 2 {
		return 0, swferr.New(swferr.NeedMoreData, "get16: need 2 bytes")
	}
	v := numeric.LEUint16(b.storage[b.readOff : b.readOff+2])
	b.Advance(2)
	return v, nil
}

// Get32 reads a little-endian u32, realigning first if needed.
func (b *Buffer) Get32() (uint32, *swferr.Error) {
	b.FinishBitAccess()
	if b.length < 4 {
		return 0, swferr.New(swferr.NeedMoreData, "get32: need 4 bytes")
	}
	v := numeric.LEUint32(b.storage[b.readOff : b.readOff+4])
	b.Advance(4)
	return v, nil
}

// PeekBytes returns the next n unread bytes without advancing. The
// caller must ensure Len() >= n.
func (b *Buffer) PeekBytes(n int) []byte {
	return b.storage[b.readOff : b.readOff+n]
}

// ReadBytes returns a freshly-allocated copy of the next n unread
// bytes and advances past them. The caller must ensure Len() >= n.
func (b *Buffer) ReadBytes(n int) []byte {
	b.FinishBitAccess()
	out := make([]byte, n)
	copy(out, b.storage[b.readOff:b.readOff+n])
	b.Advance(n)
	return out
}

// FreeTail returns the writable free space at the allocation's tail,
// shifting first if the tail is currently full. Decompression adapters
// write directly into this slice before calling CommitWrite.
func (b *Buffer) FreeTail() []byte {
	if cap(b.storage)-len(b.storage) == 0 {
		b.Shift()
	}
	return b.storage[len(b.storage):cap(b.storage)]
}

// CommitWrite records that n bytes of FreeTail's slice were filled in
// by the caller (a decompression adapter) and are now part of the
// buffer's logical content.
func (b *Buffer) CommitWrite(n int) {
	b.storage = b.storage[:len(b.storage)+n]
	b.length += n
}

// GrowForOutput applies the decompression adapters' output-space
// growth policy: grow capacity by factor (4x the first time a decoder
// needs room, 2x on a later stall), then make sure at least ensure
// bytes end up free at the tail.
func (b *Buffer) GrowForOutput(factor float64, ensure int) *swferr.Error {
	if cap(b.storage) == 0 {
		initial := ensure * 4
		if initial < ensure {
			initial = ensure
		}
		return b.GrowTo(initial)
	}
	if err := b.Grow(factor); err != nil {
		return err
	}
	if cap(b.storage)-len(b.storage) < ensure {
		return b.GrowTo(len(b.storage) + ensure)
	}
	return nil
}
