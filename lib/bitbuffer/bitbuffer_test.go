package bitbuffer

import (
	"bytes"
	"testing"
)

func TestAppendAndGet8(t *testing.T) {
	b := New(4)
	if err := b.Append([]byte{1, 2, 3}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	for i, want := range []uint8{1, 2, 3} {
		got, err := b.Get8()
		if err != nil {
			t.Fatalf("Get8()[%d]: %v", i, err)
		}
		if got != want {
			t.Errorf("Get8()[%d] = %d, want %d", i, got, want)
		}
	}
	if _, err := b.Get8(); err == nil {
		t.Fatalf("Get8() on empty buffer: want error, got nil")
	}
}

func TestAppendGrowsAcrossTiers(t *testing.T) {
	b := New(2)
	test := func(data []byte, description string) {
		t.Run(description, func(t *testing.T) {
			if err := b.Append(data); err != nil {
				t.Fatalf("Append: %v", err)
			}
		})
	}
	test([]byte{1, 2}, "fills initial capacity exactly")
	test([]byte{3}, "triggers reallocation past tiny capacity")
	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}
	for i, want := range []uint8{1, 2, 3} {
		got, err := b.Get8()
		if err != nil {
			t.Fatalf("Get8()[%d]: %v", i, err)
		}
		if got != want {
			t.Errorf("Get8()[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestRollbackIdempotence(t *testing.T) {
	b := NewWithData([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	b.ClearRollback()
	if _, err := b.Get8(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Get8(); err != nil {
		t.Fatal(err)
	}
	before := b.Len()
	b.Rollback()
	if b.Len() != before+2 {
		t.Errorf("Len() after rollback = %d, want %d", b.Len(), before+2)
	}
	got, err := b.Get8()
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xAA {
		t.Errorf("first byte after rollback = %#x, want 0xAA", got)
	}
}

func TestShiftPreservesRetainedRegion(t *testing.T) {
	b := New(8)
	_ = b.Append([]byte{1, 2, 3, 4})
	if _, err := b.Get8(); err != nil {
		t.Fatal(err)
	}
	b.ClearRollback()
	if _, err := b.Get8(); err != nil {
		t.Fatal(err)
	}
	// one committed byte (1) sits before the checkpoint now; shift may
	// reclaim it, but must not touch byte 2 (between checkpoint and
	// read pointer) since a rollback could still need it.
	b.Shift()
	b.Rollback()
	got, err := b.Get8()
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("Get8() after shift+rollback = %d, want 2", got)
	}
}

func TestGrowToRefusesShrinkBelowRetained(t *testing.T) {
	b := NewWithData([]byte{1, 2, 3, 4})
	if err := b.GrowTo(1); err == nil {
		t.Fatalf("GrowTo(1) on a 4-byte retained region: want InternalError, got nil")
	}
}

func TestBitReadRoundTrip(t *testing.T) {
	// Pack the 10-bit value 0x2A5 at bit offset 3 of byte 0: width 10
	// at bit offset 3 spans bits [3..12].
	value := uint64(0x2A5)
	width := 10
	offset := 3
	// Build a byte stream with `offset` leading 1-bits (arbitrary,
	// distinguishable filler) then the value's bits, then trailing
	// padding, all MSB-first.
	var bits []int
	for i := 0; i < offset; i++ {
		bits = append(bits, 1)
	}
	for i := width - 1; i >= 0; i-- {
		bits = append(bits, int((value>>uint(i))&1))
	}
	for len(bits)%8 != 0 {
		bits = append(bits, 0)
	}
	data := make([]byte, len(bits)/8)
	for i, bit := range bits {
		if bit != 0 {
			data[i/8] |= 1 << uint(7-i%8)
		}
	}
	b := NewWithData(data)
	b.GetBits(offset) // skip the filler prefix
	got := b.GetBits(width)
	if got != value {
		t.Errorf("GetBits(%d) at offset %d = %#x, want %#x", width, offset, got, value)
	}
}

func TestGetSBitsSignExtends(t *testing.T) {
	// 4-bit field 0b1010 = -6 in two's complement.
	b := NewWithData([]byte{0b1010_0000})
	got := b.GetSBits(4)
	if got != -6 {
		t.Errorf("GetSBits(4) = %d, want -6", got)
	}
}

func TestGetBitsZeroWidth(t *testing.T) {
	b := NewWithData([]byte{0xFF})
	if got := b.GetBits(0); got != 0 {
		t.Errorf("GetBits(0) = %d, want 0", got)
	}
	if b.BitsAvailable() != 8 {
		t.Errorf("GetBits(0) should not advance the cursor, BitsAvailable() = %d", b.BitsAvailable())
	}
}

func TestFinishBitAccessRealigns(t *testing.T) {
	b := NewWithData([]byte{0xFF, 0x42})
	b.GetBits(3)
	b.FinishBitAccess()
	v, err := b.Get8()
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x42 {
		t.Errorf("Get8() after FinishBitAccess = %#x, want 0x42", v)
	}
}

func TestGet16And32LittleEndian(t *testing.T) {
	b := NewWithData([]byte{0x34, 0x12, 0x78, 0x56, 0x34, 0x12})
	v16, err := b.Get16()
	if err != nil || v16 != 0x1234 {
		t.Errorf("Get16() = %#x, %v, want 0x1234, nil", v16, err)
	}
	v32, err := b.Get32()
	if err != nil || v32 != 0x12345678 {
		t.Errorf("Get32() = %#x, %v, want 0x12345678, nil", v32, err)
	}
}

func TestReadBytes(t *testing.T) {
	b := NewWithData([]byte("hello"))
	got := b.ReadBytes(5)
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("ReadBytes(5) = %q, want %q", got, "hello")
	}
}

func TestFreeTailAndCommitWrite(t *testing.T) {
	b := New(4)
	_ = b.Append([]byte{1, 2})
	tail := b.FreeTail()
	if len(tail) != 2 {
		t.Fatalf("FreeTail() len = %d, want 2", len(tail))
	}
	tail[0], tail[1] = 3, 4
	b.CommitWrite(2)
	if b.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", b.Len())
	}
	got := b.ReadBytes(4)
	if !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("ReadBytes(4) = %v, want [1 2 3 4]", got)
	}
}
