package imbuf

import (
	"testing"
	"unsafe"
)

func TestRectLen(t *testing.T) {
	ibuf, err := New(4, 4, 32, FlagRect)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	if got := ibuf.RectLen(); got != 16 {
		t.Errorf("RectLen() = %d, want 16", got)
	}
}

func TestSizeInMemory(t *testing.T) {
	ibuf, err := New(4, 4, 32, FlagRect)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	header := uint64(unsafe.Sizeof(*ibuf))
	want := header + 4*4*4 // one byte per channel, 16 pixels, 4 channels
	if got := ibuf.SizeInMemory(); got != want {
		t.Errorf("SizeInMemory() = %d, want %d", got, want)
	}
}

func TestSizeInMemoryWithFloatAndMipmaps(t *testing.T) {
	ibuf, err := New(4, 4, 32, FlagRect|FlagRectFloat)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	header := uint64(unsafe.Sizeof(*ibuf))
	// One byte plus four float bytes per channel.
	flat := header + (1+4)*4*4*4
	if got := ibuf.SizeInMemory(); got != flat {
		t.Fatalf("SizeInMemory() = %d, want %d", got, flat)
	}

	if err := ibuf.MakeMipmaps(); err != nil {
		t.Fatalf("MakeMipmaps() error = %v", err)
	}
	// 2x2 and 1x1 byte-plane levels.
	want := flat + (header + 2*2*4) + (header + 1*1*4)
	if got := ibuf.SizeInMemory(); got != want {
		t.Errorf("SizeInMemory() with mipmaps = %d, want %d", got, want)
	}
}
