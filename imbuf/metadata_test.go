package imbuf

import "testing"

func TestMetadataSetGet(t *testing.T) {
	ibuf, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	if _, ok := ibuf.GetMetadata("camera"); ok {
		t.Error("GetMetadata() found a key in an empty store")
	}

	ibuf.SetMetadata("camera", "main")
	ibuf.SetMetadata("frame", "42")
	ibuf.SetMetadata("camera", "backup")

	if v, ok := ibuf.GetMetadata("camera"); !ok || v != "backup" {
		t.Errorf("GetMetadata(camera) = (%q, %v), want (backup, true)", v, ok)
	}

	ibuf.DelMetadata("camera")
	if _, ok := ibuf.GetMetadata("camera"); ok {
		t.Error("key survived DelMetadata()")
	}
	if v, ok := ibuf.GetMetadata("frame"); !ok || v != "42" {
		t.Errorf("GetMetadata(frame) = (%q, %v), want (42, true)", v, ok)
	}
}

func TestMetadataUnicodeNormalization(t *testing.T) {
	ibuf, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	// Decomposed "é" on write, precomposed on read: file-format text chunks
	// use either composition.
	ibuf.SetMetadata("exposé", "1/250")
	if v, ok := ibuf.GetMetadata("exposé"); !ok || v != "1/250" {
		t.Errorf("lookup across compositions = (%q, %v), want (1/250, true)", v, ok)
	}
}

func TestMetadataIterationOrder(t *testing.T) {
	ibuf, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	keys := []string{"colorspace", "camera", "frame", "artist"}
	for i, k := range keys {
		ibuf.SetMetadata(k, string(rune('a'+i)))
	}

	var got []string
	ibuf.ForeachMetadata(func(k, _ string) { got = append(got, k) })

	if len(got) != len(keys) {
		t.Fatalf("iterated %d keys, want %d", len(got), len(keys))
	}
	for i := range keys {
		if got[i] != keys[i] {
			t.Errorf("key %d = %q, want %q (insertion order)", i, got[i], keys[i])
		}
	}
}

func TestCopyMetadata(t *testing.T) {
	src, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer src.Free()
	src.SetMetadata("camera", "main")

	dst, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer dst.Free()

	dst.CopyMetadata(src)
	if v, ok := dst.GetMetadata("camera"); !ok || v != "main" {
		t.Errorf("GetMetadata() = (%q, %v), want (main, true)", v, ok)
	}

	// The copy must be independent of the source store.
	dst.SetMetadata("camera", "backup")
	if v, _ := src.GetMetadata("camera"); v != "main" {
		t.Errorf("source store mutated through the copy: %q", v)
	}

	dst.CopyMetadata(nil)
	if dst.Metadata() != nil {
		t.Error("CopyMetadata(nil) kept the old store")
	}
}
