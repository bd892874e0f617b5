package imbuf

import (
	"testing"

	"github.com/feilipingmian/imbuf/internal/mem"
)

func TestAssignStealRoundTrip(t *testing.T) {
	ibuf, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	data := make([]uint8, 4*4*4)
	ibuf.AssignByteBuffer(data, TakeOwnership)
	if ibuf.Flags()&FlagRect == 0 {
		t.Fatal("FlagRect not set after assignment")
	}

	got := ibuf.StealByteBuffer()
	if got == nil || &got[0] != &data[0] {
		t.Fatal("StealByteBuffer() did not return the assigned region")
	}
	if ibuf.Bytes() != nil {
		t.Error("byte plane not empty after steal")
	}
	if ibuf.Flags()&FlagRect != 0 {
		t.Error("FlagRect still set after steal")
	}
}

func TestStealBorrowedRefused(t *testing.T) {
	ibuf, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	data := make([]uint8, 4*4*4)
	ibuf.AssignByteBuffer(data, DoNotTakeOwnership)

	if got := ibuf.StealByteBuffer(); got != nil {
		t.Fatal("StealByteBuffer() returned a borrowed region")
	}
	if ibuf.Bytes() == nil || &ibuf.Bytes()[0] != &data[0] {
		t.Error("borrowed plane was disturbed by the refused steal")
	}
	if ibuf.Flags()&FlagRect == 0 {
		t.Error("FlagRect cleared by the refused steal")
	}
}

func TestStealSharedRefused(t *testing.T) {
	ibuf, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	sharing := NewSharing(nil)
	defer sharing.RemoveUserAndDeleteIfLast()

	ibuf.AssignSharedFloatBuffer(make([]float32, 4*4*4), sharing)
	if got := ibuf.StealFloatBuffer(); got != nil {
		t.Fatal("StealFloatBuffer() returned a shared region")
	}
	if ibuf.FloatPixels() == nil {
		t.Error("shared plane was disturbed by the refused steal")
	}
}

func TestAssignNilClearsPlane(t *testing.T) {
	ibuf, err := New(4, 4, 32, FlagZBuf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	ibuf.AssignZBuffer(nil, TakeOwnership)
	if ibuf.ZBuf() != nil {
		t.Error("z plane not empty after nil assignment")
	}
	if ibuf.Flags()&FlagZBuf != 0 {
		t.Error("FlagZBuf still set after nil assignment")
	}
}

func TestAssignReplacesOwnedPlane(t *testing.T) {
	baseRegions, _ := mem.InUse()

	ibuf, err := New(4, 4, 32, FlagRect)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Replacing the gate-allocated plane must free it.
	ibuf.AssignByteBuffer(make([]uint8, 4*4*4), TakeOwnership)
	ibuf.Free()

	if regions, _ := mem.InUse(); regions != baseRegions {
		t.Errorf("leaked %d regions", regions-baseRegions)
	}
}

func TestAssignSharedLifetime(t *testing.T) {
	region := make([]float32, 8*8*4)
	released := false
	sharing := NewSharing(func() { released = true })

	a, err := New(8, 8, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	b, err := New(8, 8, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	a.AssignSharedFloatBuffer(region, sharing)
	b.AssignSharedFloatBuffer(region, sharing)
	if sharing.Users() != 3 {
		t.Fatalf("Users() = %d, want 3", sharing.Users())
	}
	if &a.FloatPixels()[0] != &region[0] || &b.FloatPixels()[0] != &region[0] {
		t.Fatal("shared planes do not alias the region")
	}

	sharing.RemoveUserAndDeleteIfLast() // the creator drops out
	a.Free()
	if released {
		t.Fatal("region released while a holder remained")
	}
	b.Free()
	if !released {
		t.Error("region not released by the last holder")
	}
}

func TestAssignSharedInvariants(t *testing.T) {
	ibuf, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	t.Run("data without control block", func(t *testing.T) {
		ibuf.AssignSharedByteBuffer(make([]uint8, 64), nil)
		if ibuf.Bytes() != nil {
			t.Error("plane populated despite missing control block")
		}
		if ibuf.Flags()&FlagRect != 0 {
			t.Error("FlagRect set despite missing control block")
		}
	})

	t.Run("control block without data", func(t *testing.T) {
		sharing := NewSharing(nil)
		ibuf.AssignSharedByteBuffer(nil, sharing)
		if ibuf.Bytes() != nil {
			t.Error("plane populated despite nil payload")
		}
		if sharing.Users() != 1 {
			t.Errorf("Users() = %d, want 1 (no holder registered)", sharing.Users())
		}
	})
}

func TestMakeWritableBorrowed(t *testing.T) {
	ibuf, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	data := make([]uint8, 4*4*4)
	data[0] = 9
	ibuf.AssignByteBuffer(data, DoNotTakeOwnership)

	ibuf.MakeWritableByteBuffer()
	if &ibuf.Bytes()[0] == &data[0] {
		t.Fatal("plane still aliases the borrowed region")
	}
	if ibuf.Bytes()[0] != 9 {
		t.Error("contents not preserved by the copy")
	}

	ibuf.Bytes()[0] = 200
	if data[0] != 9 {
		t.Error("mutation leaked into the borrowed region")
	}

	// The plane is now exclusively owned, so stealing succeeds.
	if got := ibuf.StealByteBuffer(); got == nil {
		t.Error("StealByteBuffer() refused an owned plane")
	}
}

func TestMakeWritableShared(t *testing.T) {
	region := make([]float32, 4*4*4)
	sharing := NewSharing(nil)

	ibuf, err := New(4, 4, 32, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	ibuf.AssignSharedFloatBuffer(region, sharing)
	if sharing.Users() != 2 {
		t.Fatalf("Users() = %d, want 2", sharing.Users())
	}

	ibuf.MakeWritableFloatBuffer()
	if &ibuf.FloatPixels()[0] == &region[0] {
		t.Fatal("plane still aliases the shared region")
	}
	if sharing.Users() != 1 {
		t.Errorf("Users() = %d, want 1 after the copy dropped its hold", sharing.Users())
	}

	sharing.RemoveUserAndDeleteIfLast()
}

func TestMakeWritableOwnedNoop(t *testing.T) {
	ibuf, err := New(4, 4, 32, FlagRect)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer ibuf.Free()

	before := &ibuf.Bytes()[0]
	ibuf.MakeWritableByteBuffer()
	if &ibuf.Bytes()[0] != before {
		t.Error("MakeWritableByteBuffer() reallocated an owned plane")
	}
	if ibuf.Flags()&FlagRect == 0 {
		t.Error("MakeWritableByteBuffer() cleared a flag")
	}
}
