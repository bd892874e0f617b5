package imbuf

import (
	"github.com/feilipingmian/imbuf/internal/mem"
)

// Ownership tells an assignment entry point whether the ImBuf takes
// responsibility for releasing the provided region.
type Ownership uint8

const (
	// DoNotTakeOwnership marks a region as borrowed: the ImBuf may read it
	// but never frees it and must not mutate it in place.
	DoNotTakeOwnership Ownership = iota

	// TakeOwnership transfers the region to the ImBuf, which frees it when
	// the slot is cleared or the buffer is torn down.
	TakeOwnership
)

// bufferKind is the resolved ownership variant of a slot. Unlike the
// caller-facing Ownership tag it also distinguishes shared and foreign
// regions, so teardown never consults two fields to decide how to free.
type bufferKind uint8

const (
	kindEmpty    bufferKind = iota
	kindOwned               // allocated through the gate, freed here
	kindBorrowed            // owned elsewhere, never freed here
	kindShared              // one of several holders, freed via Sharing
	kindForeign             // external decoder region, freed via closure
)

// buffer is one slot of an ImBuf: a contiguous region plus the variant
// describing how, and whether, to release it. The zero value is the empty
// slot.
type buffer[T mem.Element] struct {
	data    []T
	kind    bufferKind
	sharing *Sharing  // kindShared only
	release func([]T) // kindForeign only
}

// free releases the slot's region according to its variant and resets the
// slot to its empty default.
func (b *buffer[T]) free() {
	switch b.kind {
	case kindShared:
		b.sharing.RemoveUserAndDeleteIfLast()
	case kindOwned:
		mem.Free(b.data)
	case kindForeign:
		// The region came from an external decoder; its matching release
		// routine must run, never the general allocator.
		if b.release != nil {
			b.release(b.data)
		}
	case kindBorrowed, kindEmpty:
		// Not ours to free.
	}
	*b = buffer[T]{}
}

// alloc routes through the allocator gate and makes the slot the exclusive
// owner of the zero-initialized result. The caller must have freed any
// previous contents. On failure the slot is left unchanged.
func (b *buffer[T]) alloc(x, y, channels uint, tag string) error {
	data, err := allocPixels[T](x, y, channels, tag)
	if err != nil {
		return err
	}
	b.data = data
	b.kind = kindOwned
	b.sharing = nil
	b.release = nil
	return nil
}

// makeWritable guarantees the region can be mutated in place without
// affecting any other holder. Borrowed and shared regions are duplicated
// into a newly owned allocation; exclusively held regions are left alone.
func (b *buffer[T]) makeWritable(tag string) {
	if len(b.data) == 0 {
		return
	}
	switch b.kind {
	case kindBorrowed, kindShared:
		data := mem.Dup(b.data, tag)
		if b.kind == kindShared {
			b.sharing.RemoveUserAndDeleteIfLast()
		}
		b.data = data
		b.kind = kindOwned
		b.sharing = nil
	case kindOwned, kindForeign:
		// Already the sole holder.
	}
}

// steal transfers the region to the caller and resets the slot. Only an
// exclusively owned region may be stolen: borrowed, shared and foreign
// slots are left untouched and nil is returned.
func (b *buffer[T]) steal() []T {
	if len(b.data) == 0 {
		return nil
	}
	if b.kind != kindOwned {
		Logger().Error("imbuf: stealing a region the buffer does not own")
		return nil
	}
	data := b.data
	// Accounting follows the region out to the caller.
	mem.Free(data)
	*b = buffer[T]{}
	return data
}

// assign frees the current contents and installs data with the given
// caller-facing ownership tag. Nil data leaves the slot empty.
func (b *buffer[T]) assign(data []T, own Ownership) {
	b.free()
	if len(data) == 0 {
		return
	}
	b.data = data
	if own == TakeOwnership {
		b.kind = kindOwned
	} else {
		b.kind = kindBorrowed
	}
}

// assignShared frees the current contents and registers the slot as an
// additional holder of the shared region. A nil control block demands nil
// data: the slot then stays in the borrow-nothing state.
func (b *buffer[T]) assignShared(data []T, sharing *Sharing) {
	b.free()
	if sharing == nil {
		if data != nil {
			Logger().Error("imbuf: shared assignment without a control block")
		}
		return
	}
	if len(data) == 0 {
		Logger().Error("imbuf: shared control block with no region")
		return
	}
	sharing.AddUser()
	b.data = data
	b.kind = kindShared
	b.sharing = sharing
}

// assignForeign frees the current contents and installs a region that must
// be released through its own closure.
func (b *buffer[T]) assignForeign(data []T, release func([]T)) {
	b.free()
	if len(data) == 0 {
		return
	}
	b.data = data
	b.kind = kindForeign
	b.release = release
}
