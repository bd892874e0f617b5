package imbuf

import (
	"strings"

	"github.com/feilipingmian/imbuf/internal/mem"
)

// Free drops one reference to the buffer. While other holders remain the
// call only decrements the counter. The last holder's Free tears down every
// slot, the whole mipmap chain, the metadata store, the display cache and
// any foreign-decoder region.
//
// Free is safe to call on a nil buffer and safe for concurrent use.
func (ibuf *ImBuf) Free() {
	if ibuf == nil {
		return
	}

	ibuf.mu.Lock()
	if ibuf.refcounter > 0 {
		ibuf.refcounter--
		ibuf.mu.Unlock()
		return
	}
	ibuf.mu.Unlock()

	// The path may be rewritten after creation, so the invariant is checked
	// here rather than at construction.
	if strings.HasPrefix(ibuf.filePath, "//") {
		Logger().Error("imbuf: relative // prefix must not be used in buffer paths",
			"path", ibuf.filePath)
	}

	ibuf.freeAll()
	ibuf.metadata = nil
	ibuf.freeDisplayCache()
	ibuf.foreign.free()
}

// Ref registers an additional holder: the buffer now stays live until one
// more Free call. Safe for concurrent use.
func (ibuf *ImBuf) Ref() {
	ibuf.mu.Lock()
	ibuf.refcounter++
	ibuf.mu.Unlock()
}

// MakeSingleUser returns an exclusively owned buffer with the contents and
// metadata of ibuf, consuming one reference to it. When ibuf already has no
// other holders it is returned unchanged; otherwise a duplicate is returned
// and one reference to the original released.
func (ibuf *ImBuf) MakeSingleUser() (*ImBuf, error) {
	if ibuf == nil {
		return nil, nil
	}

	ibuf.mu.Lock()
	single := ibuf.refcounter == 0
	ibuf.mu.Unlock()
	if single {
		return ibuf, nil
	}

	dup, err := ibuf.Dup()
	if err != nil {
		return nil, err
	}

	dup.CopyMetadata(ibuf)
	ibuf.Free()

	return dup, nil
}

// Dup returns an independent copy of the buffer: every populated pixel,
// depth and encoded slot is copied into freshly owned regions, along with
// the scalar fields (path, format, options, density).
//
// The metadata store, the display cache, the mipmap chain, the foreign
// region and the reference count are deliberately not duplicated; the copy
// starts with an independent lifetime. Returns nil for a nil source. If any
// allocation fails the partially built duplicate is released first.
func (ibuf *ImBuf) Dup() (*ImBuf, error) {
	if ibuf == nil {
		return nil, nil
	}

	var flags Flags
	if ibuf.byteBuffer.data != nil {
		flags |= FlagRect
	}
	if ibuf.floatBuffer.data != nil {
		flags |= FlagRectFloat
	}
	if ibuf.zBuffer.data != nil {
		flags |= FlagZBuf
	}
	if ibuf.zBufferFloat.data != nil {
		flags |= FlagZBufFloat
	}

	// The float plane is allocated separately so the duplicate gets the
	// source's channel count instead of the default.
	dup, err := New(ibuf.x, ibuf.y, ibuf.planes, flags&^FlagRectFloat)
	if err != nil {
		return nil, err
	}

	if flags&FlagRect != 0 {
		copy(dup.byteBuffer.data, ibuf.byteBuffer.data)
	}
	if flags&FlagRectFloat != 0 {
		if err := dup.AddRectFloat(ibuf.channels); err != nil {
			dup.Free()
			return nil, err
		}
		copy(dup.floatBuffer.data, ibuf.floatBuffer.data)
	}
	if flags&FlagZBuf != 0 {
		copy(dup.zBuffer.data, ibuf.zBuffer.data)
	}
	if flags&FlagZBufFloat != 0 {
		copy(dup.zBufferFloat.data, ibuf.zBufferFloat.data)
	}

	if ibuf.encodedBuffer.data != nil {
		if err := dup.AddEncoded(ibuf.encodedBufferSize); err != nil {
			dup.Free()
			return nil, err
		}
		dup.encodedSize = ibuf.encodedSize
		copy(dup.encodedBuffer.data, ibuf.encodedBuffer.data[:ibuf.encodedSize])
	}

	dup.channels = ibuf.channels
	dup.filePath = ibuf.filePath
	dup.fileType = ibuf.fileType
	dup.foptions = ibuf.foptions
	dup.ppm = ibuf.ppm
	dup.flags |= ibuf.flags

	return dup, nil
}

// NewFromBytesOwn wraps caller-supplied byte and/or float pixel planes in a
// fresh buffer, taking ownership of the provided regions. At least one
// plane must be supplied. The planes are expected to be laid out with 4
// channels, matching the historical on-disk layout.
func NewFromBytesOwn(byteData []uint8, floatData []float32, w, h, channels uint) (*ImBuf, error) {
	if byteData == nil && floatData == nil {
		return nil, ErrNoPixels
	}

	ibuf, err := New(w, h, 32, 0)
	if err != nil {
		return nil, err
	}
	ibuf.channels = channels

	if floatData != nil {
		if uint(len(floatData)) < w*h*4 {
			ibuf.Free()
			return nil, ErrDataTooSmall
		}
		if n := mem.Len(floatData); n >= 0 && n != int(w*h*4)*mem.SizeOf[float32]() {
			Logger().Warn("imbuf: float plane size differs from its recorded allocation",
				"recorded", n)
		}
		ibuf.AssignFloatBuffer(floatData, TakeOwnership)
	}

	if byteData != nil {
		if uint(len(byteData)) < w*h*4 {
			ibuf.Free()
			return nil, ErrDataTooSmall
		}
		if n := mem.Len(byteData); n >= 0 && n != int(w*h*4) {
			Logger().Warn("imbuf: byte plane size differs from its recorded allocation",
				"recorded", n)
		}
		ibuf.AssignByteBuffer(byteData, TakeOwnership)
	}

	return ibuf, nil
}

// NewFromBytes builds a fresh buffer around copies of the supplied byte
// and/or float pixel planes. The caller keeps ownership of its regions. At
// least one plane must be supplied.
func NewFromBytes(byteData []uint8, floatData []float32, w, h, channels uint) (*ImBuf, error) {
	if byteData == nil && floatData == nil {
		return nil, ErrNoPixels
	}

	ibuf, err := New(w, h, 32, 0)
	if err != nil {
		return nil, err
	}
	ibuf.channels = channels

	if floatData != nil {
		if uint(len(floatData)) < w*h*4 {
			ibuf.Free()
			return nil, ErrDataTooSmall
		}
		if err := ibuf.floatBuffer.alloc(w, h, 4, "imbuf float pixels"); err != nil {
			ibuf.Free()
			return nil, err
		}
		copy(ibuf.floatBuffer.data, floatData)
		ibuf.flags |= FlagRectFloat
	}

	if byteData != nil {
		if uint(len(byteData)) < w*h*4 {
			ibuf.Free()
			return nil, ErrDataTooSmall
		}
		if err := ibuf.byteBuffer.alloc(w, h, 4, "imbuf byte pixels"); err != nil {
			ibuf.Free()
			return nil, err
		}
		copy(ibuf.byteBuffer.data, byteData)
		ibuf.flags |= FlagRect
	}

	return ibuf, nil
}
