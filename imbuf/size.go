package imbuf

import (
	"unsafe"

	"github.com/feilipingmian/imbuf/internal/mem"
)

// RectLen returns the pixel count of the image.
func (ibuf *ImBuf) RectLen() uint64 {
	return uint64(ibuf.x) * uint64(ibuf.y)
}

// SizeInMemory returns the buffer's footprint in bytes: the container
// header, the populated pixel planes, and recursively every counted mipmap
// level.
func (ibuf *ImBuf) SizeInMemory() uint64 {
	size := uint64(unsafe.Sizeof(*ibuf))

	var channelSize uint64
	if ibuf.byteBuffer.data != nil {
		channelSize++
	}
	if ibuf.floatBuffer.data != nil {
		channelSize += uint64(mem.SizeOf[float32]())
	}
	size += channelSize * uint64(ibuf.x) * uint64(ibuf.y) * uint64(ibuf.channels)

	for i := 0; i < ibuf.mipTot; i++ {
		if ibuf.mipmap[i] != nil {
			size += ibuf.mipmap[i].SizeInMemory()
		}
	}
	return size
}
