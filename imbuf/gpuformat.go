package imbuf

import "github.com/gogpu/gputypes"

// Plane selects one of the pixel representations of a buffer.
type Plane uint8

const (
	// PlaneByte is the byte-pixel plane.
	PlaneByte Plane = iota

	// PlaneFloat is the float-pixel plane.
	PlaneFloat

	// PlaneZ is the integer depth plane.
	PlaneZ

	// PlaneZFloat is the float depth plane.
	PlaneZFloat
)

// TextureFormat maps a populated plane to the texture format a render-side
// caller should use when uploading it, without knowing the buffer's
// internal layout. Returns TextureFormatUndefined for an empty plane.
func (ibuf *ImBuf) TextureFormat(p Plane) gputypes.TextureFormat {
	switch p {
	case PlaneByte:
		if ibuf.byteBuffer.data != nil {
			return gputypes.TextureFormatRGBA8Unorm
		}
	case PlaneFloat:
		if ibuf.floatBuffer.data != nil {
			return gputypes.TextureFormatRGBA32Float
		}
	case PlaneZ:
		if ibuf.zBuffer.data != nil {
			return gputypes.TextureFormatR32Uint
		}
	case PlaneZFloat:
		if ibuf.zBufferFloat.data != nil {
			return gputypes.TextureFormatR32Float
		}
	}
	return gputypes.TextureFormatUndefined
}
