package imbuf

import (
	"image"
	"image/draw"
)

// FromImage copies a Go image into a fresh buffer with a populated byte
// plane. This is the boundary codecs built on the standard image package
// use to hand decoded pixels in.
func FromImage(img image.Image) (*ImBuf, error) {
	b := img.Bounds()

	ibuf, err := New(uint(b.Dx()), uint(b.Dy()), 32, FlagRect)
	if err != nil {
		return nil, err
	}

	dst := &image.RGBA{
		Pix:    ibuf.byteBuffer.data,
		Stride: b.Dx() * 4,
		Rect:   image.Rect(0, 0, b.Dx(), b.Dy()),
	}
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)

	return ibuf, nil
}

// ToImage wraps the byte plane as an *image.RGBA without copying; the
// returned image shares the plane's memory. Call
// [ImBuf.MakeWritableByteBuffer] first if the plane may be borrowed or
// shared and the image will be drawn into. Returns nil when the byte plane
// is not populated.
func (ibuf *ImBuf) ToImage() *image.RGBA {
	if ibuf.byteBuffer.data == nil {
		return nil
	}
	return &image.RGBA{
		Pix:    ibuf.byteBuffer.data,
		Stride: int(ibuf.x) * 4,
		Rect:   image.Rect(0, 0, int(ibuf.x), int(ibuf.y)),
	}
}
