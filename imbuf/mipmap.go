package imbuf

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// MakeMipmaps builds the chain of progressively halved levels from the byte
// plane, down to 1x1 or the fixed chain capacity, whichever comes first.
// Any previous chain is freed first. Each level is an independently owned
// child buffer torn down with its parent.
func (ibuf *ImBuf) MakeMipmaps() error {
	if ibuf == nil {
		return ErrNilBuffer
	}
	if ibuf.byteBuffer.data == nil {
		return ErrNoPixels
	}

	ibuf.freeMipmaps()

	src := ibuf
	for i := 0; i < MipmapLevels; i++ {
		if src.x <= 1 && src.y <= 1 {
			break
		}
		level, err := downsample(src)
		if err != nil {
			ibuf.freeMipmaps()
			return err
		}
		ibuf.mipmap[i] = level
		ibuf.mipTot = i + 1
		src = level
	}
	return nil
}

// RemakeMipmaps regenerates only the first n levels of an existing chain,
// replacing each in place and setting the advisory count to n. Levels past
// n from a previous, longer chain are left allocated; teardown scans the
// full chain capacity, so they are still reclaimed with the buffer.
func (ibuf *ImBuf) RemakeMipmaps(n int) error {
	if ibuf == nil {
		return ErrNilBuffer
	}
	if ibuf.byteBuffer.data == nil {
		return ErrNoPixels
	}
	if n > MipmapLevels {
		n = MipmapLevels
	}

	src := ibuf
	levels := 0
	for i := 0; i < n; i++ {
		if src.x <= 1 && src.y <= 1 {
			break
		}
		level, err := downsample(src)
		if err != nil {
			ibuf.mipTot = levels
			return err
		}
		if ibuf.mipmap[i] != nil {
			ibuf.mipmap[i].Free()
		}
		ibuf.mipmap[i] = level
		levels = i + 1
		src = level
	}
	ibuf.mipTot = levels
	return nil
}

// MipmapLevel returns the n-th downsampled level, or nil when n is outside
// the populated chain.
func (ibuf *ImBuf) MipmapLevel(n int) *ImBuf {
	if ibuf == nil || n < 0 || n >= MipmapLevels {
		return nil
	}
	return ibuf.mipmap[n]
}

// MipmapCount returns the advisory count of populated levels.
func (ibuf *ImBuf) MipmapCount() int {
	if ibuf == nil {
		return 0
	}
	return ibuf.mipTot
}

// freeMipmaps tears down the chain. It deliberately scans the full capacity
// rather than trusting mipTot: partial regeneration can leave live levels
// past the advisory count.
func (ibuf *ImBuf) freeMipmaps() {
	for i := range ibuf.mipmap {
		if ibuf.mipmap[i] != nil {
			ibuf.mipmap[i].Free()
			ibuf.mipmap[i] = nil
		}
	}
	ibuf.mipTot = 0
}

// downsample produces a half-size child buffer from the source's byte
// plane using a bilinear scaler.
func downsample(src *ImBuf) (*ImBuf, error) {
	w := max(src.x/2, 1)
	h := max(src.y/2, 1)

	dst, err := New(w, h, 32, FlagRect)
	if err != nil {
		return nil, err
	}

	srcImg := &image.RGBA{
		Pix:    src.byteBuffer.data,
		Stride: int(src.x) * 4,
		Rect:   image.Rect(0, 0, int(src.x), int(src.y)),
	}
	dstImg := &image.RGBA{
		Pix:    dst.byteBuffer.data,
		Stride: int(w) * 4,
		Rect:   image.Rect(0, 0, int(w), int(h)),
	}
	xdraw.ApproxBiLinear.Scale(dstImg, dstImg.Rect, srcImg, srcImg.Rect, xdraw.Src, nil)

	return dst, nil
}
