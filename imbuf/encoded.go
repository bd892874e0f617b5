package imbuf

// encodedBufferFloor is the minimum capacity of the encoded region. Growth
// is geometric above it, so repeated appends cost O(n) copying in total.
const encodedBufferFloor = 10000

// EncodedBytes returns the encoded region's used prefix, or nil.
func (ibuf *ImBuf) EncodedBytes() []uint8 {
	if ibuf.encodedBuffer.data == nil {
		return nil
	}
	return ibuf.encodedBuffer.data[:ibuf.encodedSize]
}

// EncodedLen returns the number of encoded bytes in use.
func (ibuf *ImBuf) EncodedLen() uint { return ibuf.encodedSize }

// EncodedCap returns the allocated capacity of the encoded region.
func (ibuf *ImBuf) EncodedCap() uint { return ibuf.encodedBufferSize }

// AddEncoded allocates the encoded region with the given capacity, freeing
// any previous one and resetting the used size. A zero capacity requests
// the default floor.
func (ibuf *ImBuf) AddEncoded(capacity uint) error {
	if ibuf == nil {
		return ErrNilBuffer
	}
	ibuf.freeEncoded()

	if capacity == 0 {
		capacity = encodedBufferFloor
	}
	if err := ibuf.encodedBuffer.alloc(capacity, 1, 1, "imbuf encoded"); err != nil {
		return err
	}
	ibuf.encodedBufferSize = capacity
	ibuf.encodedSize = 0
	ibuf.flags |= FlagMem
	return nil
}

// EnlargeEncoded grows the encoded region to max(2x current capacity, the
// default floor), preserving the used bytes at their offsets. A used size
// larger than the recorded capacity is a bookkeeping violation and returns
// ErrEncodedSizeMismatch.
func (ibuf *ImBuf) EnlargeEncoded() error {
	if ibuf == nil {
		return ErrNilBuffer
	}
	if ibuf.encodedBufferSize < ibuf.encodedSize {
		return ErrEncodedSizeMismatch
	}

	newSize := 2 * ibuf.encodedBufferSize
	if newSize < encodedBufferFloor {
		newSize = encodedBufferFloor
	}

	var grown buffer[uint8]
	if err := grown.alloc(newSize, 1, 1, "imbuf encoded"); err != nil {
		return err
	}

	if ibuf.encodedBuffer.data != nil {
		copy(grown.data, ibuf.encodedBuffer.data[:ibuf.encodedSize])
	} else {
		ibuf.encodedSize = 0
	}

	ibuf.encodedBuffer.free()
	ibuf.encodedBuffer = grown
	ibuf.encodedBufferSize = newSize
	ibuf.flags |= FlagMem
	return nil
}

// AppendEncoded grows the encoded region as needed and appends p, updating
// the used size.
func (ibuf *ImBuf) AppendEncoded(p []uint8) error {
	if ibuf == nil {
		return ErrNilBuffer
	}
	for ibuf.encodedBuffer.data == nil || ibuf.encodedSize+uint(len(p)) > ibuf.encodedBufferSize {
		if err := ibuf.EnlargeEncoded(); err != nil {
			return err
		}
	}
	copy(ibuf.encodedBuffer.data[ibuf.encodedSize:], p)
	ibuf.encodedSize += uint(len(p))
	return nil
}

// freeEncoded frees the encoded region and resets its bookkeeping.
func (ibuf *ImBuf) freeEncoded() {
	if ibuf == nil {
		return
	}
	ibuf.encodedBuffer.free()
	ibuf.encodedBufferSize = 0
	ibuf.encodedSize = 0
	ibuf.flags &^= FlagMem
}
