package imbuf

import (
	"errors"
	"math"
	"math/bits"

	"github.com/feilipingmian/imbuf/internal/mem"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when a dimension or channel count is zero.
	ErrInvalidDimensions = errors.New("imbuf: invalid dimensions")

	// ErrTooLarge is returned when a requested pixel region would overflow
	// the addressable size range.
	ErrTooLarge = errors.New("imbuf: pixel region too large")

	// ErrNoPixels is returned when an operation needs pixel data that the
	// buffer does not hold.
	ErrNoPixels = errors.New("imbuf: no pixel data")

	// ErrNilBuffer is returned when an operation is invoked on a nil buffer.
	ErrNilBuffer = errors.New("imbuf: nil buffer")

	// ErrDataTooSmall is returned when a caller-supplied region is smaller
	// than the dimensions require.
	ErrDataTooSmall = errors.New("imbuf: data buffer too small")

	// ErrEncodedSizeMismatch is returned when the encoded buffer's used size
	// exceeds its recorded capacity.
	ErrEncodedSizeMismatch = errors.New("imbuf: encoded used size exceeds capacity")
)

// allocPixels is the single chokepoint for pixel, depth and encoded
// allocations. It guards the width*height*channels*elemSize product against
// overflow in widened precision and returns a zero-initialized region of
// exactly width*height*channels elements.
//
// The guard protects against files that declare dimensions whose product
// wraps around and would under-allocate.
func allocPixels[T mem.Element](x, y, channels uint, tag string) ([]T, error) {
	if x == 0 || y == 0 || channels == 0 {
		return nil, ErrInvalidDimensions
	}
	elemSize := uint64(mem.SizeOf[T]())
	hiC, pixelSize := bits.Mul64(uint64(channels), elemSize)
	hiP, pixels := bits.Mul64(uint64(x), uint64(y))
	if hiC != 0 || hiP != 0 || pixels >= uint64(math.MaxInt)/pixelSize {
		return nil, ErrTooLarge
	}
	return mem.Calloc[T](int(pixels*uint64(channels)), tag), nil
}
